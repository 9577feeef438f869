package model

type MessageResponse struct {
	Message string `json:"message"`
}

type SessionCheckResponse struct {
	Message string   `json:"message"`
	User    Identity `json:"user"`
}

type RoleChangeResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}
