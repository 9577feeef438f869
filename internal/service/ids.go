package service

import "github.com/google/uuid"

// validID reports whether raw can be a primary key. Anything else cannot match
// a row, so callers answer with their not-found error without a round trip.
func validID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}
