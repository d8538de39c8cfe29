package session

import "github.com/google/uuid"

// NewAccessID returns the identifier binding a JWT (as its jti claim) to its
// activity record.
func NewAccessID() string {
	return uuid.NewString()
}
