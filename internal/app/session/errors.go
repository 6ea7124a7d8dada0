package session

import (
	"fmt"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/models"
)

// AuthenticationError is returned by SignIn when the backend rejects the
// credential exchange. Reason is safe to show to the user.
type AuthenticationError struct {
	Reason     string
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed (%d): %s", e.StatusCode, e.Reason)
	}
	return "authentication failed: " + e.Reason
}

// Unwrap lets callers match with errors.Is(err, models.ErrUnauthenticated).
func (e *AuthenticationError) Unwrap() error {
	return models.ErrUnauthenticated
}
