package api

import (
	"fmt"

	"github.com/rootpulse/pulse-cli/internal/common"
)

// fallbackMessage is used when an error response body is not valid JSON or
// carries no message field.
const fallbackMessage = "request failed"

// Error is an API failure: the server responded with a non-success status.
// Message is the server-supplied text when parseable, else fallbackMessage.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Is lets callers match authorization failures with
// errors.Is(err, common.ErrUnauthorized).
func (e *Error) Is(target error) bool {
	if target == common.ErrUnauthorized {
		return e.Status == 401 || e.Status == 403
	}
	return false
}
