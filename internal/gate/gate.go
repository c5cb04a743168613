package gate

import (
	"context"

	"github.com/rs/zerolog/log"

	"moco-web/internal/backend"
)

// Status is the upload-limit gate outcome for a user.
type Status string

const (
	// StatusChecking is the initial status while the probe is in flight.
	StatusChecking Status = "checking"
	// StatusAllowed means the user may upload another image today.
	StatusAllowed Status = "allowed"
	// StatusLimitReached means the daily upload limit is exhausted.
	StatusLimitReached Status = "limit-reached"
	// StatusNotFound means the user is unknown to the backend, or the
	// check could not be completed at all.
	StatusNotFound Status = "not-found"
)

// Gate performs the optimistic pre-upload limit check. The result is a UI
// hint only; the backend re-decides when the upload is registered, so a user
// can pass the gate and still be rejected at upload time.
type Gate struct {
	backend *backend.Client
}

func New(client *backend.Client) *Gate {
	return &Gate{backend: client}
}

// Check maps the backend's answer onto a gate status. The status is
// terminal for the lifetime of one page view; a fresh page load re-checks.
func (g *Gate) Check(ctx context.Context, email string) Status {
	if email == "" {
		return StatusNotFound
	}

	env, err := g.backend.CheckUploadLimit(ctx, email)
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("Upload limit check failed")
		return StatusNotFound
	}

	switch env.StatusCode {
	case 200:
		return StatusAllowed
	case 429:
		return StatusLimitReached
	default:
		return StatusNotFound
	}
}
