package discord

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ErrPermissionDenied means the bot lacks the rights to manage roles. Not
// retryable; a configuration problem to surface to the operator.
var ErrPermissionDenied = errors.New("discord: missing permission to manage roles")

// RateLimitedError signals a 429 from the Discord API. RetryAfter is the
// server-suggested wait, zero when unknown.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("discord: rate limited, retry after %s", e.RetryAfter)
}

// classifyErr maps discordgo errors onto the two distinguished categories the
// projection layer cares about. Everything else passes through unchanged.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}

	var rle *discordgo.RateLimitError
	if errors.As(err, &rle) {
		return &RateLimitedError{RetryAfter: rle.RetryAfter}
	}

	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusTooManyRequests:
			return &RateLimitedError{}
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
	}

	return err
}
