package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/vango-dev/prerender/pkg/engine"
	"github.com/vango-dev/prerender/pkg/markup"
	"github.com/vango-dev/prerender/pkg/snapshot"
	"github.com/vango-dev/prerender/pkg/vdom"
)

var (
	// ErrNoStore is returned by snapshot endpoints when no store is configured.
	ErrNoStore = errors.New("server: no snapshot store configured")

	// ErrBodyTooLarge is returned when a tree document exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("server: request body too large")
)

// errorResponse is the JSON body of every failed API request.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error to the HTTP status reported for it.
func statusFor(err error) int {
	var attrErr *markup.AttributeError
	switch {
	case errors.Is(err, vdom.ErrInvalidTree),
		errors.Is(err, snapshot.ErrInvalidKey),
		errors.As(err, &attrErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, snapshot.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoStore):
		return http.StatusNotImplemented
	case errors.Is(err, engine.ErrUnresolvedSuspension),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
