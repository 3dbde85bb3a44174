package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/prerender/pkg/cache"
)

var (
	// ErrUnresolvedSuspension is returned when a component outside any
	// suspense boundary is still waiting on data once the render's
	// maximum wait has elapsed.
	ErrUnresolvedSuspension = errors.New("engine: suspension outside a boundary did not resolve in time")

	// ErrComponentPanic wraps a panic raised while rendering a component.
	ErrComponentPanic = errors.New("engine: component panicked")
)

// ComponentError is a failure returned by a component's Render.
type ComponentError struct {
	Path string
	Err  error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("engine: component at %s: %v", e.Path, e.Err)
}

func (e *ComponentError) Unwrap() error { return e.Err }

func unresolved(sus []*cache.Suspension) error {
	names := make([]string, 0, len(sus))
	for _, s := range sus {
		names = append(names, s.Resource+"["+s.Key+"]")
	}
	return fmt.Errorf("%w: %s", ErrUnresolvedSuspension, strings.Join(names, ", "))
}
