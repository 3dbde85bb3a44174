package cache

import (
	"context"
	"errors"
	"fmt"
)

// Status is the load state of a record. Transitions only move forward:
// Empty -> Pending -> Resolved | Rejected.
type Status int

const (
	Empty    Status = iota // Never requested
	Pending                // Load in flight
	Resolved               // Value available
	Rejected               // Load failed
)

// String returns the string representation of the Status.
func (s Status) String() string {
	switch s {
	case Empty:
		return "empty"
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// record is one cache entry per (resource name, key).
type record struct {
	status Status
	op     *Operation // only while Pending
	value  any        // only when Resolved
	err    error      // only when Rejected
}

// Operation is the handle of an in-flight load. It settles exactly once.
type Operation struct {
	done  chan struct{}
	value any
	err   error
}

func newOperation() *Operation {
	return &Operation{done: make(chan struct{})}
}

// settle stores the outcome and wakes every waiter.
func (o *Operation) settle(value any, err error) {
	o.value = value
	o.err = err
	close(o.done)
}

// Done returns a channel that is closed once the load has settled.
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Settled reports whether the load has finished.
func (o *Operation) Settled() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the load settles or ctx is done. It returns the loaded
// value or the load error; ctx.Err() if the context ends first.
func (o *Operation) Wait(ctx context.Context) (any, error) {
	select {
	case <-o.done:
		return o.value, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Suspension is returned by a suspending read of a record that is not
// ready yet. The caller is expected to abandon the current unit of work
// and retry once Op settles.
type Suspension struct {
	Resource string
	Key      string
	Op       *Operation
}

func (s *Suspension) Error() string {
	return fmt.Sprintf("cache: %s[%s] is not ready", s.Resource, s.Key)
}

// AsSuspension extracts a Suspension from err.
func AsSuspension(err error) (*Suspension, bool) {
	var s *Suspension
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}

// IsSuspension reports whether err signals a suspended read.
func IsSuspension(err error) bool {
	_, ok := AsSuspension(err)
	return ok
}

// LoadError is the error of a Rejected record restored from serialized
// data. Only the message survives serialization.
type LoadError struct {
	Resource string
	Key      string
	Message  string
}

func (e *LoadError) Error() string {
	return e.Message
}

var (
	// ErrPendingRecords is returned by Serialize while loads are in flight.
	ErrPendingRecords = errors.New("cache: cannot serialize while loads are pending")

	// ErrLoadPanic wraps a panic raised by a load function.
	ErrLoadPanic = errors.New("cache: load panicked")

	// ErrLoadTimeout is the synthetic rejection produced by Resource.WithTimeout.
	ErrLoadTimeout = errors.New("cache: load timed out")
)
