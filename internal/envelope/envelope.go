// Package envelope defines the uniform message wrapper exchanged between
// pipeline stages. The payload type alone determines how a receiving stage
// interprets an envelope; the sender field exists for logging only.
package envelope

import "time"

// Status describes the outcome carried by an envelope.
type Status string

const (
	// StatusSuccess means the stage produced a complete payload.
	StatusSuccess Status = "success"

	// StatusPartial means some sensors or pollutants were unavailable but
	// processing continued with what was there.
	StatusPartial Status = "partial"

	// StatusError means the stage failed and the envelope carries no payload.
	StatusError Status = "error"
)

// Envelope wraps one stage's result. Immutable once constructed.
type Envelope[T any] struct {
	Sender    string
	Payload   T
	Status    Status
	Notes     []string
	Err       error
	Timestamp time.Time
}

// Wrap produces a success envelope with the current timestamp.
func Wrap[T any](sender string, payload T) Envelope[T] {
	return Envelope[T]{
		Sender:    sender,
		Payload:   payload,
		Status:    StatusSuccess,
		Timestamp: time.Now(),
	}
}

// WrapPartial produces a partial envelope. Notes enumerate what was missing.
func WrapPartial[T any](sender string, payload T, notes []string) Envelope[T] {
	return Envelope[T]{
		Sender:    sender,
		Payload:   payload,
		Status:    StatusPartial,
		Notes:     notes,
		Timestamp: time.Now(),
	}
}

// WrapError produces an error envelope carrying the structured cause and no
// payload.
func WrapError[T any](sender string, err error) Envelope[T] {
	return Envelope[T]{
		Sender:    sender,
		Status:    StatusError,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// OK reports whether the envelope carries a usable payload.
func (e Envelope[T]) OK() bool {
	return e.Status != StatusError
}
