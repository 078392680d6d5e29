// Package errs is the order engine's thin layer over cockroachdb/errors:
// stack-carrying construction, wrapping, and sentinel marking so handlers
// can match command errors with errors.Is.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// New builds a stack-carrying error. Command sentinels (ErrCartEmpty,
// ErrInvalidCoupon, ...) are created with it.
func New(msg string) error {
	return cr.New(msg)
}

// Wrap annotates err with msg while keeping the original stack and any
// attached sentinels.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches markErr as a sentinel of err: errors.Is on the result
// matches markErr, while err's own message and stack stay visible.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// MarkNew is shorthand for Mark(New(msg), markErr), for errors born with a
// sentinel already chosen.
func MarkNew(msg string, markErr error) error {
	return cr.Mark(cr.New(msg), markErr)
}

// ExtractStackLines renders err verbosely and returns at most maxLines,
// for structured request logs where a full dump would drown the entry.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
