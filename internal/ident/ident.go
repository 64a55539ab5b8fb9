// Package ident issues the opaque params that identify meetings externally.
package ident

import (
	"context"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/meetpoint/internal/domain"
)

// DefaultMaxAttempts bounds the generate-and-check loop in Allocate.
const DefaultMaxAttempts = 10

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewParam returns a random 26-character lowercase base32 encoding of a
// version 4 UUID. It is URL safe and carries 122 bits of entropy.
func NewParam() string {
	u := uuid.New()
	return strings.ToLower(encoding.EncodeToString(u[:]))
}

// ParamChecker reports whether a param is already used by a meeting.
// repo.MeetingRepo satisfies it.
type ParamChecker interface {
	ParamExists(ctx context.Context, param string) (bool, error)
}

// Allocator generates params that are not yet used by any meeting.
//
// The check is advisory: two allocators can race on the same candidate, so the
// unique index on meetings.param remains the final arbiter and callers must
// treat a domain.ErrConflict from the insert as a reason to allocate again.
type Allocator struct {
	checker     ParamChecker
	generate    func() string
	maxAttempts int
}

// NewAllocator constructs an Allocator. maxAttempts < 1 falls back to DefaultMaxAttempts.
func NewAllocator(checker ParamChecker, maxAttempts int) *Allocator {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{checker: checker, generate: NewParam, maxAttempts: maxAttempts}
}

// WithGenerator replaces the random source. Used by tests to force collisions.
func (a *Allocator) WithGenerator(generate func() string) *Allocator {
	a.generate = generate
	return a
}

// MaxAttempts returns the configured attempt bound.
func (a *Allocator) MaxAttempts() int {
	return a.maxAttempts
}

// Allocate returns a param that no meeting used at the time of the check.
// Returns domain.ErrAllocationExhausted after maxAttempts collisions.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for range a.maxAttempts {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("ident.Allocator.Allocate: %w", err)
		}
		param := a.generate()
		exists, err := a.checker.ParamExists(ctx, param)
		if err != nil {
			return "", fmt.Errorf("ident.Allocator.Allocate: %w", err)
		}
		if !exists {
			return param, nil
		}
	}
	return "", fmt.Errorf("ident.Allocator.Allocate: %w", domain.ErrAllocationExhausted)
}
