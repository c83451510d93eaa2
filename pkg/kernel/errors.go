package kernel

import (
	"errors"
)

// User-facing rewrite errors. These arise from malformed input terms or
// environments and are surfaced to the caller as-is.
var (
	// ErrTooManyArguments marks a reference applied to more arguments
	// than its definition declares.
	ErrTooManyArguments = errors.New("too many arguments")

	// ErrUnprovenTheorem marks an attempt to reduce a theorem with no
	// proof attached.
	ErrUnprovenTheorem = errors.New("unproven theorem")
)

// Internal invariant violations. A well-formed kernel state never reaches
// these; when one surfaces the caller should abort, not recover.
var (
	// ErrNotARedex marks a beta contraction applied to a term that is
	// not an application of a lambda.
	ErrNotARedex = errors.New("not a redex")

	// ErrNotAReference marks a delta or special reduction applied to a
	// term that is not a reference.
	ErrNotAReference = errors.New("not a reference")

	// ErrMissingBody marks an unfolding of a definition that was never
	// given a body.
	ErrMissingBody = errors.New("definition has no body")

	// ErrSpecialAtDeltaTime marks a special definition that survived
	// into delta reduction instead of being eliminated first.
	ErrSpecialAtDeltaTime = errors.New("special definition reached delta reduction")
)

// IsInvariant reports whether err indicates a corrupted kernel state rather
// than a mistake in the input.
func IsInvariant(err error) bool {
	return errors.Is(err, ErrNotARedex) ||
		errors.Is(err, ErrNotAReference) ||
		errors.Is(err, ErrMissingBody) ||
		errors.Is(err, ErrSpecialAtDeltaTime)
}
