package kernel

import (
	"context"
	"fmt"

	"github.com/pell-lang/pell/pkg/defn"
	"github.com/pell-lang/pell/pkg/term"
)

// Phase names one of the three rewrite engines as seen by a Tracer.
type Phase int

const (
	PhaseSpecial Phase = iota
	PhaseDelta
	PhaseBeta
)

func (p Phase) String() string {
	switch p {
	case PhaseSpecial:
		return "special"
	case PhaseDelta:
		return "delta"
	case PhaseBeta:
		return "beta"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Tracer observes every pass that changed the term, after the pass ran.
type Tracer func(phase Phase, before, after term.Term)

// Normalize rewrites t to its normal form. Each round runs one special
// pass, then one delta pass, then one beta pass, and restarts from the top
// after the first pass that changes anything: specials must be gone before
// delta or beta ever run, and definitions unfold before redexes contract so
// that unfolding can expose further specials. env may be nil; ctx and sc
// are only handed through to special capabilities.
func Normalize(ctx context.Context, env *defn.Env, sc defn.Scope, t term.Term) (term.Term, error) {
	n := Normalizer{Env: env, Scope: sc}
	return n.Normalize(ctx, t)
}

// Normalizer runs the rewrite loop with optional tracing.
type Normalizer struct {
	Env   *defn.Env
	Scope defn.Scope
	Trace Tracer
}

// Normalize rewrites t until none of the three engines can change it.
func (n *Normalizer) Normalize(ctx context.Context, t term.Term) (term.Term, error) {
	for {
		next, changed, err := SpecialStep(ctx, n.Env, n.Scope, t)
		if err != nil {
			return nil, err
		}
		if changed {
			n.trace(PhaseSpecial, t, next)
			t = next
			continue
		}

		next, changed, err = DeltaStep(n.Env, t, false)
		if err != nil {
			return nil, err
		}
		if changed {
			n.trace(PhaseDelta, t, next)
			t = next
			continue
		}

		next, changed, err = BetaStep(t)
		if err != nil {
			return nil, err
		}
		if changed {
			n.trace(PhaseBeta, t, next)
			t = next
			continue
		}

		return t, nil
	}
}

func (n *Normalizer) trace(phase Phase, before, after term.Term) {
	if n.Trace != nil {
		n.Trace(phase, before, after)
	}
}
