package kernel

import (
	"github.com/pell-lang/pell/pkg/term"
)

// StepFunc rewrites a term in one bottom-up pass, reporting whether any
// rewrite occurred anywhere in the pass.
type StepFunc func(term.Term) (term.Term, bool, error)

// descend applies step to every immediate child of t, rebuilding t only
// when a child changed. Shapes without children are returned untouched, as
// is any shape descend does not recognize.
func descend(t term.Term, step StepFunc) (term.Term, bool, error) {
	switch t := t.(type) {
	case *term.Binder:
		anno := t.Anno
		annoChanged := false
		if anno != nil {
			var err error
			anno, annoChanged, err = step(anno)
			if err != nil {
				return nil, false, err
			}
		}
		body, bodyChanged, err := step(t.Body)
		if err != nil {
			return nil, false, err
		}
		if !annoChanged && !bodyChanged {
			return t, false, nil
		}
		return &term.Binder{Kind: t.Kind, Bound: t.Bound, Anno: anno, Body: body}, true, nil
	case *term.Application:
		fn, fnChanged, err := step(t.Fn)
		if err != nil {
			return nil, false, err
		}
		arg, argChanged, err := step(t.Arg)
		if err != nil {
			return nil, false, err
		}
		if !fnChanged && !argChanged {
			return t, false, nil
		}
		return &term.Application{Fn: fn, Arg: arg}, true, nil
	case *term.Reference:
		args, changed, err := stepList(t.Args, step)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return t, false, nil
		}
		return &term.Reference{Name: t.Name, Args: args}, true, nil
	case *term.Ascription:
		anno, annoChanged, err := step(t.Anno)
		if err != nil {
			return nil, false, err
		}
		body, bodyChanged, err := step(t.Body)
		if err != nil {
			return nil, false, err
		}
		if !annoChanged && !bodyChanged {
			return t, false, nil
		}
		return &term.Ascription{Anno: anno, Body: body}, true, nil
	default:
		return t, false, nil
	}
}

// stepList applies step to each element in order, sharing the input slice
// when nothing changed.
func stepList(ts []term.Term, step StepFunc) ([]term.Term, bool, error) {
	var out []term.Term
	for i, t := range ts {
		st, changed, err := step(t)
		if err != nil {
			return nil, false, err
		}
		if out == nil && changed {
			out = make([]term.Term, i, len(ts))
			copy(out, ts[:i])
		}
		if out != nil {
			out = append(out, st)
		}
	}
	if out == nil {
		return ts, false, nil
	}
	return out, true, nil
}

// fixpoint repeats step until it reports no change. Termination is the
// strong-normalization property of the calculus; nothing here bounds the
// iteration count.
func fixpoint(t term.Term, step StepFunc) (term.Term, error) {
	for {
		next, changed, err := step(t)
		if err != nil {
			return nil, err
		}
		if !changed {
			return next, nil
		}
		t = next
	}
}
