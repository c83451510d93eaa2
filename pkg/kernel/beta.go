package kernel

import (
	"fmt"

	"github.com/pell-lang/pell/pkg/term"
)

// IsRedex reports whether t is an application whose function position is a
// lambda abstraction.
func IsRedex(t term.Term) bool {
	app, ok := t.(*term.Application)
	return ok && term.IsLambda(app.Fn)
}

// BetaReduce contracts a single redex ((λx. b) a) into b[x := a]. Calling
// it on anything that is not a redex is an invariant violation.
func BetaReduce(t term.Term) (term.Term, error) {
	app, ok := t.(*term.Application)
	if !ok || !term.IsLambda(app.Fn) {
		return nil, fmt.Errorf("%w: %s", ErrNotARedex, t)
	}
	lam := app.Fn.(*term.Binder)
	return term.Subst(lam.Body, lam.Bound, app.Arg), nil
}

// BetaStep performs one bottom-up pass contracting every redex it finds.
// Both sides of an application are explored even when one already changed,
// and a lambda surfacing in function position during the pass is contracted
// immediately.
func BetaStep(t term.Term) (term.Term, bool, error) {
	out, changed, err := descend(t, BetaStep)
	if err != nil {
		return nil, false, err
	}
	if !IsRedex(out) {
		return out, changed, nil
	}
	contracted, err := BetaReduce(out)
	if err != nil {
		return nil, false, err
	}
	return contracted, true, nil
}

// BetaNormalize repeats BetaStep until no redex remains.
func BetaNormalize(t term.Term) (term.Term, error) {
	return fixpoint(t, BetaStep)
}
