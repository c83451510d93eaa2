package kernel

import (
	"context"

	"github.com/pell-lang/pell/pkg/defn"
	"github.com/pell-lang/pell/pkg/term"
)

// Equivalent reports whether a and b share a normal form up to renaming of
// bound variables. This is the kernel's sole notion of definitional
// equality.
func Equivalent(ctx context.Context, env *defn.Env, a, b term.Term) (bool, error) {
	na, err := Normalize(ctx, env, nil, a)
	if err != nil {
		return false, err
	}
	nb, err := Normalize(ctx, env, nil, b)
	if err != nil {
		return false, err
	}
	return term.AlphaEquivalent(na, nb), nil
}
