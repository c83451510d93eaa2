package kernel

import (
	"testing"

	"github.com/pell-lang/pell/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRedex(t *testing.T) {
	cases := []struct {
		name string
		term term.Term
		want bool
	}{
		{"lambda applied", term.App(term.Lam("x", nil, term.Var("x")), term.Var("y")), true},
		{"pi applied", term.App(term.Pi("x", term.Ref("Nat"), term.Var("x")), term.Var("y")), false},
		{"variable applied", term.App(term.Var("f"), term.Var("y")), false},
		{"bare lambda", term.Lam("x", nil, term.Var("x")), false},
		{"variable", term.Var("x"), false},
		{"reference", term.Ref("id", term.Var("y")), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRedex(tc.term))
		})
	}
}

func TestBetaReduce(t *testing.T) {
	t.Run("contracts a redex", func(t *testing.T) {
		out, err := BetaReduce(term.App(term.Lam("x", nil, term.App(term.Var("x"), term.Var("x"))), term.Ref("a")))
		require.NoError(t, err)
		assert.Equal(t, "(a a)", out.String())
	})

	t.Run("variable is not a redex", func(t *testing.T) {
		_, err := BetaReduce(term.Var("x"))
		assert.ErrorIs(t, err, ErrNotARedex)
		assert.True(t, IsInvariant(err))
	})

	t.Run("application of a pi is not a redex", func(t *testing.T) {
		_, err := BetaReduce(term.App(term.Pi("x", term.Ref("Nat"), term.Var("x")), term.Var("y")))
		assert.ErrorIs(t, err, ErrNotARedex)
	})
}

func TestBetaStep(t *testing.T) {
	t.Run("contracts sibling redexes in one pass", func(t *testing.T) {
		redex := func(out string) term.Term {
			return term.App(term.Lam("x", nil, term.Var("x")), term.Ref(out))
		}
		out, changed, err := BetaStep(term.App(redex("a"), redex("b")))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "(a b)", out.String())
	})

	t.Run("contracts a redex exposed by the same pass", func(t *testing.T) {
		// ((λf. f) (λy. y)) a exposes (λy. y) a only after the inner
		// contraction.
		inner := term.App(term.Lam("f", nil, term.Var("f")), term.Lam("y", nil, term.Var("y")))
		out, changed, err := BetaStep(term.App(inner, term.Ref("a")))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "a", out.String())
	})

	t.Run("reduces under binders", func(t *testing.T) {
		out, changed, err := BetaStep(term.Lam("x", nil,
			term.App(term.Lam("y", nil, term.Var("y")), term.Var("x"))))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "λx. x", out.String())
	})

	t.Run("reduces inside binder annotations", func(t *testing.T) {
		anno := term.App(term.Lam("A", nil, term.Var("A")), term.Ref("Nat"))
		out, changed, err := BetaStep(term.Pi("x", anno, term.Var("x")))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "Πx:Nat. x", out.String())
	})

	t.Run("reduces inside reference arguments", func(t *testing.T) {
		out, changed, err := BetaStep(term.Ref("pair",
			term.App(term.Lam("x", nil, term.Var("x")), term.Ref("a")),
			term.Ref("b")))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "pair(a, b)", out.String())
	})

	t.Run("normal forms are shared, not rebuilt", func(t *testing.T) {
		nf := term.Lam("x", nil, term.App(term.Var("x"), term.Var("x")))
		out, changed, err := BetaStep(nf)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Same(t, nf, out)
	})
}

func TestBetaNormalize(t *testing.T) {
	t.Run("avoids variable capture", func(t *testing.T) {
		// ((λz. (λx. (x z))) x) must not become (λx. (x x)).
		in := term.App(
			term.Lam("z", nil, term.Lam("x", nil, term.App(term.Var("x"), term.Var("z")))),
			term.Var("x"),
		)
		out, err := BetaNormalize(in)
		require.NoError(t, err)
		assert.Equal(t, "λx'. (x' x)", out.String())
		assert.True(t, term.AlphaEquivalent(out,
			term.Lam("w", nil, term.App(term.Var("w"), term.Var("x")))))
	})

	t.Run("iterates until no redex remains", func(t *testing.T) {
		// (λf. λx. (f (f x))) (λy. y) needs more than one pass.
		twice := term.Lam("f", nil, term.Lam("x", nil,
			term.App(term.Var("f"), term.App(term.Var("f"), term.Var("x")))))
		out, err := BetaNormalize(term.App(twice, term.Lam("y", nil, term.Var("y"))))
		require.NoError(t, err)
		assert.Equal(t, "λx. x", out.String())
	})

	t.Run("leaves references alone", func(t *testing.T) {
		in := term.Ref("id", term.Ref("Nat"))
		out, err := BetaNormalize(in)
		require.NoError(t, err)
		assert.Same(t, in, out)
	})
}
