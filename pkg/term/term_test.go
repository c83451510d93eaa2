package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	cases := []struct {
		name string
		term Term
		want string
	}{
		{"variable", Var("x"), "x"},
		{"lambda", Lam("x", Ref("Nat"), Var("x")), "λx:Nat. x"},
		{"lambda without annotation", Lam("x", nil, Var("x")), "λx. x"},
		{"pi", Pi("A", Ref("Type"), Pi("_", Var("A"), Var("A"))), "ΠA:Type. Π_:A. A"},
		{"application", App(Var("f"), Var("a")), "(f a)"},
		{"nested application", App(Ref("f"), Var("a"), Var("b")), "((f a) b)"},
		{"reference", Ref("zero"), "zero"},
		{"reference with args", Ref("pair", Var("a"), Var("b")), "pair(a, b)"},
		{"ascription", Ascribe(Var("x"), Ref("Nat")), "(x : Nat)"},
		{"redex", App(Lam("z", nil, Lam("x", nil, App(Var("x"), Var("z")))), Var("x")), "((λz. λx. (x z)) x)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.term.String())
		})
	}
}

func TestApp(t *testing.T) {
	t.Run("no args returns fn unchanged", func(t *testing.T) {
		fn := Var("f")
		assert.Same(t, fn, App(fn))
	})

	t.Run("left associated", func(t *testing.T) {
		out := App(Var("f"), Var("a"), Var("b"))
		app, ok := out.(*Application)
		assert.True(t, ok)
		assert.Equal(t, Var("b"), app.Arg)
		inner, ok := app.Fn.(*Application)
		assert.True(t, ok)
		assert.Equal(t, Var("a"), inner.Arg)
		assert.Equal(t, Var("f"), inner.Fn)
	})
}

func TestShapePredicates(t *testing.T) {
	lam := Lam("x", nil, Var("x"))
	pi := Pi("x", Ref("Nat"), Var("x"))

	t.Run("binders", func(t *testing.T) {
		assert.True(t, IsBinder(lam))
		assert.True(t, IsBinder(pi))
		assert.False(t, IsBinder(Var("x")))

		assert.True(t, IsLambda(lam))
		assert.False(t, IsLambda(pi), "only lambdas head redexes")
		assert.False(t, IsLambda(Ref("id")))
	})

	t.Run("applications", func(t *testing.T) {
		assert.True(t, IsApplication(App(Var("f"), Var("a"))))
		assert.False(t, IsApplication(Ref("f", Var("a"))))
	})

	t.Run("references", func(t *testing.T) {
		assert.True(t, IsReference(Ref("id")))
		assert.True(t, IsReference(Ref("pair", Var("a"))))
		assert.False(t, IsReference(Var("x")))
	})

	t.Run("ascriptions", func(t *testing.T) {
		assert.True(t, IsAscription(Ascribe(Var("x"), Ref("Nat"))))
		assert.False(t, IsAscription(lam))
	})
}
