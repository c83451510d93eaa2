package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pell-lang/pell/pkg/defn"
	"github.com/pell-lang/pell/pkg/term"
)

func TestParseTerm(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want term.Term
	}{
		{"free name is a reference", "x", term.Ref("x")},
		{"bound name is a variable", "λx. x", term.Lam("x", nil, term.Var("x"))},
		{"multiple binders", "λf x. f",
			term.Lam("f", nil, term.Lam("x", nil, term.Var("f")))},
		{"annotated binder", "λx:Nat. x",
			term.Lam("x", term.Ref("Nat"), term.Var("x"))},
		{"parenthesized binders depend on earlier ones", "λ(A:Type) (x:A). x",
			term.Lam("A", term.Ref("Type"), term.Lam("x", term.Var("A"), term.Var("x")))},
		{"pi binder", "Πn:Nat. Vec(n)",
			term.Pi("n", term.Ref("Nat"), term.Ref("Vec", term.Var("n")))},
		{"juxtaposition is left associative", "f a b",
			term.App(term.Ref("f"), term.Ref("a"), term.Ref("b"))},
		{"call parens become reference arguments", "pair(a, b)",
			term.Ref("pair", term.Ref("a"), term.Ref("b"))},
		{"call on a bound name is application", "λf. f(x)",
			term.Lam("f", nil, term.App(term.Var("f"), term.Ref("x")))},
		{"second call list is application", "f(a)(b)",
			term.App(term.Ref("f", term.Ref("a")), term.Ref("b"))},
		{"plain arrow", "Nat -> Nat",
			term.Pi("_", term.Ref("Nat"), term.Ref("Nat"))},
		{"arrow is right associative", "A -> B -> C",
			term.Pi("_", term.Ref("A"), term.Pi("_", term.Ref("B"), term.Ref("C")))},
		{"dependent arrow binds its name", "(x : Nat) -> Vec(x)",
			term.Pi("x", term.Ref("Nat"), term.Ref("Vec", term.Var("x")))},
		{"dependent arrow over a bound name", "λx. (x : Nat) -> Vec(x)",
			term.Lam("x", nil, term.Pi("x", term.Ref("Nat"), term.Ref("Vec", term.Var("x"))))},
		{"ascription", "(zero : Nat)",
			term.Ascribe(term.Ref("zero"), term.Ref("Nat"))},
		{"ascription of an application", "(f a : T)",
			term.Ascribe(term.App(term.Ref("f"), term.Ref("a")), term.Ref("T"))},
		{"grouping parens vanish", "(x)", term.Ref("x")},
		{"lambda body extends right", "λx. f x",
			term.Lam("x", nil, term.App(term.Ref("f"), term.Var("x")))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTerm(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePrintRoundTrip(t *testing.T) {
	for _, src := range []string{
		"λx:Nat. x",
		"λx. (x x)",
		"Πn:Nat. Vec(n)",
		"pair(a, b)",
		"((λz. λx. (x z)) y)",
		"(zero : Nat)",
	} {
		t.Run(src, func(t *testing.T) {
			tm, err := ParseTerm(src)
			require.NoError(t, err)
			assert.Equal(t, src, tm.String())
		})
	}
}

func TestParseTermErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want string
	}{
		{"empty input", "", "expected a term, got end of input"},
		{"missing bound variable", "λ. x", "expected a bound variable"},
		{"unterminated call", "f(", "expected a term, got end of input"},
		{"missing ascription type", "(x : )", `expected a term, got ")"`},
		{"trailing tokens", "x : T", `unexpected ":" after term`},
		{"missing arrow target", "A -> ", "expected a term, got end of input"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTerm(tc.src)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := ParseFile("demo.pell", "def := x")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "demo.pell", perr.Name)
	assert.Equal(t, 1, perr.Line)
	assert.Equal(t, 4, perr.Col)
	assert.ErrorContains(t, err, "expected definition name")
}

func TestParseFile(t *testing.T) {
	src := `-- smoke file
axiom Nat : Type
axiom zero : Nat
axiom succ(n : Nat) : Nat
def id(A : Type, x : A) : A := x
def twice(f : Nat -> Nat, x : Nat) : Nat := f (f x)
theorem t(A : Type) : imp(A, A) := λa. a
eval twice(succ, zero)
equiv id(Nat, zero) == zero`

	decls, err := ParseFile("smoke.pell", src)
	require.NoError(t, err)
	require.Len(t, decls, 8)

	assert.Equal(t, &AxiomDecl{Name: "Nat", Anno: term.Ref("Type"), Line: 2}, decls[0])
	assert.Equal(t, &AxiomDecl{Name: "zero", Anno: term.Ref("Nat"), Line: 3}, decls[1])
	assert.Equal(t, &AxiomDecl{
		Name:   "succ",
		Params: []defn.Param{{Name: "n", Anno: term.Ref("Nat")}},
		Anno:   term.Ref("Nat"),
		Line:   4,
	}, decls[2])
	assert.Equal(t, &DefDecl{
		Name: "id",
		Params: []defn.Param{
			{Name: "A", Anno: term.Ref("Type")},
			{Name: "x", Anno: term.Var("A")},
		},
		Anno: term.Var("A"),
		Body: term.Var("x"),
		Line: 5,
	}, decls[3])
	assert.Equal(t, &DefDecl{
		Name: "twice",
		Params: []defn.Param{
			{Name: "f", Anno: term.Pi("_", term.Ref("Nat"), term.Ref("Nat"))},
			{Name: "x", Anno: term.Ref("Nat")},
		},
		Anno: term.Ref("Nat"),
		Body: term.App(term.Var("f"), term.App(term.Var("f"), term.Var("x"))),
		Line: 6,
	}, decls[4])
	assert.Equal(t, &TheoremDecl{
		Name:      "t",
		Params:    []defn.Param{{Name: "A", Anno: term.Ref("Type")}},
		Statement: term.Ref("imp", term.Var("A"), term.Var("A")),
		Proof:     term.Lam("a", nil, term.Var("a")),
		Line:      7,
	}, decls[5])
	assert.Equal(t, &EvalDecl{
		Term: term.Ref("twice", term.Ref("succ"), term.Ref("zero")),
		Line: 8,
	}, decls[6])
	assert.Equal(t, &EquivDecl{
		Left:  term.Ref("id", term.Ref("Nat"), term.Ref("zero")),
		Right: term.Ref("zero"),
		Line:  9,
	}, decls[7])
}

func TestParsePendingTheorem(t *testing.T) {
	decls, err := ParseFile("t.pell", "theorem open_goal : P")
	require.NoError(t, err)
	require.Len(t, decls, 1)
	thm, ok := decls[0].(*TheoremDecl)
	require.True(t, ok)
	assert.Nil(t, thm.Proof)
	assert.Equal(t, term.Ref("P"), thm.Statement)
}

func TestParseParamScopeEnds(t *testing.T) {
	decls, err := ParseFile("t.pell", "def id(x : Nat) : Nat := x\neval x")
	require.NoError(t, err)
	require.Len(t, decls, 2)
	ev, ok := decls[1].(*EvalDecl)
	require.True(t, ok)
	assert.Equal(t, term.Ref("x"), ev.Term)
}

func TestParseAxiomRejectsBody(t *testing.T) {
	_, err := ParseFile("t.pell", "axiom bad : Nat := zero")
	require.Error(t, err)
	assert.ErrorContains(t, err, "axiom cannot have a body")
}

func TestParseInput(t *testing.T) {
	t.Run("bare term becomes an eval", func(t *testing.T) {
		decls, err := ParseInput("succ(zero)")
		require.NoError(t, err)
		require.Len(t, decls, 1)
		assert.Equal(t, &EvalDecl{Term: term.Ref("succ", term.Ref("zero")), Line: 1}, decls[0])
	})

	t.Run("declarations still work", func(t *testing.T) {
		decls, err := ParseInput("def k(a, b) := a")
		require.NoError(t, err)
		require.Len(t, decls, 1)
		def, ok := decls[0].(*DefDecl)
		require.True(t, ok)
		assert.Equal(t, "k", def.Name)
		assert.Equal(t, term.Var("a"), def.Body)
	})

	t.Run("files reject bare terms", func(t *testing.T) {
		_, err := ParseFile("t.pell", "succ(zero)")
		require.Error(t, err)
		assert.ErrorContains(t, err, "expected a declaration")
	})
}
