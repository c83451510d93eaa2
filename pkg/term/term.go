package term

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Term is a node of the calculus. Every term is one of five shapes:
// Variable, Binder, Application, Reference or Ascription. Engines walk
// these shapes explicitly and pass anything they do not recognize through
// unchanged.
type Term interface {
	fmt.Stringer
	isTerm()
}

// BindKind distinguishes the binding forms. Only lambda abstractions head
// beta redexes; pi binders introduce a variable without being callable.
type BindKind int

const (
	BindLambda BindKind = iota
	BindPi
)

func (k BindKind) String() string {
	switch k {
	case BindLambda:
		return "λ"
	case BindPi:
		return "Π"
	default:
		return fmt.Sprintf("BindKind(%d)", int(k))
	}
}

// Variable is an occurrence of a lexically bound name.
type Variable struct {
	Name string
}

// Binder abstracts a variable over a body. Anno is the declared type of the
// bound variable and is nil when the surface syntax omitted it.
type Binder struct {
	Kind  BindKind
	Bound string
	Anno  Term
	Body  Term
}

// Application applies a function term to a single argument term.
type Application struct {
	Fn  Term
	Arg Term
}

// Reference names a definition in the environment, optionally applied to
// arguments. A reference whose name the environment does not know is left
// alone by every engine.
type Reference struct {
	Name string
	Args []Term
}

// Ascription pairs a term with its declared type, written (Body : Anno).
type Ascription struct {
	Anno Term
	Body Term
}

func (*Variable) isTerm()    {}
func (*Binder) isTerm()      {}
func (*Application) isTerm() {}
func (*Reference) isTerm()   {}
func (*Ascription) isTerm()  {}

// Var constructs a variable occurrence.
func Var(name string) *Variable {
	return &Variable{Name: name}
}

// Lam constructs a lambda abstraction. anno may be nil.
func Lam(bound string, anno, body Term) *Binder {
	return &Binder{Kind: BindLambda, Bound: bound, Anno: anno, Body: body}
}

// Pi constructs a dependent function type. anno may be nil.
func Pi(bound string, anno, body Term) *Binder {
	return &Binder{Kind: BindPi, Bound: bound, Anno: anno, Body: body}
}

// App applies fn to the given arguments in turn, left associated.
func App(fn Term, args ...Term) Term {
	out := fn
	for _, arg := range args {
		out = &Application{Fn: out, Arg: arg}
	}
	return out
}

// Ref constructs a reference to a definition.
func Ref(name string, args ...Term) *Reference {
	return &Reference{Name: name, Args: args}
}

// Ascribe attaches a declared type to a term.
func Ascribe(body, anno Term) *Ascription {
	return &Ascription{Anno: anno, Body: body}
}

// IsBinder reports whether t is a binding form of any kind.
func IsBinder(t Term) bool {
	_, ok := t.(*Binder)
	return ok
}

// IsLambda reports whether t is a lambda binder, the only shape that can
// head a beta redex.
func IsLambda(t Term) bool {
	b, ok := t.(*Binder)
	return ok && b.Kind == BindLambda
}

// IsApplication reports whether t applies a function to one argument.
func IsApplication(t Term) bool {
	_, ok := t.(*Application)
	return ok
}

// IsReference reports whether t names a definition.
func IsReference(t Term) bool {
	_, ok := t.(*Reference)
	return ok
}

// IsAscription reports whether t pairs a term with a declared type.
func IsAscription(t Term) bool {
	_, ok := t.(*Ascription)
	return ok
}

func (v *Variable) String() string {
	return v.Name
}

func (b *Binder) String() string {
	if b.Anno == nil {
		return fmt.Sprintf("%s%s. %s", b.Kind, b.Bound, b.Body)
	}
	return fmt.Sprintf("%s%s:%s. %s", b.Kind, b.Bound, b.Anno, b.Body)
}

func (a *Application) String() string {
	return fmt.Sprintf("(%s %s)", a.Fn, a.Arg)
}

func (r *Reference) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	args := lo.Map(r.Args, func(arg Term, _ int) string {
		return arg.String()
	})
	return fmt.Sprintf("%s(%s)", r.Name, strings.Join(args, ", "))
}

func (a *Ascription) String() string {
	return fmt.Sprintf("(%s : %s)", a.Body, a.Anno)
}
