package term

// NameSet represents a set of variable names.
type NameSet map[string]bool

// NewNameSet creates a NameSet holding the given names.
func NewNameSet(names ...string) NameSet {
	set := make(NameSet)
	for _, name := range names {
		set[name] = true
	}
	return set
}

// Contains checks if a name is in the set.
func (s NameSet) Contains(name string) bool {
	return s[name]
}

// Add adds a name to the set.
func (s NameSet) Add(name string) {
	s[name] = true
}

// Union returns the union of two NameSets.
func (s NameSet) Union(other NameSet) NameSet {
	result := make(NameSet)
	for name := range s {
		result[name] = true
	}
	for name := range other {
		result[name] = true
	}
	return result
}

// FreeVars collects the free variable names of t. Reference names denote
// definitions rather than variables, so they never appear in the result;
// reference arguments are still walked.
func FreeVars(t Term) NameSet {
	free := make(NameSet)
	collectFree(t, make(NameSet), free)
	return free
}

func collectFree(t Term, bound, free NameSet) {
	switch t := t.(type) {
	case *Variable:
		if !bound.Contains(t.Name) {
			free.Add(t.Name)
		}
	case *Binder:
		if t.Anno != nil {
			collectFree(t.Anno, bound, free)
		}
		collectFree(t.Body, bound.Union(NewNameSet(t.Bound)), free)
	case *Application:
		collectFree(t.Fn, bound, free)
		collectFree(t.Arg, bound, free)
	case *Reference:
		for _, arg := range t.Args {
			collectFree(arg, bound, free)
		}
	case *Ascription:
		collectFree(t.Anno, bound, free)
		collectFree(t.Body, bound, free)
	}
}

// FreshName appends primes to base until the result avoids every name in
// avoid.
func FreshName(base string, avoid NameSet) string {
	name := base
	for avoid.Contains(name) {
		name += "'"
	}
	return name
}

// Subst replaces free occurrences of name in t with repl, renaming binders
// as needed so that free variables of repl are never captured.
func Subst(t Term, name string, repl Term) Term {
	return SubstAll(t, map[string]Term{name: repl})
}

// SubstAll applies a simultaneous substitution: every free occurrence of a
// mapped name is replaced by its image in one pass, so images are never
// themselves substituted into. Subterms the substitution does not touch are
// returned as-is rather than rebuilt.
func SubstAll(t Term, sub map[string]Term) Term {
	if len(sub) == 0 {
		return t
	}
	switch t := t.(type) {
	case *Variable:
		if repl, ok := sub[t.Name]; ok {
			return repl
		}
		return t
	case *Binder:
		return substBinder(t, sub)
	case *Application:
		fn := SubstAll(t.Fn, sub)
		arg := SubstAll(t.Arg, sub)
		if fn == t.Fn && arg == t.Arg {
			return t
		}
		return &Application{Fn: fn, Arg: arg}
	case *Reference:
		args, changed := substList(t.Args, sub)
		if !changed {
			return t
		}
		return &Reference{Name: t.Name, Args: args}
	case *Ascription:
		anno := SubstAll(t.Anno, sub)
		body := SubstAll(t.Body, sub)
		if anno == t.Anno && body == t.Body {
			return t
		}
		return &Ascription{Anno: anno, Body: body}
	default:
		return t
	}
}

func substList(ts []Term, sub map[string]Term) ([]Term, bool) {
	var out []Term
	for i, t := range ts {
		st := SubstAll(t, sub)
		if out == nil && st != t {
			out = make([]Term, i, len(ts))
			copy(out, ts[:i])
		}
		if out != nil {
			out = append(out, st)
		}
	}
	if out == nil {
		return ts, false
	}
	return out, true
}

// substBinder drops the mapping shadowed by the bound variable, then renames
// the bound variable when it would capture a free variable of an incoming
// replacement.
func substBinder(b *Binder, sub map[string]Term) Term {
	var anno Term
	if b.Anno != nil {
		anno = SubstAll(b.Anno, sub)
	}

	// Keep only mappings that can actually fire inside the body.
	bodyFree := FreeVars(b.Body)
	inner := make(map[string]Term, len(sub))
	for name, repl := range sub {
		if name != b.Bound && bodyFree.Contains(name) {
			inner[name] = repl
		}
	}
	if len(inner) == 0 {
		if anno == b.Anno {
			return b
		}
		return &Binder{Kind: b.Kind, Bound: b.Bound, Anno: anno, Body: b.Body}
	}

	bound, body := b.Bound, b.Body
	avoid := bodyFree
	capture := false
	for _, repl := range inner {
		replFree := FreeVars(repl)
		if replFree.Contains(bound) {
			capture = true
		}
		avoid = avoid.Union(replFree)
	}
	if capture {
		// The fresh name cannot collide with a mapped name: inner only
		// holds names free in the body, all of which are in avoid.
		fresh := FreshName(bound, avoid)
		body = Subst(body, bound, Var(fresh))
		bound = fresh
	}
	return &Binder{Kind: b.Kind, Bound: bound, Anno: anno, Body: SubstAll(body, inner)}
}
