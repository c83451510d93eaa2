package term

// AlphaEquivalent reports whether a and b are identical up to a consistent
// renaming of bound variables. Free variables and reference names must match
// by spelling.
func AlphaEquivalent(a, b Term) bool {
	return alphaEq(a, b, nil, nil, 0)
}

// alphaEq maps each bound name to the depth of its binder, so corresponding
// binders line up regardless of how they spell the variable.
func alphaEq(a, b Term, aBound, bBound map[string]int, depth int) bool {
	switch a := a.(type) {
	case *Variable:
		bv, ok := b.(*Variable)
		if !ok {
			return false
		}
		ai, aIsBound := aBound[a.Name]
		bi, bIsBound := bBound[bv.Name]
		if aIsBound != bIsBound {
			return false
		}
		if aIsBound {
			return ai == bi
		}
		return a.Name == bv.Name
	case *Binder:
		bb, ok := b.(*Binder)
		if !ok || a.Kind != bb.Kind {
			return false
		}
		if (a.Anno == nil) != (bb.Anno == nil) {
			return false
		}
		if a.Anno != nil && !alphaEq(a.Anno, bb.Anno, aBound, bBound, depth) {
			return false
		}
		return alphaEq(a.Body, bb.Body,
			bindAt(aBound, a.Bound, depth),
			bindAt(bBound, bb.Bound, depth),
			depth+1)
	case *Application:
		ba, ok := b.(*Application)
		return ok &&
			alphaEq(a.Fn, ba.Fn, aBound, bBound, depth) &&
			alphaEq(a.Arg, ba.Arg, aBound, bBound, depth)
	case *Reference:
		br, ok := b.(*Reference)
		if !ok || a.Name != br.Name || len(a.Args) != len(br.Args) {
			return false
		}
		for i := range a.Args {
			if !alphaEq(a.Args[i], br.Args[i], aBound, bBound, depth) {
				return false
			}
		}
		return true
	case *Ascription:
		bt, ok := b.(*Ascription)
		return ok &&
			alphaEq(a.Anno, bt.Anno, aBound, bBound, depth) &&
			alphaEq(a.Body, bt.Body, aBound, bBound, depth)
	default:
		return a == b
	}
}

// bindAt extends m with name at the given depth, copying so sibling
// branches are unaffected. Rebinding a name shadows its outer entry.
func bindAt(m map[string]int, name string, depth int) map[string]int {
	out := make(map[string]int, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[name] = depth
	return out
}
