package defn

import (
	"fmt"

	"github.com/pell-lang/pell/pkg/term"
)

// SpecialBuilder provides a fluent API for declaring host-implemented
// definitions.
type SpecialBuilder struct {
	def Definition
}

// NewSpecial creates a builder for a host-implemented definition.
func NewSpecial(name string) *SpecialBuilder {
	return &SpecialBuilder{
		def: Definition{
			Name: name,
			Kind: Special,
		},
	}
}

// Doc sets the documentation string.
func (b *SpecialBuilder) Doc(doc string) *SpecialBuilder {
	b.def.Doc = doc
	return b
}

// Param appends a parameter. anno may be nil.
func (b *SpecialBuilder) Param(name string, anno term.Term) *SpecialBuilder {
	b.def.Params = append(b.def.Params, Param{Name: name, Anno: anno})
	return b
}

// Returns sets the declared result type.
func (b *SpecialBuilder) Returns(anno term.Term) *SpecialBuilder {
	b.def.Anno = anno
	return b
}

// Impl attaches the host implementation and finishes the definition.
func (b *SpecialBuilder) Impl(fn SpecialFn) *Definition {
	if fn == nil {
		panic(fmt.Sprintf("special %s: nil implementation", b.def.Name))
	}
	b.def.Fn = fn
	def := b.def
	return &def
}
