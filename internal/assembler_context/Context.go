// Package assembler_context carries the architecture description a CLI
// command introspects before handing a source file to the encoder proper —
// the register/directive/mnemonic tables an architecture publishes through
// asm.Architecture, without duplicating any of them.
package assembler_context

import (
	"strconv"

	"github.com/keurnel/x64asm/internal/asm"
)

type AssemblerContext struct {
	// Architecture - the assembly architecture being used (e.g., 64, ...). This field allows the assembler
	// to perform architecture-specific operations, such as validating instructions, registers, addressing modes,
	// and generating machine code according to the rules of the specified architecture.
	Architecture asm.Architecture
}

// NewAssemblerContext wraps an asm.Architecture for introspection, e.g. by a
// "list" CLI command that reports the registers, directives, and mnemonics
// an architecture supports without reaching into its encoder internals.
func NewAssemblerContext(architecture asm.Architecture) AssemblerContext {
	return AssemblerContext{Architecture: architecture}
}

// SupportsMnemonic reports whether name (already lower-cased, without a size
// suffix) names an instruction the wrapped architecture recognizes.
func (c AssemblerContext) SupportsMnemonic(name string) bool {
	_, ok := c.Architecture.Instructions()[name]
	return ok
}

// Describe returns a one-line human-readable summary of the wrapped
// architecture: its name, register count, mnemonic count, and directive
// count.
func (c AssemblerContext) Describe() string {
	return c.Architecture.ArchitectureName() +
		": " + strconv.Itoa(len(c.Architecture.RegisterSet())) + " registers, " +
		strconv.Itoa(len(c.Architecture.Instructions())) + " mnemonics, " +
		strconv.Itoa(len(c.Architecture.Directives())) + " directives"
}
