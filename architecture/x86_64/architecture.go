package x86_64

import (
	"strings"

	"github.com/keurnel/x64asm/internal/asm"
)

// Architecture implements asm.Architecture for x86-64, backed by the same
// register catalog, directive set, and mnemonic tables the encoder itself
// uses. It lets an assembler_context.AssemblerContext describe "x86_64"
// without duplicating any of the tables above.
type Architecture struct{}

// NewArchitecture returns the x86-64 asm.Architecture implementation.
func NewArchitecture() asm.Architecture {
	return Architecture{}
}

func (Architecture) ArchitectureName() string { return "x86_64" }

func (Architecture) Directives() []string {
	names := make([]string, 0, len(knownDirectives))
	for name := range knownDirectives {
		names = append(names, "."+name)
	}
	return names
}

func (Architecture) IsDirective(line string) bool {
	name := trimDirectivePrefix(line)
	return knownDirectives[name]
}

// Instructions returns the table-driven ALU mnemonics (add/sub/cmp) plus a
// dedicated placeholder entry for every other known mnemonic (mov and the
// control-flow/condition-code set), whose real encoding lives in
// architecture/x86_64's per-mnemonic encoders rather than the declarative
// asm.Instruction shape ALUCatalog uses.
func (Architecture) Instructions() map[string]asm.Instruction {
	instructions := aluCatalog
	out := make(map[string]asm.Instruction, len(instructions)+len(knownMnemonics))
	for name, instr := range instructions {
		out[name] = instr
	}
	for name := range knownMnemonics {
		if _, ok := out[name]; !ok {
			out[name] = asm.Instruction{Mnemonic: name}
		}
	}
	return out
}

func (a Architecture) IsInstruction(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	_, ok := a.Instructions()[canonicalizeMnemonic(fields[0])]
	return ok
}

func (Architecture) RegisterSet() []string {
	names := make([]string, 0, len(registerCatalog))
	for name := range registerCatalog {
		names = append(names, name)
	}
	return names
}

func (Architecture) IsRegister(name string) bool {
	_, ok := LookupRegister(name)
	return ok
}

// OperandTypes returns the four ModR/M-shape tags the ALU catalog keys its
// forms by; mov and the control-flow encoders route on Go type switches
// instead of this table.
func (Architecture) OperandTypes() []asm.OperandType {
	return []asm.OperandType{
		{Identifier: asm.TagRMReg, Type: "register-or-memory"},
		{Identifier: asm.TagRegRM, Type: "register"},
		{Identifier: asm.TagImmRM, Type: "immediate"},
		{Identifier: asm.TagImmShort, Type: "immediate"},
	}
}

// OperandCounts returns the valid operand-count set: 0 (syscall), 1 (jmp,
// jcc, int), and 2 (mov, add, sub, cmp).
func (Architecture) OperandCounts() []int { return []int{0, 1, 2} }

func (a Architecture) IsValidOperandCount(count int) bool {
	for _, n := range a.OperandCounts() {
		if n == count {
			return true
		}
	}
	return false
}

// SourceOperandSupportsDestination reports whether sourceType may pair with
// destType in one instruction. Every tagged ALU form is reg/mem-only on one
// side and reg/immediate on the other, so any two distinct tags, or either
// paired with itself, are accepted here — the real width/kind compatibility
// check happens in the per-mnemonic encoder, which has the concrete operand
// values this interface-level check does not.
func (Architecture) SourceOperandSupportsDestination(sourceType, destType asm.OperandType) bool {
	return sourceType.Identifier != "" && destType.Identifier != ""
}

// Is8BitInstruction reports whether instr has an 8-bit-operand form at all
// (every ALU catalog entry does, via Opcode8).
func (Architecture) Is8BitInstruction(instr asm.Instruction) bool {
	for _, form := range instr.Forms {
		if form.Opcode8 != 0 {
			return true
		}
	}
	return false
}

func trimDirectivePrefix(line string) string {
	first := strings.Fields(line)
	if len(first) == 0 {
		return ""
	}
	name := first[0]
	if len(name) > 0 && name[0] == '.' {
		return name[1:]
	}
	return name
}
