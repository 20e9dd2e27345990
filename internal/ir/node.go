// Package ir defines the program representation the encoder consumes: an
// ordered sequence of nodes produced by a parser. The lexer/parser that
// builds a Program is an external collaborator — this package only defines
// the shape of their output.
package ir

// Node is a sum type representing one top-level construct in an assembly
// program. Node order defines emission order. The marker method nodeType()
// prevents unrelated types from satisfying the interface.
type Node interface {
	nodeType()
}

// Program is the root value the encoder operates on: an ordered sequence of
// Nodes. Node order defines emission order (§3 of the assembler design).
type Program struct {
	Nodes []Node
}

// Label is a Node marking a named position in the program. Its address is
// resolved by the layout engine's first pass and recorded in a LabelTable —
// the Label node itself carries no address.
type Label struct {
	Name string
}

func (*Label) nodeType() {}

// Directive is a Node carrying a directive name and its ordered argument
// strings, exactly as they appeared in source. Unknown directive names are
// skipped with zero size by the layout engine.
type Directive struct {
	Name string
	Args []string
}

func (*Directive) nodeType() {}

// Instruction is a Node carrying a mnemonic and zero to two operands. The
// mnemonic may still carry an AT&T size suffix (b/w/l/q); canonicalization
// happens in the dispatcher, not here.
type Instruction struct {
	Mnemonic string
	Operands []Operand
}

func (*Instruction) nodeType() {}
