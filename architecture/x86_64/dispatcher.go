package x86_64

import "github.com/keurnel/x64asm/internal/ir"

// knownMnemonics backs the suffix-stripping rule: a trailing b/w/l/q is
// stripped only when what remains is itself a recognized mnemonic. This
// subsumes the original's sub/syscall safelist without an explicit
// exemption list (§9 open question).
var knownMnemonics = buildKnownMnemonics()

func buildKnownMnemonics() map[string]bool {
	m := map[string]bool{
		"mov": true, "add": true, "sub": true, "cmp": true,
		"jmp": true, "int": true, "syscall": true,
	}
	for name := range conditionCodes {
		m[name] = true
	}
	return m
}

// canonicalizeMnemonic strips a trailing AT&T size suffix (b/w/l/q) only
// when the remainder is itself a known mnemonic, so "sub" is never
// misread as "su" with a "b" suffix and "movl"/"cmpq" still canonicalize.
func canonicalizeMnemonic(m string) string {
	if len(m) <= 1 {
		return m
	}
	switch m[len(m)-1] {
	case 'b', 'w', 'l', 'q':
		stripped := m[:len(m)-1]
		if knownMnemonics[stripped] {
			return stripped
		}
	}
	return m
}

// dispatch canonicalizes node's mnemonic and routes to the matching
// per-mnemonic encoder, observing AT&T operand order (operand[0] is source,
// operand[1] is destination).
func dispatch(ctx *assemblyContext, node *ir.Instruction) ([]byte, *EncodingError) {
	mnemonic := canonicalizeMnemonic(node.Mnemonic)

	switch mnemonic {
	case "mov":
		if len(node.Operands) != 2 {
			return nil, newErr(UnsupportedForm, mnemonic, "expected 2 operands, got %d", len(node.Operands))
		}
		return encodeMov(ctx, node.Operands[0], node.Operands[1])
	case "add", "sub", "cmp":
		if len(node.Operands) != 2 {
			return nil, newErr(UnsupportedForm, mnemonic, "expected 2 operands, got %d", len(node.Operands))
		}
		return encodeALU(mnemonic, node.Operands[0], node.Operands[1])
	case "jmp":
		return encodeJmp(ctx, node.Operands)
	case "int":
		return encodeInt(node.Operands)
	case "syscall":
		return encodeSyscall(node.Operands)
	default:
		if _, ok := conditionCodes[mnemonic]; ok {
			return encodeConditionalJump(ctx, mnemonic, node.Operands)
		}
		return nil, newErr(UnsupportedForm, mnemonic, "unrecognized mnemonic")
	}
}
