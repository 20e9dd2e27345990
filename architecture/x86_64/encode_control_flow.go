package x86_64

import "github.com/keurnel/x64asm/internal/ir"

// conditionCodes maps every conditional-jump mnemonic (and its AT&T
// synonyms) to the tttn nibble used in the two-byte 0F 8x opcode.
var conditionCodes = map[string]byte{
	"jo": 0x0,
	"jno": 0x1,
	"jb": 0x2, "jc": 0x2, "jnae": 0x2,
	"jae": 0x3, "jnb": 0x3, "jnc": 0x3,
	"je": 0x4, "jz": 0x4,
	"jne": 0x5, "jnz": 0x5,
	"jbe": 0x6, "jna": 0x6,
	"ja": 0x7, "jnbe": 0x7,
	"js": 0x8,
	"jns": 0x9,
	"jp": 0xA, "jpe": 0xA,
	"jnp": 0xB, "jpo": 0xB,
	"jl": 0xC, "jnge": 0xC,
	"jge": 0xD, "jnl": 0xD,
	"jle": 0xE, "jng": 0xE,
	"jg": 0xF, "jnle": 0xF,
}

// encodeJmp encodes unconditional jmp to a LabelRef (rel32, 5 bytes) or to a
// register/memory target (FF /4 absolute indirect).
func encodeJmp(ctx *assemblyContext, operands []ir.Operand) ([]byte, *EncodingError) {
	if len(operands) != 1 {
		return nil, newErr(UnsupportedForm, "jmp", "expected exactly one operand")
	}
	switch op := operands[0].(type) {
	case ir.LabelRef:
		return encodeRelativeJump(ctx, "jmp", op, []byte{0xE9}, 5)
	case ir.Register:
		return encodeIndirectJump("jmp", op)
	case ir.Memory:
		return encodeIndirectJumpMem("jmp", op)
	}
	return nil, newErr(UnsupportedForm, "jmp", "unsupported operand kind")
}

// encodeConditionalJump encodes the 0F 8x rel32 form (6 bytes) for a
// conditional-jump mnemonic against a LabelRef target. Register/memory
// targets are not a supported form for conditional jumps.
func encodeConditionalJump(ctx *assemblyContext, mnemonic string, operands []ir.Operand) ([]byte, *EncodingError) {
	tttn, ok := conditionCodes[mnemonic]
	if !ok {
		return nil, newErr(UnsupportedForm, mnemonic, "not a recognized conditional jump")
	}
	if len(operands) != 1 {
		return nil, newErr(UnsupportedForm, mnemonic, "expected exactly one operand")
	}
	ref, ok := operands[0].(ir.LabelRef)
	if !ok {
		return nil, newErr(UnsupportedForm, mnemonic, "conditional jumps require a label target")
	}
	return encodeRelativeJump(ctx, mnemonic, ref, []byte{0x0F, 0x80 + tttn}, 6)
}

// encodeRelativeJump emits opcode followed by a 4-byte little-endian
// displacement. The instruction's total length (insnLen) is fixed
// regardless of pass, satisfying the two-pass sizing contract. In pass 2,
// the displacement is target_addr − (here + insnLen).
func encodeRelativeJump(ctx *assemblyContext, mnemonic string, ref ir.LabelRef, opcode []byte, insnLen int) ([]byte, *EncodingError) {
	out := append([]byte{}, opcode...)
	if ctx.pass != passEmission {
		out = append(out, 0, 0, 0, 0)
		return out, nil
	}
	idx, found := ctx.findLabel(ref.Name)
	if !found {
		return nil, newErr(UnresolvedLabel, mnemonic, "undefined label %q", ref.Name)
	}
	disp := int32(ctx.labels[idx].Address) - int32(ctx.here()+uint32(insnLen))
	out = append(out, le32(uint32(disp))...)
	return out, nil
}

func encodeIndirectJump(mnemonic string, reg ir.Register) ([]byte, *EncodingError) {
	r, ok := LookupRegister(reg.Name)
	if !ok {
		return nil, newErr(UnknownRegister, mnemonic, "unknown register %q", reg.Name)
	}
	if r.Width != 64 {
		return nil, newErr(WidthMismatch, mnemonic, "indirect jump target must be 64-bit, got %s", reg.Name)
	}
	var out []byte
	if extBit(r.Encoding) {
		out = append(out, rex(false, false, false, true))
	}
	out = append(out, 0xFF, modrm(0b11, 4, rm3(r.Encoding)))
	return out, nil
}

func encodeIndirectJumpMem(mnemonic string, mem ir.Memory) ([]byte, *EncodingError) {
	addr, aerr := resolveAddressing(mnemonic, mem, 4)
	if aerr != nil {
		return nil, aerr
	}
	var out []byte
	if addr.addrSize32 {
		out = append(out, addressSizePrefix)
	}
	if addr.indexExt || addr.baseExt {
		out = append(out, rex(false, false, addr.indexExt, addr.baseExt))
	}
	out = append(out, 0xFF)
	addr.emit(&out)
	return out, nil
}

// encodeInt encodes the int interrupt instruction: int $3 and int $1 get
// one-byte dedicated opcodes, every other immediate uses the general
// CD imm8 form.
func encodeInt(operands []ir.Operand) ([]byte, *EncodingError) {
	if len(operands) != 1 {
		return nil, newErr(UnsupportedForm, "int", "expected exactly one operand")
	}
	imm, ok := operands[0].(ir.Immediate)
	if !ok {
		return nil, newErr(UnsupportedForm, "int", "operand must be an immediate")
	}
	switch imm.Value {
	case 3:
		return []byte{0xCC}, nil
	case 1:
		return []byte{0xF1}, nil
	default:
		return []byte{0xCD, byte(int8(imm.Value))}, nil
	}
}

// encodeSyscall encodes the zero-operand syscall instruction.
func encodeSyscall(operands []ir.Operand) ([]byte, *EncodingError) {
	if len(operands) != 0 {
		return nil, newErr(UnsupportedForm, "syscall", "syscall takes no operands")
	}
	return []byte{0x0F, 0x05}, nil
}
