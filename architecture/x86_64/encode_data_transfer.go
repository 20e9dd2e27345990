package x86_64

import "github.com/keurnel/x64asm/internal/ir"

// encodeMov dispatches mov's five supported operand-kind combinations.
// AT&T order puts the source first; callers already receive src, dst in
// that order per the dispatcher's re-ordering contract.
func encodeMov(ctx *assemblyContext, src, dst ir.Operand) ([]byte, *EncodingError) {
	switch s := src.(type) {
	case ir.Register:
		switch d := dst.(type) {
		case ir.Register:
			return movRegReg(s, d)
		case ir.Memory:
			return movRegMem(s, d)
		}
	case ir.Immediate:
		switch d := dst.(type) {
		case ir.Register:
			return movImmReg(s, d)
		case ir.Memory:
			return movImmMem(s, d)
		}
	case ir.Memory:
		if d, ok := dst.(ir.Register); ok {
			return movMemReg(s, d)
		}
	case ir.LabelRef:
		if d, ok := dst.(ir.Register); ok {
			return movLabelRefReg(ctx, s, d)
		}
	}
	return nil, newErr(UnsupportedForm, "mov", "unsupported operand combination")
}

func movRegReg(src, dst ir.Register) ([]byte, *EncodingError) {
	s, ok := LookupRegister(src.Name)
	if !ok {
		return nil, newErr(UnknownRegister, "mov", "unknown register %q", src.Name)
	}
	d, ok := LookupRegister(dst.Name)
	if !ok {
		return nil, newErr(UnknownRegister, "mov", "unknown register %q", dst.Name)
	}
	if s.Width != d.Width {
		return nil, newErr(WidthMismatch, "mov", "%s is %d-bit but %s is %d-bit", src.Name, s.Width, dst.Name, d.Width)
	}
	high := hasHighByteRegister(src.Name, dst.Name)
	w := s.Width == 64
	needRex := needsRex(w, extBit(s.Encoding), false, extBit(d.Encoding), src.Name, dst.Name)
	if high && needRex {
		return nil, newErr(InvalidHighRegisterWithRex, "mov", "high-byte register %s/%s cannot combine with REX", src.Name, dst.Name)
	}

	var out []byte
	if s.Width == 16 {
		out = append(out, operandSizePrefix)
	}
	if needRex && !high {
		out = append(out, rex(w, extBit(s.Encoding), false, extBit(d.Encoding)))
	}
	opcode := byte(0x89)
	if s.Width == 8 {
		opcode = 0x88
	}
	out = append(out, opcode, modrm(0b11, rm3(s.Encoding), rm3(d.Encoding)))
	return out, nil
}

// movImmReg always prefers the C7 /0 r/m-immediate form (C6/0 for 8-bit),
// matching the worked example in the testable-property scenarios; the B8+r
// full-width immediate form is used only as a fallback when a 64-bit
// destination's value does not fit in a sign-extended 32-bit immediate.
func movImmReg(src ir.Immediate, dst ir.Register) ([]byte, *EncodingError) {
	d, ok := LookupRegister(dst.Name)
	if !ok {
		return nil, newErr(UnknownRegister, "mov", "unknown register %q", dst.Name)
	}

	if d.Width == 64 && !fitsInt32(src.Value) {
		return movImm64Reg(d, src.Value), nil
	}

	var out []byte
	w := d.Width == 64
	needRex := needsRex(w, false, false, extBit(d.Encoding), dst.Name)
	if d.Width == 16 {
		out = append(out, operandSizePrefix)
	}
	if needRex {
		out = append(out, rex(w, false, false, extBit(d.Encoding)))
	}
	switch d.Width {
	case 8:
		out = append(out, 0xC6, modrm(0b11, 0, rm3(d.Encoding)), byte(int8(src.Value)))
	case 16:
		out = append(out, 0xC7, modrm(0b11, 0, rm3(d.Encoding)))
		out = append(out, le16(uint16(int16(src.Value)))...)
	default: // 32, 64
		out = append(out, 0xC7, modrm(0b11, 0, rm3(d.Encoding)))
		out = append(out, le32(uint32(int32(src.Value)))...)
	}
	return out, nil
}

func movImm64Reg(d Register, value int64) []byte {
	var out []byte
	out = append(out, rex(true, false, false, extBit(d.Encoding)))
	out = append(out, 0xB8+rm3(d.Encoding))
	out = append(out, le64(uint64(value))...)
	return out
}

func movImmMem(src ir.Immediate, dst ir.Memory) ([]byte, *EncodingError) {
	width, err := memoryWidth("mov", dst, src)
	if err != nil {
		return nil, err
	}
	regField := byte(0)
	addr, aerr := resolveAddressing("mov", dst, regField)
	if aerr != nil {
		return nil, aerr
	}

	var out []byte
	if addr.addrSize32 {
		out = append(out, addressSizePrefix)
	}
	if width == 16 {
		out = append(out, operandSizePrefix)
	}
	w := width == 64
	needRex := needsRex(w, false, addr.indexExt, addr.baseExt)
	if needRex {
		out = append(out, rex(w, false, addr.indexExt, addr.baseExt))
	}
	opcode := byte(0xC7)
	if width == 8 {
		opcode = 0xC6
	}
	out = append(out, opcode)
	addr.emit(&out)
	switch width {
	case 8:
		out = append(out, byte(int8(src.Value)))
	case 16:
		out = append(out, le16(uint16(int16(src.Value)))...)
	default:
		out = append(out, le32(uint32(int32(src.Value)))...)
	}
	return out, nil
}

func movRegMem(src ir.Register, dst ir.Memory) ([]byte, *EncodingError) {
	s, ok := LookupRegister(src.Name)
	if !ok {
		return nil, newErr(UnknownRegister, "mov", "unknown register %q", src.Name)
	}
	width, werr := memoryWidth("mov", dst, src)
	if werr != nil {
		return nil, werr
	}
	if s.Width != width {
		return nil, newErr(WidthMismatch, "mov", "register %s is %d-bit but memory operand is %d-bit", src.Name, s.Width, width)
	}
	high := hasHighByteRegister(src.Name)
	addr, aerr := resolveAddressing("mov", dst, rm3(s.Encoding))
	if aerr != nil {
		return nil, aerr
	}
	w := s.Width == 64
	needRex := needsRex(w, extBit(s.Encoding), addr.indexExt, addr.baseExt, src.Name)
	if high && needRex {
		return nil, newErr(InvalidHighRegisterWithRex, "mov", "high-byte register %s cannot combine with REX", src.Name)
	}

	var out []byte
	if addr.addrSize32 {
		out = append(out, addressSizePrefix)
	}
	if s.Width == 16 {
		out = append(out, operandSizePrefix)
	}
	if needRex && !high {
		out = append(out, rex(w, extBit(s.Encoding), addr.indexExt, addr.baseExt))
	}
	opcode := byte(0x89)
	if s.Width == 8 {
		opcode = 0x88
	}
	out = append(out, opcode)
	addr.emit(&out)
	return out, nil
}

func movMemReg(src ir.Memory, dst ir.Register) ([]byte, *EncodingError) {
	d, ok := LookupRegister(dst.Name)
	if !ok {
		return nil, newErr(UnknownRegister, "mov", "unknown register %q", dst.Name)
	}
	width, werr := memoryWidth("mov", src, dst)
	if werr != nil {
		return nil, werr
	}
	if d.Width != width {
		return nil, newErr(WidthMismatch, "mov", "register %s is %d-bit but memory operand is %d-bit", dst.Name, d.Width, width)
	}
	high := hasHighByteRegister(dst.Name)
	addr, aerr := resolveAddressing("mov", src, rm3(d.Encoding))
	if aerr != nil {
		return nil, aerr
	}
	w := d.Width == 64
	needRex := needsRex(w, extBit(d.Encoding), addr.indexExt, addr.baseExt, dst.Name)
	if high && needRex {
		return nil, newErr(InvalidHighRegisterWithRex, "mov", "high-byte register %s cannot combine with REX", dst.Name)
	}

	var out []byte
	if addr.addrSize32 {
		out = append(out, addressSizePrefix)
	}
	if d.Width == 16 {
		out = append(out, operandSizePrefix)
	}
	if needRex && !high {
		out = append(out, rex(w, extBit(d.Encoding), addr.indexExt, addr.baseExt))
	}
	opcode := byte(0x8B)
	if d.Width == 8 {
		opcode = 0x8A
	}
	out = append(out, opcode)
	addr.emit(&out)
	return out, nil
}

// movLabelRefReg always uses the C7 /0 r/m-immediate form with a 32-bit
// operand: in binary mode the label's resolved address is written directly;
// in ELF mode a zero placeholder is written and a relocation recorded.
func movLabelRefReg(ctx *assemblyContext, src ir.LabelRef, dst ir.Register) ([]byte, *EncodingError) {
	d, ok := LookupRegister(dst.Name)
	if !ok {
		return nil, newErr(UnknownRegister, "mov", "unknown register %q", dst.Name)
	}

	var out []byte
	w := d.Width == 64
	needRex := needsRex(w, false, false, extBit(d.Encoding), dst.Name)
	if needRex {
		out = append(out, rex(w, false, false, extBit(d.Encoding)))
	}
	out = append(out, 0xC7, modrm(0b11, 0, rm3(d.Encoding)))
	immOffset := len(out)

	if ctx.pass != passEmission {
		out = append(out, 0, 0, 0, 0)
		return out, nil
	}

	idx, found := ctx.findLabel(src.Name)
	if !found {
		return nil, newErr(UnresolvedLabel, "mov", "undefined label %q", src.Name)
	}
	if ctx.elf {
		out = append(out, 0, 0, 0, 0)
		ctx.recordReloc(idx, ctx.here()+uint32(immOffset), RelocAbs32InCode)
	} else {
		out = append(out, le32(ctx.labels[idx].Address)...)
	}
	return out, nil
}

func fitsInt32(v int64) bool {
	return v >= -2147483648 && v <= 2147483647
}
