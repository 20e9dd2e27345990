package x86_64

import (
	"github.com/keurnel/x64asm/internal/asm"
	"github.com/keurnel/x64asm/internal/ir"
)

// aluCatalog is built once; its forms are pure data (§9 Design Note: collapse
// the near-identical add/sub/cmp mem/reg variants into one parameterized
// emitter keyed by opcode pairs and an encoding shape, rather than one Go
// function per mnemonic per form).
var aluCatalog = asm.ALUCatalog()

// accumulatorNames are the four registers that get the dedicated
// "imm, AL/AX/EAX/RAX" short form instead of the general imm,r/m form — a
// named opcode variant from §4.3's table, not a length-optimization choice.
var accumulatorNames = map[string]bool{
	"%al": true, "%ax": true, "%eax": true, "%rax": true,
}

// encodeALU dispatches add/sub/cmp's reg/reg, imm/reg, imm/mem, reg/mem, and
// mem/reg forms through the shared table-driven emitter.
func encodeALU(mnemonic string, src, dst ir.Operand) ([]byte, *EncodingError) {
	instr, ok := aluCatalog[mnemonic]
	if !ok {
		return nil, newErr(UnsupportedForm, mnemonic, "not an ALU mnemonic")
	}

	switch s := src.(type) {
	case ir.Register:
		switch d := dst.(type) {
		case ir.Register:
			return aluRegReg(&instr, mnemonic, s, d)
		case ir.Memory:
			return aluRegMem(&instr, mnemonic, s, d)
		}
	case ir.Immediate:
		switch d := dst.(type) {
		case ir.Register:
			return aluImmReg(&instr, mnemonic, s, d)
		case ir.Memory:
			return aluImmMem(&instr, mnemonic, s, d)
		}
	case ir.Memory:
		if d, ok := dst.(ir.Register); ok {
			return aluMemReg(&instr, mnemonic, s, d)
		}
	}
	return nil, newErr(UnsupportedForm, mnemonic, "unsupported operand combination")
}

func aluRegReg(instr *asm.Instruction, mnemonic string, src, dst ir.Register) ([]byte, *EncodingError) {
	form, _ := instr.FormByTag(asm.TagRMReg)
	s, ok := LookupRegister(src.Name)
	if !ok {
		return nil, newErr(UnknownRegister, mnemonic, "unknown register %q", src.Name)
	}
	d, ok := LookupRegister(dst.Name)
	if !ok {
		return nil, newErr(UnknownRegister, mnemonic, "unknown register %q", dst.Name)
	}
	if s.Width != d.Width {
		return nil, newErr(WidthMismatch, mnemonic, "%s is %d-bit but %s is %d-bit", src.Name, s.Width, dst.Name, d.Width)
	}
	high := hasHighByteRegister(src.Name, dst.Name)
	w := s.Width == 64
	needRex := needsRex(w, extBit(s.Encoding), false, extBit(d.Encoding), src.Name, dst.Name)
	if high && needRex {
		return nil, newErr(InvalidHighRegisterWithRex, mnemonic, "high-byte register cannot combine with REX")
	}

	var out []byte
	if s.Width == 16 {
		out = append(out, operandSizePrefix)
	}
	if needRex && !high {
		out = append(out, rex(w, extBit(s.Encoding), false, extBit(d.Encoding)))
	}
	opcode := form.Opcode
	if s.Width == 8 {
		opcode = form.Opcode8
	}
	out = append(out, opcode, modrm(0b11, rm3(s.Encoding), rm3(d.Encoding)))
	return out, nil
}

func aluRegMem(instr *asm.Instruction, mnemonic string, src ir.Register, dst ir.Memory) ([]byte, *EncodingError) {
	form, _ := instr.FormByTag(asm.TagRMReg)
	s, ok := LookupRegister(src.Name)
	if !ok {
		return nil, newErr(UnknownRegister, mnemonic, "unknown register %q", src.Name)
	}
	width, werr := memoryWidth(mnemonic, dst, src)
	if werr != nil {
		return nil, werr
	}
	if s.Width != width {
		return nil, newErr(WidthMismatch, mnemonic, "register %s is %d-bit but memory operand is %d-bit", src.Name, s.Width, width)
	}
	high := hasHighByteRegister(src.Name)
	addr, aerr := resolveAddressing(mnemonic, dst, rm3(s.Encoding))
	if aerr != nil {
		return nil, aerr
	}
	w := s.Width == 64
	needRex := needsRex(w, extBit(s.Encoding), addr.indexExt, addr.baseExt, src.Name)
	if high && needRex {
		return nil, newErr(InvalidHighRegisterWithRex, mnemonic, "high-byte register cannot combine with REX")
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
	opcode := form.Opcode
	if s.Width == 8 {
		opcode = form.Opcode8
	}
	out = append(out, opcode)
	addr.emit(&out)
	return out, nil
}

func aluMemReg(instr *asm.Instruction, mnemonic string, src ir.Memory, dst ir.Register) ([]byte, *EncodingError) {
	form, _ := instr.FormByTag(asm.TagRegRM)
	d, ok := LookupRegister(dst.Name)
	if !ok {
		return nil, newErr(UnknownRegister, mnemonic, "unknown register %q", dst.Name)
	}
	width, werr := memoryWidth(mnemonic, src, dst)
	if werr != nil {
		return nil, werr
	}
	if d.Width != width {
		return nil, newErr(WidthMismatch, mnemonic, "register %s is %d-bit but memory operand is %d-bit", dst.Name, d.Width, width)
	}
	high := hasHighByteRegister(dst.Name)
	addr, aerr := resolveAddressing(mnemonic, src, rm3(d.Encoding))
	if aerr != nil {
		return nil, aerr
	}
	w := d.Width == 64
	needRex := needsRex(w, extBit(d.Encoding), addr.indexExt, addr.baseExt, dst.Name)
	if high && needRex {
		return nil, newErr(InvalidHighRegisterWithRex, mnemonic, "high-byte register cannot combine with REX")
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
	opcode := form.Opcode
	if d.Width == 8 {
		opcode = form.Opcode8
	}
	out = append(out, opcode)
	addr.emit(&out)
	return out, nil
}

func aluImmReg(instr *asm.Instruction, mnemonic string, src ir.Immediate, dst ir.Register) ([]byte, *EncodingError) {
	d, ok := LookupRegister(dst.Name)
	if !ok {
		return nil, newErr(UnknownRegister, mnemonic, "unknown register %q", dst.Name)
	}

	if accumulatorNames[dst.Name] {
		form, _ := instr.FormByTag(asm.TagImmShort)
		var out []byte
		w := d.Width == 64
		if d.Width == 16 {
			out = append(out, operandSizePrefix)
		}
		if w {
			out = append(out, rex(true, false, false, false))
		}
		switch d.Width {
		case 8:
			out = append(out, form.Opcode8, byte(int8(src.Value)))
		case 16:
			out = append(out, form.Opcode)
			out = append(out, le16(uint16(int16(src.Value)))...)
		default:
			out = append(out, form.Opcode)
			out = append(out, le32(uint32(int32(src.Value)))...)
		}
		return out, nil
	}

	form, _ := instr.FormByTag(asm.TagImmRM)
	w := d.Width == 64
	needRex := needsRex(w, false, false, extBit(d.Encoding), dst.Name)
	var out []byte
	if d.Width == 16 {
		out = append(out, operandSizePrefix)
	}
	if needRex {
		out = append(out, rex(w, false, false, extBit(d.Encoding)))
	}
	switch d.Width {
	case 8:
		out = append(out, form.Opcode8, modrm(0b11, byte(form.Digit), rm3(d.Encoding)), byte(int8(src.Value)))
	case 16:
		out = append(out, form.Opcode, modrm(0b11, byte(form.Digit), rm3(d.Encoding)))
		out = append(out, le16(uint16(int16(src.Value)))...)
	default:
		out = append(out, form.Opcode, modrm(0b11, byte(form.Digit), rm3(d.Encoding)))
		out = append(out, le32(uint32(int32(src.Value)))...)
	}
	return out, nil
}

func aluImmMem(instr *asm.Instruction, mnemonic string, src ir.Immediate, dst ir.Memory) ([]byte, *EncodingError) {
	width, werr := memoryWidth(mnemonic, dst, src)
	if werr != nil {
		return nil, werr
	}
	form, _ := instr.FormByTag(asm.TagImmRM)
	addr, aerr := resolveAddressing(mnemonic, dst, byte(form.Digit))
	if aerr != nil {
		return nil, aerr
	}
	w := width == 64
	needRex := needsRex(w, false, addr.indexExt, addr.baseExt)

	var out []byte
	if addr.addrSize32 {
		out = append(out, addressSizePrefix)
	}
	if width == 16 {
		out = append(out, operandSizePrefix)
	}
	if needRex {
		out = append(out, rex(w, false, addr.indexExt, addr.baseExt))
	}
	opcode := form.Opcode
	if width == 8 {
		opcode = form.Opcode8
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
