package x86_64

import "github.com/keurnel/x64asm/internal/ir"

// addressing is the fully-resolved ModR/M+SIB+displacement shape of a
// Memory operand combined with a ModR/M reg field (a register number for
// reg-mem forms, or a /digit extension opcode for imm-mem forms).
type addressing struct {
	modrm      byte
	sib        []byte // 0 or 1 byte
	disp       []byte // 0, 1, or 4 bytes, little-endian
	addrSize32 bool   // emit 0x67 before the instruction
	baseExt    bool   // REX.B must be set
	indexExt   bool   // REX.X must be set
}

// resolveAddressing computes the ModR/M/SIB/displacement encoding of mem
// with the given ModR/M reg field. It implements the SIB-required rule for
// %rsp/%r12-family bases and the RIP-sensitive-base rule for %rbp/%r13-
// family bases (§4.2), and emits displacement bytes per the corrected mod
// selection (§9 open questions): 0 bytes at mod=00, 1 at mod=01 (including
// the forced %rbp/%r13 zero-displacement case), 4 at mod=10.
func resolveAddressing(mnemonic string, mem ir.Memory, regField byte) (addressing, *EncodingError) {
	if mem.Base == "" {
		return addressing{}, newErr(UnsupportedForm, mnemonic, "memory operand without a base register is not supported")
	}
	baseReg, ok := LookupRegister(mem.Base)
	if !ok {
		return addressing{}, newErr(UnknownRegister, mnemonic, "unknown register %q", mem.Base)
	}

	baseRM3 := rm3(baseReg.Encoding)
	ripSensitive := baseRM3 == 5
	needSIB := baseRM3 == 4 || mem.Index != ""

	var mod byte
	var disp []byte
	disp0 := !mem.HasDisp || mem.Disp == 0

	switch {
	case ripSensitive && disp0:
		mod = 0b01
		disp = []byte{0}
	case disp0:
		mod = 0b00
	case fitsInt8(mem.Disp):
		mod = 0b01
		disp = []byte{byte(int8(mem.Disp))}
	default:
		mod = 0b10
		disp = le32(uint32(int32(mem.Disp)))
	}

	var sibBytes []byte
	var indexExt bool
	rmField := baseRM3
	if needSIB {
		scale := mem.Scale
		if scale == 0 {
			scale = 1
		}
		indexField := -1
		if mem.Index != "" {
			indexReg, ok := LookupRegister(mem.Index)
			if !ok {
				return addressing{}, newErr(UnknownRegister, mnemonic, "unknown register %q", mem.Index)
			}
			if rm3(indexReg.Encoding) == 4 {
				return addressing{}, newErr(UnsupportedForm, mnemonic, "%%rsp/%%r12 cannot be used as an index register")
			}
			indexField = int(rm3(indexReg.Encoding))
			indexExt = extBit(indexReg.Encoding)
		}
		sibBytes = []byte{sib(scale, indexField, baseRM3)}
		rmField = 4
	}

	return addressing{
		modrm:      modrm(mod, regField, rmField),
		sib:        sibBytes,
		disp:       disp,
		addrSize32: baseReg.Width == 32,
		baseExt:    extBit(baseReg.Encoding),
		indexExt:   indexExt,
	}, nil
}

// emit appends the ModR/M, SIB, and displacement bytes to buf in the
// corrected order (SIB immediately after ModR/M, never after the
// displacement — §9 open question).
func (a addressing) emit(buf *[]byte) {
	*buf = append(*buf, a.modrm)
	*buf = append(*buf, a.sib...)
	*buf = append(*buf, a.disp...)
}

func fitsInt8(v int64) bool {
	return v >= -128 && v <= 127
}

func le16(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func le64(v uint64) []byte {
	return []byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	}
}

// memoryWidth resolves the effective operand width of a memory operand
// given its paired operand: the pair's register width if it is a register,
// otherwise the memory operand's own size hint. Returns 0 (with
// AmbiguousSize) if neither supplies a width.
func memoryWidth(mnemonic string, mem ir.Memory, pair ir.Operand) (int, *EncodingError) {
	if regOp, ok := pair.(ir.Register); ok {
		r, ok := LookupRegister(regOp.Name)
		if !ok {
			return 0, newErr(UnknownRegister, mnemonic, "unknown register %q", regOp.Name)
		}
		return r.Width, nil
	}
	if mem.SizeHint != 0 {
		return mem.SizeHint, nil
	}
	return 0, newErr(AmbiguousSize, mnemonic, "memory operand has no explicit size and its pair does not supply one")
}
