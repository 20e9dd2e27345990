package asm

// InstructionEncoding names the ModR/M-level shape of an instruction form.
// It is the key the table-driven ALU emitter switches on instead of having a
// dedicated Go function per (mnemonic, operand-kind-tuple) pair.
type InstructionEncoding int

const (
	// EncodingRMReg is the "r/m, r" form: ModR/M.reg is the source register,
	// ModR/M.rm is the register-or-memory destination.
	EncodingRMReg InstructionEncoding = iota
	// EncodingRegRM is the "r, r/m" form: ModR/M.reg is the destination
	// register, ModR/M.rm is the register-or-memory source.
	EncodingRegRM
	// EncodingImmRM is the "imm, r/m" form keyed off a ModR/M /digit
	// extension opcode rather than a register in the reg field.
	EncodingImmRM
	// EncodingImmShort is the "imm, AL/AX/EAX/RAX" accumulator-only form:
	// no ModR/M byte at all.
	EncodingImmShort
)

// InstructionForm is one declarative encoding variant of a mnemonic: the
// opcode pair (8-bit vs. wider), the ModR/M /digit for imm forms, and the
// encoding shape. It carries no Go logic of its own — architecture/x86_64's
// table-driven emitter is the sole consumer.
type InstructionForm struct {
	Operands []OperandType       // Operand kinds this form applies to.
	Opcode8  byte                // Opcode for the 8-bit-operand variant.
	Opcode   byte                // Opcode for the 16/32/64-bit-operand variant.
	Digit    int                 // ModR/M reg-field value for imm,r/m forms; -1 when unused.
	Encoding InstructionEncoding // Encoding shape.
}
