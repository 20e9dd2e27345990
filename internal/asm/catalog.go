package asm

// ALUCatalog returns the declarative opcode table for the ALU-class
// mnemonics (add, sub, cmp) that share one ModR/M shape: r/m-r, r-r/m,
// imm-r/m (via a /digit extension), and an accumulator-only immediate short
// form. mov is deliberately absent — its B0+r/B8+r short forms and its
// label-reference operand have no analogue here and keep their own encoder.
// Operand-kind tags used as the Identifier of each form's single tag
// OperandType, so Instruction.Form (the teacher's lookup-and-cache path) can
// locate a form by shape without the caller switching on InstructionEncoding
// directly.
const (
	TagRMReg    = "rm_r"
	TagRegRM    = "r_rm"
	TagImmRM    = "imm_rm"
	TagImmShort = "imm_short"
)

func ALUCatalog() map[string]Instruction {
	catalog := map[string]Instruction{
		"add": {
			Mnemonic: "add",
			Forms: []InstructionForm{
				{Operands: []OperandType{{Identifier: TagRMReg}}, Opcode8: 0x00, Opcode: 0x01, Digit: -1, Encoding: EncodingRMReg},
				{Operands: []OperandType{{Identifier: TagRegRM}}, Opcode8: 0x02, Opcode: 0x03, Digit: -1, Encoding: EncodingRegRM},
				{Operands: []OperandType{{Identifier: TagImmRM}}, Opcode8: 0x80, Opcode: 0x81, Digit: 0, Encoding: EncodingImmRM},
				{Operands: []OperandType{{Identifier: TagImmShort}}, Opcode8: 0x04, Opcode: 0x05, Digit: -1, Encoding: EncodingImmShort},
			},
		},
		"sub": {
			Mnemonic: "sub",
			Forms: []InstructionForm{
				{Operands: []OperandType{{Identifier: TagRMReg}}, Opcode8: 0x28, Opcode: 0x29, Digit: -1, Encoding: EncodingRMReg},
				{Operands: []OperandType{{Identifier: TagRegRM}}, Opcode8: 0x2A, Opcode: 0x2B, Digit: -1, Encoding: EncodingRegRM},
				{Operands: []OperandType{{Identifier: TagImmRM}}, Opcode8: 0x80, Opcode: 0x81, Digit: 5, Encoding: EncodingImmRM},
				{Operands: []OperandType{{Identifier: TagImmShort}}, Opcode8: 0x2C, Opcode: 0x2D, Digit: -1, Encoding: EncodingImmShort},
			},
		},
		"cmp": {
			Mnemonic: "cmp",
			Forms: []InstructionForm{
				{Operands: []OperandType{{Identifier: TagRMReg}}, Opcode8: 0x38, Opcode: 0x39, Digit: -1, Encoding: EncodingRMReg},
				{Operands: []OperandType{{Identifier: TagRegRM}}, Opcode8: 0x3A, Opcode: 0x3B, Digit: -1, Encoding: EncodingRegRM},
				{Operands: []OperandType{{Identifier: TagImmRM}}, Opcode8: 0x80, Opcode: 0x81, Digit: 7, Encoding: EncodingImmRM},
				{Operands: []OperandType{{Identifier: TagImmShort}}, Opcode8: 0x3C, Opcode: 0x3D, Digit: -1, Encoding: EncodingImmShort},
			},
		},
	}
	return catalog
}

// FormByTag looks up a form by its operand-kind tag via Instruction.Form,
// returning false if no form (or more than zero but mismatched) is found.
func (instr *Instruction) FormByTag(tag string) (InstructionForm, bool) {
	forms := instr.Form(OperandType{Identifier: tag})
	if len(forms) == 0 {
		return InstructionForm{}, false
	}
	return forms[0], true
}
