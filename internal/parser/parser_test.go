package parser_test

import (
	"testing"

	"github.com/keurnel/x64asm/internal/ir"
	"github.com/keurnel/x64asm/internal/parser"
)

func TestParseLabelAndInstruction(t *testing.T) {
	prog, errs := parser.Parse("start:\nmov %rsp, %rbp\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(prog.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(prog.Nodes))
	}
	label, ok := prog.Nodes[0].(*ir.Label)
	if !ok || label.Name != "start" {
		t.Fatalf("node 0 = %#v, want Label{start}", prog.Nodes[0])
	}
	instr, ok := prog.Nodes[1].(*ir.Instruction)
	if !ok || instr.Mnemonic != "mov" {
		t.Fatalf("node 1 = %#v, want Instruction{mov}", prog.Nodes[1])
	}
	if len(instr.Operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(instr.Operands))
	}
	src, ok := instr.Operands[0].(ir.Register)
	if !ok || src.Name != "%rsp" {
		t.Errorf("operand 0 = %#v, want Register{%%rsp}", instr.Operands[0])
	}
	dst, ok := instr.Operands[1].(ir.Register)
	if !ok || dst.Name != "%rbp" {
		t.Errorf("operand 1 = %#v, want Register{%%rbp}", instr.Operands[1])
	}
}

func TestParseImmediateOperand(t *testing.T) {
	prog, errs := parser.Parse("mov $1, %rax\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	instr := prog.Nodes[0].(*ir.Instruction)
	imm, ok := instr.Operands[0].(ir.Immediate)
	if !ok || imm.Value != 1 {
		t.Fatalf("operand 0 = %#v, want Immediate{1}", instr.Operands[0])
	}
}

func TestParseHexImmediate(t *testing.T) {
	prog, errs := parser.Parse("int $0x80\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	instr := prog.Nodes[0].(*ir.Instruction)
	imm := instr.Operands[0].(ir.Immediate)
	if imm.Value != 0x80 {
		t.Errorf("immediate = %d, want 128", imm.Value)
	}
}

func TestParseMemoryOperand(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		base   string
		index  string
		scale  int
		disp   int64
		hasDsp bool
	}{
		{"bare base", "(%rsp)", "%rsp", "", 1, 0, false},
		{"base with displacement", "8(%rax)", "%rax", "", 1, 8, true},
		{"base, index, scale", "16(%rax,%rbx,4)", "%rax", "%rbx", 4, 16, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, errs := parser.Parse("mov " + tt.src + ", %rcx\n")
			if len(errs) != 0 {
				t.Fatalf("unexpected parse errors: %v", errs)
			}
			instr := prog.Nodes[0].(*ir.Instruction)
			mem, ok := instr.Operands[0].(ir.Memory)
			if !ok {
				t.Fatalf("operand 0 = %#v, want Memory", instr.Operands[0])
			}
			if mem.Base != tt.base {
				t.Errorf("Base = %q, want %q", mem.Base, tt.base)
			}
			if mem.Index != tt.index {
				t.Errorf("Index = %q, want %q", mem.Index, tt.index)
			}
			if mem.Scale != tt.scale {
				t.Errorf("Scale = %d, want %d", mem.Scale, tt.scale)
			}
			if mem.Disp != tt.disp || mem.HasDisp != tt.hasDsp {
				t.Errorf("Disp/HasDisp = %d/%v, want %d/%v", mem.Disp, mem.HasDisp, tt.disp, tt.hasDsp)
			}
		})
	}
}

func TestParseLabelRefOperand(t *testing.T) {
	prog, errs := parser.Parse("jmp END\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	instr := prog.Nodes[0].(*ir.Instruction)
	ref, ok := instr.Operands[0].(ir.LabelRef)
	if !ok || ref.Name != "END" {
		t.Fatalf("operand 0 = %#v, want LabelRef{END}", instr.Operands[0])
	}
}

func TestParseDirectives(t *testing.T) {
	prog, errs := parser.Parse(".code\n.data\n.org 0x1000\n.string \"hi\"\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(prog.Nodes) != 4 {
		t.Fatalf("expected 4 directive nodes, got %d", len(prog.Nodes))
	}
	org := prog.Nodes[2].(*ir.Directive)
	if org.Name != "org" || len(org.Args) != 1 || org.Args[0] != "0x1000" {
		t.Errorf("org directive = %#v", org)
	}
	str := prog.Nodes[3].(*ir.Directive)
	if str.Name != "string" || len(str.Args) != 1 || str.Args[0] != "hi" {
		t.Errorf("string directive = %#v", str)
	}
}

func TestParseCommentsAreIgnored(t *testing.T) {
	prog, errs := parser.Parse("mov %rsp, %rbp # a comment\n; another style\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(prog.Nodes) != 1 {
		t.Fatalf("expected 1 node (comment-only line skipped), got %d", len(prog.Nodes))
	}
}

func TestParseMultipleOperandsWithCommas(t *testing.T) {
	prog, errs := parser.Parse("add $5, %al\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	instr := prog.Nodes[0].(*ir.Instruction)
	if len(instr.Operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(instr.Operands))
	}
}

func TestParseErrorRecoveryContinuesToNextLine(t *testing.T) {
	prog, errs := parser.Parse(", , ,\nmov %rsp, %rbp\n")
	if len(errs) == 0 {
		t.Fatal("expected a parse error on the malformed first line")
	}
	if len(prog.Nodes) != 1 {
		t.Fatalf("expected the second line's instruction to still parse, got %d nodes", len(prog.Nodes))
	}
}
