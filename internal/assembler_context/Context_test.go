package assembler_context_test

import (
	"strings"
	"testing"

	x86_64 "github.com/keurnel/x64asm/architecture/x86_64"
	"github.com/keurnel/x64asm/internal/assembler_context"
)

func TestSupportsMnemonic(t *testing.T) {
	ctx := assembler_context.NewAssemblerContext(x86_64.NewArchitecture())
	for _, name := range []string{"add", "sub", "cmp", "mov", "jmp", "syscall", "int"} {
		if !ctx.SupportsMnemonic(name) {
			t.Errorf("SupportsMnemonic(%q) = false, want true", name)
		}
	}
	if ctx.SupportsMnemonic("nope") {
		t.Error("SupportsMnemonic(\"nope\") = true, want false")
	}
}

func TestDescribeReportsArchitectureName(t *testing.T) {
	ctx := assembler_context.NewAssemblerContext(x86_64.NewArchitecture())
	desc := ctx.Describe()
	if !strings.HasPrefix(desc, "x86_64:") {
		t.Errorf("Describe() = %q, want prefix %q", desc, "x86_64:")
	}
	if !strings.Contains(desc, "registers") || !strings.Contains(desc, "mnemonics") || !strings.Contains(desc, "directives") {
		t.Errorf("Describe() = %q, missing expected counts", desc)
	}
}
