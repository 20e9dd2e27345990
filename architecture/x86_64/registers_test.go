package x86_64_test

import (
	"testing"

	"github.com/keurnel/x64asm/architecture/x86_64"
)

func TestLookupRegister64Bit(t *testing.T) {
	tests := []struct {
		name string
		enc  byte
	}{
		{"%rax", 0}, {"%rcx", 1}, {"%rdx", 2}, {"%rbx", 3},
		{"%rsp", 4}, {"%rbp", 5}, {"%rsi", 6}, {"%rdi", 7},
		{"%r8", 8}, {"%r9", 9}, {"%r10", 10}, {"%r11", 11},
		{"%r12", 12}, {"%r13", 13}, {"%r14", 14}, {"%r15", 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := x86_64.LookupRegister(tt.name)
			if !ok {
				t.Fatalf("LookupRegister(%q) not found", tt.name)
			}
			if r.Encoding != tt.enc {
				t.Errorf("Encoding = %d, want %d", r.Encoding, tt.enc)
			}
			if r.Width != 64 {
				t.Errorf("Width = %d, want 64", r.Width)
			}
		})
	}
}

func TestLookupRegisterWidths(t *testing.T) {
	tests := []struct {
		name      string
		wantWidth int
	}{
		{"%eax", 32}, {"%r8d", 32},
		{"%ax", 16}, {"%r15w", 16},
		{"%al", 8}, {"%spl", 8}, {"%r9b", 8},
		{"%ah", 8}, {"%ch", 8}, {"%dh", 8}, {"%bh", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := x86_64.LookupRegister(tt.name)
			if !ok {
				t.Fatalf("LookupRegister(%q) not found", tt.name)
			}
			if r.Width != tt.wantWidth {
				t.Errorf("Width = %d, want %d", r.Width, tt.wantWidth)
			}
		})
	}
}

func TestLookupRegisterUnknown(t *testing.T) {
	if _, ok := x86_64.LookupRegister("%nope"); ok {
		t.Fatal("expected unknown register to fail lookup")
	}
}

func TestHighByteAndNewLowByteRegisters(t *testing.T) {
	for _, name := range []string{"%ah", "%ch", "%dh", "%bh"} {
		if !x86_64.IsHighByteRegister(name) {
			t.Errorf("%s should be a high-byte register", name)
		}
		if x86_64.IsNewLowByteRegister(name) {
			t.Errorf("%s should not be a new-low-byte register", name)
		}
	}
	for _, name := range []string{"%spl", "%bpl", "%sil", "%dil"} {
		if !x86_64.IsNewLowByteRegister(name) {
			t.Errorf("%s should be a new-low-byte register", name)
		}
		if x86_64.IsHighByteRegister(name) {
			t.Errorf("%s should not be a high-byte register", name)
		}
	}
	if x86_64.IsHighByteRegister("%rax") || x86_64.IsNewLowByteRegister("%rax") {
		t.Error("%rax should be neither high-byte nor new-low-byte")
	}
}

// %spl and %ah share encoding number 4 but disagree on whether a REX
// prefix is allowed — the catalog must keep them as distinct names rather
// than collapsing to one row.
func TestSplAndAhShareEncodingButDiffer(t *testing.T) {
	spl, ok := x86_64.LookupRegister("%spl")
	if !ok {
		t.Fatalf("%%spl not found")
	}
	ah, ok := x86_64.LookupRegister("%ah")
	if !ok {
		t.Fatal("%ah not found")
	}
	if spl.Encoding != ah.Encoding {
		t.Errorf("expected %%spl and %%ah to share encoding 4, got %d and %d", spl.Encoding, ah.Encoding)
	}
}
