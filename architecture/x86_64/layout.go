package x86_64

import (
	"fmt"

	"github.com/keurnel/x64asm/internal/debugcontext"
	"github.com/keurnel/x64asm/internal/ir"
)

// AssemblyResult is the output of a completed two-pass assembly: the final
// bytes of each section, plus the label and relocation tables the ELF
// writer needs.
type AssemblyResult struct {
	Code   []byte
	Data   []byte
	Labels []LabelEntry
	Relocs []RelocEntry
}

// Assemble runs the two-pass layout engine over prog (§4.6): pass 1 sizes
// every node and records label addresses using a dry-run encode; pass 2
// re-encodes with the completed label table, building the final section
// buffers and recording relocations when elf is true. Non-fatal encoder
// errors are recorded into dbg and their instruction emits nothing; fatal
// errors (unresolved labels, invalid high-register/REX combinations) abort
// the run.
func Assemble(prog ir.Program, elf bool, dbg *debugcontext.DebugContext) (*AssemblyResult, error) {
	ctx := newAssemblyContext(elf)

	dbg.SetPhase("layout-pass1")
	ctx.resetForPass(passSizing)
	if _, _, err := runPass(ctx, prog, dbg); err != nil {
		return nil, err
	}

	dbg.SetPhase("layout-pass2")
	ctx.resetForPass(passEmission)
	code, data, err := runPass(ctx, prog, dbg)
	if err != nil {
		return nil, err
	}

	return &AssemblyResult{
		Code:   code,
		Data:   data,
		Labels: ctx.labels,
		Relocs: ctx.relocs,
	}, nil
}

// runPass walks prog once, in source order, dispatching every node through
// the same encoders regardless of which pass is active (the distinction
// lives in ctx.pass, consulted by encoders that reference labels). It
// returns the accumulated code/data bytes — meaningless during pass 1,
// authoritative during pass 2.
func runPass(ctx *assemblyContext, prog ir.Program, dbg *debugcontext.DebugContext) (code, data []byte, err error) {
	for _, node := range prog.Nodes {
		switch n := node.(type) {
		case *ir.Label:
			if ctx.pass == passSizing {
				ctx.recordLabel(n.Name)
			}

		case *ir.Directive:
			bytes, encErr := execDirective(ctx, n)
			if encErr != nil {
				if recordOrAbort(dbg, ctx, n.Name, encErr) {
					return nil, nil, fatalError(encErr)
				}
				continue
			}
			if ctx.pass == passEmission && len(bytes) > 0 {
				appendSection(&code, &data, ctx.section, bytes)
			}

		case *ir.Instruction:
			bytes, encErr := dispatch(ctx, n)
			if encErr != nil {
				if recordOrAbort(dbg, ctx, n.Mnemonic, encErr) {
					return nil, nil, fatalError(encErr)
				}
				continue
			}
			if ctx.pass == passEmission {
				appendSection(&code, &data, ctx.section, bytes)
			}
			ctx.advance(len(bytes))
		}
	}
	return code, data, nil
}

func appendSection(code, data *[]byte, section Section, bytes []byte) {
	if section == SectionData {
		*data = append(*data, bytes...)
	} else {
		*code = append(*code, bytes...)
	}
}

// recordOrAbort records a non-fatal encoding error into dbg and returns
// false (continue to the next node), or returns true without recording for
// a fatal error (the caller aborts with that error instead). Non-fatal
// errors are recorded during pass 1 only; pass 2 meets the same error again
// and skips the node without recording it a second time.
func recordOrAbort(dbg *debugcontext.DebugContext, ctx *assemblyContext, name string, encErr *EncodingError) bool {
	if encErr.Fatal() {
		return true
	}
	if ctx.pass == passSizing {
		dbg.Error(dbg.Loc(0, 0), fmt.Sprintf("%s (%s)", encErr.Error(), name))
	}
	return false
}

func fatalError(encErr *EncodingError) error {
	return fmt.Errorf("%s: %w", encErr.Kind, encErr)
}
