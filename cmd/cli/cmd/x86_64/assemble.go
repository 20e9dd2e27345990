// Package x86_64 holds the CLI subcommands for the x86_64 architecture
// group: assembling a source file into a raw binary image or a relocatable
// ELF64 object.
package x86_64

import (
	"fmt"
	"os"
	"path/filepath"

	asmx86_64 "github.com/keurnel/x64asm/architecture/x86_64"
	"github.com/keurnel/x64asm/internal/debugcontext"
	"github.com/keurnel/x64asm/internal/elfwriter"
	"github.com/keurnel/x64asm/internal/parser"
	"github.com/spf13/cobra"
)

// AssembleCmd implements the CLI surface from spec.md §6:
// `program <input> -o <output> [-f bin|elf] [-h]`.
var AssembleCmd = &cobra.Command{
	Use:   "assemble <input>",
	Short: "Assemble an x86_64 AT&T assembly source file",
	Long:  `Assemble an x86_64 AT&T assembly source file into a raw binary image or a relocatable ELF64 object.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		return runAssemble(args[0], output, format)
	},
}

func init() {
	AssembleCmd.Flags().StringP("output", "o", "", "output file path (required)")
	AssembleCmd.Flags().StringP("format", "f", "bin", "output format: bin or elf")
	_ = AssembleCmd.MarkFlagRequired("output")
}

// runAssemble reads path, parses it, runs the two-pass layout engine, and
// writes either the raw .text bytes or a full ELF64 object to output
// depending on format. Parse errors are reported but do not abort the run
// (spec.md §7 policy); label-resolution and I/O failures do.
func runAssemble(path, output, format string) error {
	if format != "bin" && format != "elf" {
		return fmt.Errorf("unsupported output format %q: want bin or elf", format)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	prog, parseErrs := parser.Parse(string(source))
	dbg := debugcontext.NewDebugContext(filepath.Base(path))
	for _, pe := range parseErrs {
		dbg.Error(dbg.Loc(pe.Line, 0), pe.Message)
	}

	dbg.SetPhase("encode")
	result, err := asmx86_64.Assemble(prog, format == "elf", dbg)
	if err != nil {
		return fmt.Errorf("assembling %s: %w", path, err)
	}

	for _, e := range dbg.Errors() {
		fmt.Fprintln(os.Stderr, e.String())
	}

	var out []byte
	if format == "elf" {
		out, err = elfwriter.Write(result)
		if err != nil {
			return fmt.Errorf("writing ELF object: %w", err)
		}
	} else {
		out = result.Code
	}

	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}
