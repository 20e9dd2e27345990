package x86_64

import (
	"fmt"
	"sort"

	asmx86_64 "github.com/keurnel/x64asm/architecture/x86_64"
	"github.com/keurnel/x64asm/internal/assembler_context"
	"github.com/spf13/cobra"
)

// ListCmd reports what the x86_64 architecture supports: its registers,
// directives, and mnemonics, by way of an assembler_context.AssemblerContext
// wrapping asmx86_64.NewArchitecture() rather than reaching into the
// encoder's own tables directly.
var ListCmd = &cobra.Command{
	Use:   "list {registers|directives|instructions}",
	Short: "List the registers, directives, or mnemonics the x86_64 architecture supports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := assembler_context.NewAssemblerContext(asmx86_64.NewArchitecture())
		var names []string
		switch args[0] {
		case "registers":
			names = ctx.Architecture.RegisterSet()
		case "directives":
			names = ctx.Architecture.Directives()
		case "instructions":
			for name := range ctx.Architecture.Instructions() {
				names = append(names, name)
			}
		default:
			return fmt.Errorf("unknown list target %q: want registers, directives, or instructions", args[0])
		}
		sort.Strings(names)
		fmt.Fprintln(cmd.OutOrStdout(), ctx.Describe())
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
