package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "x64asm <input> -o <output> [-f bin|elf]",
	Short: "A two-pass x86_64 AT&T-syntax assembler",
	Long:  `x64asm assembles AT&T-syntax x86_64 source into a raw binary image or a relocatable ELF64 object.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {

	rootCmd.AddGroup(&cobra.Group{
		ID:    "arch",
		Title: "Architectures",
	})

	rootCmd.AddCommand(x8664Cmd)
}
