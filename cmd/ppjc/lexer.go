package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riscc32/ppjc/internal/diag"
	"github.com/riscc32/ppjc/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:     "lexer <file>",
		Short:   "Run the lexer and print a token dump to stdout",
		Example: "  ppjc lexer prog.c",
		Args:    cobra.ExactArgs(1),
		RunE:    runLexer,
	}
	rootCmd.AddCommand(cmd)
}

func runLexer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	batch := diag.NewBatch()

	lspec, err := loadLexSpec(cfg)
	if err != nil {
		return err
	}

	_, tokens, symtab, lexDiags, err := scanSource(lspec, args[0])
	if err != nil {
		return err
	}
	batch.Add(lexDiags...)

	fmt.Fprint(os.Stdout, render.TokenDump(tokens, symtab))
	reportDiagnostics(batch)

	if batch.HasErrors() {
		return fmt.Errorf("lexical analysis reported errors")
	}
	return nil
}
