package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riscc32/ppjc/internal/diag"
	"github.com/riscc32/ppjc/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:     "syntax <file>",
		Short:   "Run the lexer and parser, writing tree artifacts to the output directory",
		Example: "  ppjc syntax prog.c",
		Args:    cobra.ExactArgs(1),
		RunE:    runSyntax,
	}
	rootCmd.AddCommand(cmd)
}

func runSyntax(cmd *cobra.Command, args []string) error {
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

	g, table, syncSet, err := loadGrammarAndTable(cfg)
	if err != nil {
		return err
	}

	tree, parseDiags, err := parseTokens(g, table, syncSet, cfg.Trace, tokens)
	batch.Add(parseDiags...)
	if err != nil {
		reportDiagnostics(batch)
		return err
	}

	dir, err := resolvedOutputDir(cfg, batch)
	if err != nil {
		return err
	}

	if err := writeArtifact(dir, "leksicke_jedinke.txt", render.TokenDump(tokens, symtab)); err != nil {
		return err
	}
	if err := writeArtifact(dir, "generativno_stablo.txt", render.Tree(tree)); err != nil {
		return err
	}
	if err := writeArtifact(dir, "sintaksno_stablo.txt", render.SyntaxTree(tree)); err != nil {
		return err
	}

	reportDiagnostics(batch)
	if batch.HasErrors() {
		return fmt.Errorf("syntax analysis reported errors")
	}
	return nil
}
