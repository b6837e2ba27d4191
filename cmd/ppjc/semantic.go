package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riscc32/ppjc/internal/codegen"
	"github.com/riscc32/ppjc/internal/diag"
	"github.com/riscc32/ppjc/internal/semantic"
)

func init() {
	cmd := &cobra.Command{
		Use:     "semantic <file>",
		Short:   "Run the full pipeline through semantic analysis and code generation",
		Example: "  ppjc semantic prog.c",
		Args:    cobra.ExactArgs(1),
		RunE:    runSemantic,
	}
	rootCmd.AddCommand(cmd)
}

func runSemantic(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	batch := diag.NewBatch()

	if d := checkSemanticsDef(cfg.SemanticsDefinitionPath); d != nil {
		batch.Add(d)
		reportDiagnostics(batch)
		return fmt.Errorf("invalid semantics configuration")
	}

	lspec, err := loadLexSpec(cfg)
	if err != nil {
		return err
	}
	_, tokens, _, lexDiags, err := scanSource(lspec, args[0])
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

	checker := semantic.NewChecker(&tree)
	checkErr := checker.Check()
	batch.Add(checker.Diagnostics()...)

	dir, err := resolvedOutputDir(cfg, batch)
	if err != nil {
		return err
	}

	if err := writeArtifact(dir, "tablica_simbola.txt", checker.Symbols().Dump()); err != nil {
		return err
	}
	if err := writeArtifact(dir, "semanticko_stablo.txt", checker.Tree().Generative()); err != nil {
		return err
	}

	if checkErr == nil {
		gen := codegen.NewGenerator(checker.Tree(), checker.Symbols())
		if err := writeArtifact(dir, "izlazni_kod.asm", gen.Generate()); err != nil {
			return err
		}
	}

	reportDiagnostics(batch)
	if batch.HasErrors() {
		return fmt.Errorf("semantic analysis reported errors")
	}
	return nil
}
