package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/riscc32/ppjc/internal/config"
	"github.com/riscc32/ppjc/internal/diag"
	"github.com/riscc32/ppjc/internal/ictiobus/grammar"
	"github.com/riscc32/ppjc/internal/ictiobus/parse"
	"github.com/riscc32/ppjc/internal/ictiobus/parse/tablecache"
	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/lexer"
	"github.com/riscc32/ppjc/internal/lexspec"
)

// loadConfig resolves layered configuration against the current working
// directory as project root, then applies any flags the invoking command
// set explicitly.
func loadConfig() (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return config.Config{}, err
	}
	return config.ApplyFlagOverrides(cfg, config.FlagOverrides{
		LexerDefinitionPath:     *globalFlags.lexerDef,
		ParserDefinitionPath:    *globalFlags.parserDef,
		SemanticsDefinitionPath: *globalFlags.semanticsDef,
		CacheDir:                *globalFlags.cacheDir,
		OutputDir:               *globalFlags.outputDir,
		TraceSet:                rootCmd.PersistentFlags().Changed("trace"),
		Trace:                   *globalFlags.trace,
	}), nil
}

// checkSemanticsDef enforces the spec-error contract for a missing or
// empty semantics definition file: the semantic checker's rules are
// compiled into internal/semantic rather than read from this file, but its
// presence is still a start-up precondition spec §7 requires to fail fast
// on malformed semantics configuration.
func checkSemanticsDef(path string) *diag.Diagnostic {
	info, err := os.Stat(path)
	if err != nil {
		return diag.SpecError("semantics definition %s: %v", path, err)
	}
	if info.Size() == 0 {
		return diag.SpecError("semantics definition %s is empty", path)
	}
	return nil
}

// loadLexSpec reads and compiles the lexer definition file named by cfg.
func loadLexSpec(cfg config.Config) (*lexspec.Spec, error) {
	data, err := os.ReadFile(cfg.LexerDefinitionPath)
	if err != nil {
		return nil, fmt.Errorf("lexer definition %s: %w", cfg.LexerDefinitionPath, err)
	}
	spec, err := lexspec.Generate(string(data))
	if err != nil {
		return nil, err
	}
	return spec, nil
}

// scanSource drains the lexer over srcPath's contents using spec.
func scanSource(spec *lexspec.Spec, srcPath string) (string, []lexer.Token, *lexer.SymbolTable, []*diag.Diagnostic, error) {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return "", nil, nil, nil, fmt.Errorf("source file %s: %w", srcPath, err)
	}
	rt := lexer.New(spec, string(src))
	tokens, diags := rt.ScanAll()
	return string(src), tokens, rt.SymbolTable(), diags, nil
}

// loadGrammarAndTable reads and loads the grammar definition file named by
// cfg, then returns the loaded grammar, its canonical-LR(1) parse table
// (built fresh only on a cache miss) and the %Syn-declared synchronisation
// token set panic-mode recovery must restrict itself to.
func loadGrammarAndTable(cfg config.Config) (grammar.Grammar, parse.LRParseTable, map[string]bool, error) {
	src, err := os.ReadFile(cfg.ParserDefinitionPath)
	if err != nil {
		return grammar.Grammar{}, nil, nil, fmt.Errorf("grammar definition %s: %w", cfg.ParserDefinitionPath, err)
	}

	res, err := grammar.Load(string(src))
	if err != nil {
		return grammar.Grammar{}, nil, nil, err
	}

	key := tablecache.KeyForSource(src)
	if cached, ok, err := tablecache.Get(cfg.CacheDir, key); err == nil && ok {
		return res.Grammar, cached, res.SyncSet, nil
	}

	parser, err := parse.GenerateCanonicalLR1Parser(res.Grammar)
	if err != nil {
		return grammar.Grammar{}, nil, nil, err
	}
	table := parser.Table()

	if err := tablecache.Put(cfg.CacheDir, key, res.Grammar, table); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write LR table cache: %v\n", err)
	}

	return res.Grammar, table, res.SyncSet, nil
}

// parseTokens runs the CLR(1) parser over tokens, wrapping them in a
// types.TokenStream via lexer.NewStream. syncSet restricts panic-mode
// recovery to the grammar's declared %Syn synchronisation tokens.
func parseTokens(g grammar.Grammar, table parse.LRParseTable, syncSet map[string]bool, trace bool, tokens []lexer.Token) (types.ParseTree, []*diag.Diagnostic, error) {
	parser := parse.FromTable(table, g, syncSet)
	if trace {
		parser.RegisterTraceListener(func(s string) {
			fmt.Fprintln(os.Stderr, s)
		})
	}
	return parser.Parse(lexer.NewStream(tokens))
}

// resolvedOutputDir applies --run-scoped, if set, to cfg.OutputDir using
// batch's run ID, and ensures the directory exists.
func resolvedOutputDir(cfg config.Config, batch *diag.Batch) (string, error) {
	dir := cfg.OutputDir
	if *globalFlags.runScoped {
		dir = batch.OutputDir(dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// writeArtifact writes content to name under dir.
func writeArtifact(dir, name, content string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
}

// reportDiagnostics prints every diagnostic in batch to stderr.
func reportDiagnostics(batch *diag.Batch) {
	for _, d := range batch.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}
}
