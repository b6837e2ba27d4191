/*
Ppjc is a multi-phase compiler front end for a C subset.

It reads a single source file through lexer, parser, semantic analysis, and
code generation stages, writing the artifacts described in each verb below
to a compiler-bin/ directory (for lexer, to stdout instead).

Usage:

	ppjc <verb> <file> [flags]

The verbs are:

	lexer <file>
		Run the lexer only. Prints a two-section token dump to stdout.

	syntax <file>
		Run the lexer and parser. Writes leksicke_jedinke.txt,
		generativno_stablo.txt, and sintaksno_stablo.txt.

	semantic <file>
		Run the lexer, parser, semantic analysis, and (on success) code
		generation. Writes tablica_simbola.txt, semanticko_stablo.txt, and
		the assembly output.

	<file>
		With no verb, equivalent to "semantic <file>".

The flags are:

	--lexer-def FILE
		Lexer definition file (default config/lexer.def, or
		$LEXER_DEFINITION_PATH).

	--parser-def FILE
		Grammar definition file (default config/grammar.def, or
		$PARSER_DEFINITION_PATH).

	--semantics-def FILE
		Semantics definition sanity file (default config/semantics.def, or
		$SEMANTICS_DEFINITION_PATH).

	--cache-dir DIR
		LR parse table cache directory (default .ppjc-cache).

	--output-dir DIR
		Output directory for written artifacts (default compiler-bin).

	--run-scoped
		Suffix --output-dir with this run's ID, so concurrent invocations
		from a driving script never collide on output files.

	--trace
		Emit parser trace lines to stderr as parsing proceeds.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ppjc <file>",
	Short: "Compile a C-subset source file",
	Long: `ppjc runs a source file through the lexer, parser, semantic
analyzer, and code generator, in that order, writing the artifacts named by
the chosen verb to a compiler-bin/ directory.`,
	Args:          cobra.ExactArgs(1),
	RunE:          runSemantic,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var globalFlags = struct {
	lexerDef     *string
	parserDef    *string
	semanticsDef *string
	cacheDir     *string
	outputDir    *string
	runScoped    *bool
	trace        *bool
}{}

func init() {
	globalFlags.lexerDef = rootCmd.PersistentFlags().String("lexer-def", "", "lexer definition file")
	globalFlags.parserDef = rootCmd.PersistentFlags().String("parser-def", "", "grammar definition file")
	globalFlags.semanticsDef = rootCmd.PersistentFlags().String("semantics-def", "", "semantics definition sanity file")
	globalFlags.cacheDir = rootCmd.PersistentFlags().String("cache-dir", "", "LR parse table cache directory")
	globalFlags.outputDir = rootCmd.PersistentFlags().String("output-dir", "", "output directory for written artifacts")
	globalFlags.runScoped = rootCmd.PersistentFlags().Bool("run-scoped", false, "suffix output-dir with this run's ID")
	globalFlags.trace = rootCmd.PersistentFlags().Bool("trace", false, "emit parser trace lines to stderr")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
