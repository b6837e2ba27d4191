package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, defaultLexerDefPath, cfg.LexerDefinitionPath)
	assert.Equal(t, defaultParserDefPath, cfg.ParserDefinitionPath)
	assert.False(t, cfg.Trace)
}

func TestLoadProjectFile(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
lexer_definition_path = "custom/lex.def"
trace = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, defaultProjectFile), []byte(tomlContent), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom/lex.def"), cfg.LexerDefinitionPath)
	assert.True(t, cfg.Trace)
	// unset fields still fall back to the defaults
	assert.Equal(t, defaultParserDefPath, cfg.ParserDefinitionPath)
}

func TestLoadEnvOverridesProjectFile(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `lexer_definition_path = "custom/lex.def"`
	require.NoError(t, os.WriteFile(filepath.Join(dir, defaultProjectFile), []byte(tomlContent), 0644))

	t.Setenv(envLexerDefPath, "/override/lex.def")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/override/lex.def", cfg.LexerDefinitionPath)
}

func TestApplyFlagOverridesTakesPrecedence(t *testing.T) {
	cfg := Defaults()
	cfg = ApplyFlagOverrides(cfg, FlagOverrides{LexerDefinitionPath: "/flag/lex.def", TraceSet: true, Trace: true})
	assert.Equal(t, "/flag/lex.def", cfg.LexerDefinitionPath)
	assert.True(t, cfg.Trace)
}
