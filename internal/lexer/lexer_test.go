package lexer

import (
	"testing"

	"github.com/riscc32/ppjc/internal/ictiobus/types"
	"github.com/riscc32/ppjc/internal/lexspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpec = `
{DIGIT} 0|1|2|3|4|5|6|7|8|9
{LETTER} a|b|c|d|e|f|g|h|i|j|k|l|m|n|o|p|q|r|s|t|u|v|w|x|y|z
%X DEFAULT
%L INT_LIT IDN

<DEFAULT>\_ { - }
<DEFAULT>\n { NOVI_REDAK }
<DEFAULT>{DIGIT}{DIGIT}* { INT_LIT }
<DEFAULT>{LETTER}{LETTER}* { IDN }
`

func TestRuntimeScanAll(t *testing.T) {
	spec, err := lexspec.Generate(sampleSpec)
	require.NoError(t, err)

	rt := New(spec, "foo 42 bar")
	tokens, diags := rt.ScanAll()

	require.Empty(t, diags)
	require.Len(t, tokens, 4) // foo, 42, bar, EOT

	assert.Equal(t, "foo", tokens[0].Lexeme())
	assert.Equal(t, "IDN", tokens[0].Class().ID())
	assert.Equal(t, "42", tokens[1].Lexeme())
	assert.Equal(t, "INT_LIT", tokens[1].Class().ID())
	assert.Equal(t, "bar", tokens[2].Lexeme())
	assert.Equal(t, types.TokenEndOfText.ID(), tokens[3].Class().ID())
}

func TestRuntimeSymbolTableDedup(t *testing.T) {
	spec, err := lexspec.Generate(sampleSpec)
	require.NoError(t, err)

	rt := New(spec, "foo foo bar")
	tokens, _ := rt.ScanAll()

	assert.Equal(t, tokens[0].SymbolIndex, tokens[1].SymbolIndex)
	assert.NotEqual(t, tokens[0].SymbolIndex, tokens[2].SymbolIndex)
	assert.Equal(t, 2, rt.SymbolTable().Len())
}

func TestRuntimeUnrecognizedChar(t *testing.T) {
	spec, err := lexspec.Generate(sampleSpec)
	require.NoError(t, err)

	rt := New(spec, "foo#bar")
	tokens, diags := rt.ScanAll()

	require.Len(t, diags, 1)
	assert.Equal(t, "foo", tokens[0].Lexeme())
	assert.Equal(t, "bar", tokens[1].Lexeme())
}

func TestRuntimeNewlineTracking(t *testing.T) {
	spec, err := lexspec.Generate(sampleSpec)
	require.NoError(t, err)

	rt := New(spec, "foo\nbar")
	tokens, _ := rt.ScanAll()

	require.Len(t, tokens, 3)
	assert.Equal(t, 1, tokens[0].Line())
	assert.Equal(t, 2, tokens[1].Line())
}

const stringSpec = `
{LETTER} a|b|c|d|e|f|g|h|i|j|k|l|m|n|o|p|q|r|s|t|u|v|w|x|y|z
%X DEFAULT NIZ
%L IDN NIZ_ZNAKOVA
%STR NIZ NIZ_ZNAKOVA

<DEFAULT>\_ { - }
<DEFAULT>{LETTER}{LETTER}* { IDN }
<DEFAULT>" { UDJI_U_STANJE NIZ; VRATI_SE 0 }
<NIZ>"({LETTER})*" { NIZ_ZNAKOVA; UDJI_U_STANJE DEFAULT }
`

func TestRuntimeStringLiteral(t *testing.T) {
	spec, err := lexspec.Generate(stringSpec)
	require.NoError(t, err)

	rt := New(spec, `foo "abc" bar`)
	tokens, diags := rt.ScanAll()

	require.Empty(t, diags)
	require.Len(t, tokens, 4) // foo, "abc", bar, EOT
	assert.Equal(t, "foo", tokens[0].Lexeme())
	assert.Equal(t, `"abc"`, tokens[1].Lexeme())
	assert.Equal(t, "NIZ_ZNAKOVA", tokens[1].Class().ID())
	assert.Equal(t, "bar", tokens[2].Lexeme())
}

func TestRuntimeEmptyStringLiteral(t *testing.T) {
	spec, err := lexspec.Generate(stringSpec)
	require.NoError(t, err)

	rt := New(spec, `""`)
	tokens, diags := rt.ScanAll()

	require.Empty(t, diags)
	require.Len(t, tokens, 2) // "", EOT
	assert.Equal(t, `""`, tokens[0].Lexeme())
	assert.Equal(t, "NIZ_ZNAKOVA", tokens[0].Class().ID())
}

func TestRuntimeUnterminatedString(t *testing.T) {
	spec, err := lexspec.Generate(stringSpec)
	require.NoError(t, err)

	rt := New(spec, "foo \"abc\nbar")
	tokens, diags := rt.ScanAll()

	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Human(), "unterminated string literal")
	assert.Equal(t, "foo", tokens[0].Lexeme())
	// recovery discards through the newline and resumes scanning in DEFAULT.
	assert.Equal(t, "bar", tokens[1].Lexeme())
}
