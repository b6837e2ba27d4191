package lexspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpec = `
{DIGIT} 0|1|2|3|4|5|6|7|8|9
%X DEFAULT
%L INT_LIT IDN

<DEFAULT>\_ { - }
<DEFAULT>{DIGIT}{DIGIT}* { INT_LIT }
<DEFAULT>a(b|c)* { IDN }
`

func TestGenerateBasic(t *testing.T) {
	spec, err := Generate(sampleSpec)
	require.NoError(t, err)

	assert.Equal(t, []string{"DEFAULT"}, spec.States)
	assert.Equal(t, "DEFAULT", spec.StartState)
	assert.Contains(t, spec.DFAs, "DEFAULT")

	dfa := spec.DFAs["DEFAULT"]
	assert.NotEmpty(t, dfa.Start)
}

func TestGenerateRuleActions(t *testing.T) {
	spec, err := Generate(sampleSpec)
	require.NoError(t, err)

	require.Len(t, spec.Rules, 3)
	assert.Empty(t, spec.Rules[0].Actions)
	assert.Equal(t, "INT_LIT", spec.Rules[1].Actions[0].ClassID)
}

func TestGenerateMacroExpansion(t *testing.T) {
	spec, err := Generate(`
%X DEFAULT
{D} 0|1
<DEFAULT>{D}{D}* { NUM }
`)
	require.NoError(t, err)
	assert.Contains(t, spec.Rules[0].Pattern, "0|1")
}

func TestGenerateUndefinedMacro(t *testing.T) {
	_, err := Generate(`
%X DEFAULT
<DEFAULT>{MISSING} { TOK }
`)
	assert.Error(t, err)
}

func TestGenerateNoStates(t *testing.T) {
	_, err := Generate(`{D} [0-9]`)
	assert.Error(t, err)
}
