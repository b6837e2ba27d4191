package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableDeclareAndLookup(t *testing.T) {
	st := NewSymbolTable()
	require.NoError(t, st.Declare(Symbol{Kind: SymVariable, Name: "x", Type: Int}))

	sym, ok := st.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Int, sym.Type)

	err := st.Declare(Symbol{Kind: SymVariable, Name: "x", Type: Char})
	assert.Error(t, err)
}

func TestSymbolTableScoping(t *testing.T) {
	st := NewSymbolTable()
	require.NoError(t, st.Declare(Symbol{Kind: SymVariable, Name: "g", Type: Int}))

	st.OpenChild()
	require.NoError(t, st.Declare(Symbol{Kind: SymVariable, Name: "x", Type: Char}))

	_, ok := st.Lookup("g")
	assert.True(t, ok, "child scope should see parent declarations")

	_, ok = st.LookupLocal("g")
	assert.False(t, ok, "LookupLocal must not walk to parent scopes")

	st.CloseChild()
	_, ok = st.Lookup("x")
	assert.False(t, ok, "closed scope's declarations must not leak to parent")
}

func TestSymbolTableFunctionRedeclaration(t *testing.T) {
	st := NewSymbolTable()
	fn := Function(Int, Char)

	require.NoError(t, st.Declare(Symbol{Kind: SymFunction, Name: "f", Type: fn, Defined: false}))
	require.NoError(t, st.Declare(Symbol{Kind: SymFunction, Name: "f", Type: fn, Defined: true}))

	sym, ok := st.Lookup("f")
	require.True(t, ok)
	assert.True(t, sym.Defined)

	err := st.Declare(Symbol{Kind: SymFunction, Name: "f", Type: fn, Defined: true})
	assert.Error(t, err, "re-defining an already-defined function must fail")

	conflicting := Function(Char, Int)
	err = st.Declare(Symbol{Kind: SymFunction, Name: "f", Type: conflicting})
	assert.Error(t, err, "conflicting signatures must fail")
}

func TestSymbolTableAllSymbolsOrder(t *testing.T) {
	st := NewSymbolTable()
	require.NoError(t, st.Declare(Symbol{Kind: SymFunction, Name: "main", Type: Function(Int)}))
	require.NoError(t, st.Declare(Symbol{Kind: SymVariable, Name: "count", Type: Int}))

	all := st.AllSymbols()
	require.Len(t, all, 2)
	assert.Equal(t, "main", all[0].Name)
	assert.Equal(t, "count", all[1].Name)
}
