package lexer

// SymbolTable is the ordered list of unique (type, text) lexeme pairs
// produced during a lex run. Tokens with identical (type, text) share the
// same index, giving reproducible golden-output numbering.
type SymbolTable struct {
	entries []symEntry
	index   map[symEntry]int
}

type symEntry struct {
	class string
	text  string
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{index: make(map[symEntry]int)}
}

// Intern returns the index for (class, text), appending a new entry if this
// is the first time the pair has been seen.
func (st *SymbolTable) Intern(class, text string) int {
	key := symEntry{class: class, text: text}
	if idx, ok := st.index[key]; ok {
		return idx
	}
	idx := len(st.entries)
	st.entries = append(st.entries, key)
	st.index[key] = idx
	return idx
}

// Len returns the number of unique entries interned so far.
func (st *SymbolTable) Len() int {
	return len(st.entries)
}

// At returns the (class, text) pair at idx.
func (st *SymbolTable) At(idx int) (class, text string) {
	e := st.entries[idx]
	return e.class, e.text
}
