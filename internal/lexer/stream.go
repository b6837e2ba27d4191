package lexer

import "github.com/riscc32/ppjc/internal/ictiobus/types"

// stream adapts a fully-drained token slice (the product of ScanAll) to
// types.TokenStream, matching the engine's single-shot lexing contract: the
// parser consumes a pre-computed slice rather than pulling from a live
// scanner.
type stream struct {
	tokens []Token
	pos    int
}

// NewStream wraps a slice of scanned tokens (as returned by ScanAll) for
// consumption by a parser.
func NewStream(tokens []Token) types.TokenStream {
	return &stream{tokens: tokens}
}

func (s *stream) Next() types.Token {
	tok := s.tokens[s.pos]
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return tok.Token
}

func (s *stream) Peek() types.Token {
	return s.tokens[s.pos].Token
}

func (s *stream) HasNext() bool {
	return s.pos < len(s.tokens)-1 || s.tokens[s.pos].Class().ID() != types.TokenEndOfText.ID()
}
