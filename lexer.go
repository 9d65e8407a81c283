// lexer.go: byte buffer in, flat token sequence out.
//
// Grammar, longest match:
//
//	number  optional '+'/'-' then one or more decimal digits; must be
//	        followed by whitespace, ')' or end of input
//	string  '"' verbatim bytes '"'; no escape processing; quotes consumed
//	        but excluded from the token content
//	paren   '(' or ')', single byte
//	symbol  any other run of bytes up to whitespace, ')' or end of input
//
// Whitespace (space, tab, newline) separates tokens and is never emitted.
// Parentheses are not matched here.
//
// The lexer has two modes. In final mode the end of the buffer is the end
// of the stream: an unterminated string is a fatal lex error and end of
// input is a valid separator after a number or symbol. In streaming mode
// the buffer may still grow, so a token cut off by the end of the buffer is
// withheld rather than emitted or rejected; the reader fetches more bytes
// and re-lexes from the token's start.
package skald

// TokenType is the kind of a lexical token.
type TokenType int

const (
	LPAREN TokenType = iota
	RPAREN
	NUMBER
	STRING
	SYMBOL
)

func (t TokenType) String() string {
	switch t {
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	case NUMBER:
		return "number"
	case STRING:
		return "string"
	case SYMBOL:
		return "symbol"
	default:
		return "token"
	}
}

// Token is one lexical token. Text is the logical content: for strings the
// surrounding quotes are already stripped. Pos and End are byte offsets of
// the token in the input, quotes included.
type Token struct {
	Type TokenType
	Text []byte
	Pos  int
	End  int
}

// Lexer scans one contiguous byte buffer with a cursor.
type Lexer struct {
	input     []byte
	pos       int
	streaming bool
	tokens    []Token
}

// NewLexer builds a final-mode lexer: the buffer holds the whole stream.
func NewLexer(input []byte) *Lexer { return &Lexer{input: input} }

// NewStreamingLexer builds a lexer for a buffer that may still grow.
func NewStreamingLexer(input []byte) *Lexer {
	return &Lexer{input: input, streaming: true}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.input) }

func (l *Lexer) peek() (byte, bool) {
	if l.atEnd() {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *Lexer) advance() byte {
	b := l.input[l.pos]
	l.pos++
	return b
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isSeparator reports whether b may legally follow a token.
func isSeparator(b byte) bool { return isSpace(b) || b == ')' }

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peek()
		if !ok || !isSpace(b) {
			return
		}
		l.pos++
	}
}

func (l *Lexer) emit(tt TokenType, text []byte, start int) {
	l.tokens = append(l.tokens, Token{Type: tt, Text: text, Pos: start, End: l.pos})
}

// Scan tokenizes the whole buffer. Each scanner reports done=false when a
// streaming-mode token was cut off by the end of the buffer; scanning stops
// there and the withheld bytes are left for the next pass.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipWhitespace()
		if l.atEnd() {
			return l.tokens, nil
		}

		start := l.pos
		b := l.advance()

		var done bool
		var err error
		switch {
		case b == '(':
			l.emit(LPAREN, l.input[start:l.pos], start)
			done = true
		case b == ')':
			l.emit(RPAREN, l.input[start:l.pos], start)
			done = true
		case b == '"':
			done, err = l.scanString(start)
		case isDigit(b) || ((b == '+' || b == '-') && l.startsNumber()):
			done, err = l.scanNumber(start)
		default:
			done = l.scanSymbol(start)
		}
		if err != nil {
			return nil, err
		}
		if !done {
			return l.tokens, nil
		}
	}
}

// startsNumber reports whether the byte after a leading sign is a digit.
// A lone sign at the end of a streaming buffer counts as a number start so
// the cut-off token is withheld instead of lexed as a symbol.
func (l *Lexer) startsNumber() bool {
	b, ok := l.peek()
	if !ok {
		return l.streaming
	}
	return isDigit(b)
}

func (l *Lexer) scanString(start int) (bool, error) {
	for {
		b, ok := l.peek()
		if !ok {
			if l.streaming {
				return false, nil // closing quote may arrive later
			}
			return false, errLex("string was not terminated", start)
		}
		l.pos++
		if b == '"' {
			l.emit(STRING, l.input[start+1:l.pos-1], start)
			return true, nil
		}
	}
}

func (l *Lexer) scanNumber(start int) (bool, error) {
	for {
		b, ok := l.peek()
		if !ok {
			if l.streaming {
				return false, nil // more digits may arrive later
			}
			l.emit(NUMBER, l.input[start:l.pos], start)
			return true, nil
		}
		if isDigit(b) {
			l.pos++
			continue
		}
		if !isSeparator(b) {
			return false, errLex("number not followed by a separator", l.pos)
		}
		l.emit(NUMBER, l.input[start:l.pos], start)
		return true, nil
	}
}

func (l *Lexer) scanSymbol(start int) bool {
	for {
		b, ok := l.peek()
		if !ok {
			if l.streaming {
				return false // the run may continue in the next read
			}
			break
		}
		if isSeparator(b) {
			break
		}
		l.pos++
	}
	l.emit(SYMBOL, l.input[start:l.pos], start)
	return true
}
