// parser.go: flat token sequence in, one nested value tree out.
//
// Recursive descent over a destructively consumed token cursor. '(' opens a
// list built as a chain of cons cells; any other token is a leaf: numbers
// become Integer, strings become Text, everything else becomes Symbol.
//
// Running out of tokens inside an open list is not fatal: it reports
// DiagIncomplete so the reader can fetch more input and retry the parse
// from the same point. Running out of tokens at the top level is a clean
// end of input. A stray ')' is a fatal parse error in every mode.
package skald

// parser consumes toks left to right; i is the cursor.
type parser struct {
	h    *Heap
	toks []Token
	i    int
}

func newParser(h *Heap, toks []Token) *parser {
	return &parser{h: h, toks: toks}
}

func (p *parser) atEnd() bool { return p.i >= len(p.toks) }

func (p *parser) next() Token {
	t := p.toks[p.i]
	p.i++
	return t
}

// parseTop parses exactly one top-level value. It returns (nil, nil) on a
// clean end of input with no tokens left.
func (p *parser) parseTop() (*Value, error) {
	if p.atEnd() {
		return nil, nil
	}
	return p.parseValue()
}

func (p *parser) parseValue() (*Value, error) {
	t := p.next()
	switch t.Type {
	case LPAREN:
		return p.parseList(t)
	case RPAREN:
		return nil, errParse("unexpected ')'", t.Pos)
	case NUMBER:
		return p.h.NewInteger(ParseInteger(t.Text)), nil
	case STRING:
		return p.h.NewText(t.Text), nil
	default:
		return p.h.NewSymbol(t.Text), nil
	}
}

// parseList consumes elements until the matching ')'. The list grows as a
// chain ending in a fresh nil cell; an empty list is just that nil cell.
func (p *parser) parseList(open Token) (*Value, error) {
	head := p.h.NewNil()
	tail := head
	for {
		if p.atEnd() {
			return nil, errIncomplete("unterminated list", open.Pos)
		}
		if p.toks[p.i].Type == RPAREN {
			p.i++
			return head, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		tail.First = v
		tail.Rest = p.h.NewNil()
		tail = tail.Rest
	}
}

// consumedEnd reports the End offset of the last consumed token. Valid only
// after a successful parseTop that returned a value.
func (p *parser) consumedEnd() int {
	return p.toks[p.i-1].End
}
