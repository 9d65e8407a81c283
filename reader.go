// reader.go: owns the input buffer and drives the read → lex → parse loop
// until one top-level value is produced or the stream ends.
//
// The buffer is a raw arena allocation that doubles (via Reallocate)
// whenever a read fills it completely, since a full read suggests more data
// may follow. A byte cursor marks where the last fully consumed token
// ended; everything after it, including any token withheld by the
// streaming lexer, is re-lexed on the next attempt, which is how leftover
// tokens are carried between parse attempts.
//
// The end of the stream is a raw read returning zero bytes. Until then the
// lexer runs in streaming mode and an incomplete parse just means "read
// more"; after it, the final lex and parse decide between a clean end of
// input and a fatal mid-expression truncation.
package skald

import (
	"errors"
	"io"
)

// ByteSource is the narrow read primitive the reader pulls from. A return
// of (0, nil) or io.EOF marks the end of the stream; any other error is a
// fatal I/O failure.
type ByteSource interface {
	Read(p []byte) (int, error)
}

// Reader turns a byte stream into a sequence of top-level values.
type Reader struct {
	h   *Heap
	src ByteSource

	buf       []byte // arena-owned
	filled    int    // bytes of buf holding input
	parsePos  int    // offset where unconsumed input begins
	exhausted bool   // the source reported end of stream
	finished  bool   // the final clean end of input was observed
}

// NewReader builds a reader with an arena-allocated buffer of the given
// initial size.
func NewReader(h *Heap, src ByteSource, bufSize int) *Reader {
	if bufSize < 64 {
		bufSize = 64
	}
	return &Reader{h: h, src: src, buf: h.arena.Allocate(bufSize)}
}

// Finished reports whether the stream reached a clean end of input.
func (r *Reader) Finished() bool { return r.finished }

// Read produces exactly one fully parsed top-level value, or (nil, nil)
// once the stream has cleanly ended. Fatal lex, parse and I/O conditions
// are returned as *Error.
func (r *Reader) Read() (*Value, error) {
	if r.finished {
		return nil, nil
	}
	for {
		if !r.exhausted {
			if err := r.fill(); err != nil {
				return nil, err
			}
		}

		toks, err := r.lex()
		if err != nil {
			return nil, err
		}

		p := newParser(r.h, toks)
		v, perr := p.parseTop()
		switch {
		case perr != nil && IsIncomplete(perr):
			if !r.exhausted {
				continue
			}
			return nil, errParse("input ended inside an open list", r.parsePos)
		case perr != nil:
			return nil, perr
		case v == nil:
			if r.exhausted {
				r.finished = true
				return nil, nil
			}
			continue
		default:
			r.parsePos = p.consumedEnd()
			return v, nil
		}
	}
}

// lex tokenizes the unconsumed region, streaming while the source lives.
func (r *Reader) lex() ([]Token, error) {
	region := r.buf[r.parsePos:r.filled]
	var l *Lexer
	if r.exhausted {
		l = NewLexer(region)
	} else {
		l = NewStreamingLexer(region)
	}
	toks, err := l.Scan()
	if err != nil {
		if le, ok := err.(*Error); ok {
			le.Pos += r.parsePos
		}
		return nil, err
	}
	for i := range toks {
		toks[i].Pos += r.parsePos
		toks[i].End += r.parsePos
	}
	return toks, nil
}

// fill performs one raw read of up to the buffer's free space, doubling the
// buffer first whenever a previous read filled it completely.
func (r *Reader) fill() error {
	if r.filled == len(r.buf) {
		r.buf = r.h.arena.Reallocate(r.buf, 2*len(r.buf))
	}
	n, err := r.src.Read(r.buf[r.filled:])
	if n > 0 {
		r.filled += n
	}
	switch {
	case err == nil && n == 0:
		r.exhausted = true
	case errors.Is(err, io.EOF):
		r.exhausted = true
	case err != nil:
		var de *Error
		if errors.As(err, &de) {
			return de
		}
		return &Error{Kind: DiagIO, Msg: err.Error(), Pos: -1}
	}
	return nil
}

// release returns the input buffer to the arena. The reader must not be
// used afterwards.
func (r *Reader) release() {
	if r.buf != nil {
		r.h.arena.Deallocate(r.buf)
		r.buf = nil
	}
}
