package skald

import "testing"

func parseOne(t *testing.T, h *Heap, src string) *Value {
	t.Helper()
	toks, err := NewLexer([]byte(src)).Scan()
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	v, err := newParser(h, toks).parseTop()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return v
}

func Test_Parser_leaves(t *testing.T) {
	h := newTestHeap(t)

	wantInteger(t, parseOne(t, h, "42"), 42)
	wantInteger(t, parseOne(t, h, "-17"), -17)

	v := parseOne(t, h, `"hello"`)
	if v.Tag != VTText || string(v.Bytes) != "hello" {
		t.Fatalf("want text hello, got %#v", v)
	}

	v = parseOne(t, h, "foo-bar")
	if v.Tag != VTSymbol || string(v.Bytes) != "foo-bar" {
		t.Fatalf("want symbol foo-bar, got %#v", v)
	}
}

func Test_Parser_nested_lists(t *testing.T) {
	h := newTestHeap(t)

	v := parseOne(t, h, "(1 (2 3) x)")
	if v.Tag != VTList {
		t.Fatalf("want a list, got %#v", v)
	}
	wantInteger(t, v.First, 1)

	inner := v.Rest.First
	if inner.Tag != VTList {
		t.Fatalf("second element should be a list, got %#v", inner)
	}
	wantInteger(t, inner.First, 2)
	wantInteger(t, inner.Rest.First, 3)
	if !IsNil(inner.Rest.Rest) {
		t.Fatalf("inner list not terminated: %#v", inner.Rest.Rest)
	}

	last := v.Rest.Rest.First
	if last.Tag != VTSymbol || string(last.Bytes) != "x" {
		t.Fatalf("third element should be symbol x, got %#v", last)
	}
	if !IsNil(v.Rest.Rest.Rest) {
		t.Fatalf("outer list not terminated: %#v", v.Rest.Rest.Rest)
	}
}

func Test_Parser_empty_list_is_nil(t *testing.T) {
	h := newTestHeap(t)

	v := parseOne(t, h, "()")
	if !IsNil(v) {
		t.Fatalf("() should parse to nil, got %#v", v)
	}
}

func Test_Parser_stray_rparen(t *testing.T) {
	h := newTestHeap(t)
	toks := scanAll(t, ") 1")
	_, err := newParser(h, toks).parseTop()
	wantErrKind(t, err, DiagParse)
}

func Test_Parser_open_list_reports_incomplete(t *testing.T) {
	h := newTestHeap(t)
	toks := scanAll(t, "(1 2 ")
	_, err := newParser(h, toks).parseTop()
	if !IsIncomplete(err) {
		t.Fatalf("want DiagIncomplete, got %v", err)
	}
}

func Test_Parser_clean_end_of_input(t *testing.T) {
	h := newTestHeap(t)
	v, err := newParser(h, nil).parseTop()
	if v != nil || err != nil {
		t.Fatalf("empty token stream should yield (nil, nil), got %#v %v", v, err)
	}
}

func Test_Parser_consumed_end_tracks_last_token(t *testing.T) {
	h := newTestHeap(t)
	toks := scanAll(t, "(1 2) tail")
	p := newParser(h, toks)
	if _, err := p.parseTop(); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := p.consumedEnd(); got != 5 {
		t.Fatalf("consumedEnd = %d, want 5", got)
	}
}
