package skald

import "testing"

func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	return NewHeap(NewArena(1 << 20))
}

func Test_Heap_constructors_copy_content(t *testing.T) {
	h := newTestHeap(t)

	src := []byte("key")
	v := h.NewSymbol(src)
	src[0] = 'X'
	if got := string(Content(v)); got != "key" {
		t.Fatalf("symbol shares caller memory: %q", got)
	}
}

func Test_Heap_canonical_nil(t *testing.T) {
	h := newTestHeap(t)

	if h.Nil() != h.Nil() {
		t.Fatal("Nil() must return one canonical value")
	}
	if !IsNil(h.Nil()) {
		t.Fatal("canonical nil fails IsNil")
	}
	if h.NewNil() == h.Nil() {
		t.Fatal("NewNil() must mint a fresh cell, not the canonical nil")
	}
}

func Test_Heap_teardown_releases_everything(t *testing.T) {
	a := NewArena(1 << 16)
	h := NewHeap(a)

	h.NewSymbol([]byte("alpha"))
	h.NewText([]byte("beta"))
	h.NewBytes([]byte{1, 2, 3})
	tv := h.NewTable(defaultTableCapacity, nil)
	for i := byte(0); i < 10; i++ {
		tv.Table.Set(h.NewSymbol([]byte{'k', '0' + i}), h.NewInteger(int64(i)))
	}

	if a.Used() == 0 {
		t.Fatal("expected live arena allocations before teardown")
	}
	h.Teardown()
	if got := a.Used(); got != 0 {
		t.Fatalf("teardown leaked %d arena bytes", got)
	}
}
