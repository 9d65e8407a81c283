package skald

import (
	"bytes"
	"testing"
)

func Test_Arena_allocations_do_not_overlap(t *testing.T) {
	a := NewArena(4096)

	p := a.Allocate(16)
	q := a.Allocate(32)
	r := a.Allocate(64)

	for i := range p {
		p[i] = 0xAA
	}
	for i := range q {
		q[i] = 0xBB
	}
	for i := range r {
		r[i] = 0xCC
	}

	for i, b := range p {
		if b != 0xAA {
			t.Fatalf("p[%d] clobbered: %#x", i, b)
		}
	}
	for i, b := range q {
		if b != 0xBB {
			t.Fatalf("q[%d] clobbered: %#x", i, b)
		}
	}
	for i, b := range r {
		if b != 0xCC {
			t.Fatalf("r[%d] clobbered: %#x", i, b)
		}
	}
}

func Test_Arena_split_on_allocate(t *testing.T) {
	a := NewArena(1024)

	if got := a.countBlocks(); got != 1 {
		t.Fatalf("fresh arena should hold one block, got %d", got)
	}
	_ = a.Allocate(64)
	if got := a.countBlocks(); got != 2 {
		t.Fatalf("allocation should split the free block, got %d blocks", got)
	}
	if got := a.Used(); got != blockHeaderSize+64 {
		t.Fatalf("Used() = %d, want %d", got, blockHeaderSize+64)
	}
}

func Test_Arena_coalesce_both_directions(t *testing.T) {
	a := NewArena(4096)

	p := a.Allocate(64)
	q := a.Allocate(64)
	r := a.Allocate(64)

	// Free the middle last so it has to merge with both neighbours.
	a.Deallocate(p)
	a.Deallocate(r)
	a.Deallocate(q)

	if got := a.Used(); got != 0 {
		t.Fatalf("Used() = %d after freeing everything", got)
	}
	if got := a.countBlocks(); got != 1 {
		t.Fatalf("free blocks did not coalesce: %d blocks remain", got)
	}
}

func Test_Arena_churn_does_not_fragment(t *testing.T) {
	a := NewArena(4096)

	for i := 0; i < 100; i++ {
		p := a.Allocate(100)
		q := a.Allocate(200)
		a.Deallocate(p)
		a.Deallocate(q)
	}
	if got := a.Used(); got != 0 {
		t.Fatalf("Used() = %d after churn", got)
	}
	if got := a.countBlocks(); got != 1 {
		t.Fatalf("churn fragmented the arena into %d blocks", got)
	}
}

func Test_Arena_reallocate_preserves_content(t *testing.T) {
	a := NewArena(4096)

	p := a.Allocate(16)
	copy(p, "hello")
	q := a.Reallocate(p, 256)
	if len(q) < 256 {
		t.Fatalf("Reallocate returned %d bytes, want at least 256", len(q))
	}
	if !bytes.Equal(q[:5], []byte("hello")) {
		t.Fatalf("content lost across Reallocate: %q", q[:5])
	}
	a.Deallocate(q)
	if got := a.Used(); got != 0 {
		t.Fatalf("Used() = %d after final Deallocate", got)
	}
}

func Test_Arena_exhaustion_raises_memory_diagnostic(t *testing.T) {
	a := NewArena(MinimumMemory)

	defer func() {
		e, ok := recover().(*Error)
		if !ok {
			t.Fatalf("expected a panicking *Error, got %#v", e)
		}
		if e.Kind != DiagMemory {
			t.Fatalf("expected DiagMemory, got %v", e.Kind)
		}
	}()
	a.Allocate(1 << 20)
	t.Fatal("oversized allocation did not panic")
}

func Test_Arena_typed_slice_carving(t *testing.T) {
	a := NewArena(4096)

	s := arenaSlice[slot](a, 8)
	if len(s) != 8 {
		t.Fatalf("arenaSlice length = %d, want 8", len(s))
	}
	for i := range s {
		if s[i].key != nil || s[i].value != nil {
			t.Fatalf("slot %d not zeroed: %#v", i, s[i])
		}
	}
	arenaRelease(a, s)
	if got := a.Used(); got != 0 {
		t.Fatalf("Used() = %d after arenaRelease", got)
	}
}
