// heap.go: the value store and the single factory path for values.
//
// Every value ever created is appended to the heap's registry. Nothing is
// reclaimed mid-run; the registry exists so Teardown can release every
// arena buffer and table slot array in one bulk pass instead of tracing
// reachability. The registry also pins values against the Go collector:
// table slot arrays live in arena bytes the collector cannot scan, so the
// pointers they hold must stay reachable through this list.
package skald

// Heap is the process-scoped value store. One heap per interpreter; it is
// confined to the interpreter's single thread of control.
type Heap struct {
	arena  *Arena
	values []*Value

	// canonical nil, returned by lookup misses
	nilValue *Value
}

// NewHeap builds a value store over the given arena.
func NewHeap(a *Arena) *Heap {
	h := &Heap{arena: a}
	h.nilValue = h.NewNil()
	return h
}

// Arena exposes the backing allocator for transient raw buffers.
func (h *Heap) Arena() *Arena { return h.arena }

// Nil returns the canonical nil value. Use NewNil for list terminators,
// which get mutated into cons cells while lists grow.
func (h *Heap) Nil() *Value { return h.nilValue }

func (h *Heap) register(v *Value) *Value {
	h.values = append(h.values, v)
	return v
}

// NewNil creates a fresh nil list cell.
func (h *Heap) NewNil() *Value {
	return h.register(&Value{Tag: VTList})
}

// NewList creates a cons cell.
func (h *Heap) NewList(first, rest *Value) *Value {
	return h.register(&Value{Tag: VTList, First: first, Rest: rest})
}

// NewSymbol creates a symbol owning a copy of b.
func (h *Heap) NewSymbol(b []byte) *Value { return h.newBuffer(VTSymbol, b) }

// NewText creates a text value owning a copy of b.
func (h *Heap) NewText(b []byte) *Value { return h.newBuffer(VTText, b) }

// NewBytes creates a raw binary value owning a copy of b.
func (h *Heap) NewBytes(b []byte) *Value { return h.newBuffer(VTBytes, b) }

// NewInteger creates an integer value.
func (h *Heap) NewInteger(n int64) *Value {
	return h.register(&Value{Tag: VTInteger, Integer: n})
}

// NewPointer creates an opaque pointer value.
func (h *Heap) NewPointer(p uintptr) *Value {
	return h.register(&Value{Tag: VTPointer, Pointer: p})
}

// NewTable creates a table value with the given initial capacity and an
// optional prototype for lookup delegation. The prototype link is a plain
// reference, never an ownership edge.
func (h *Heap) NewTable(capacity int, prototype *Table) *Value {
	t := newTable(h, capacity, prototype)
	return h.register(&Value{Tag: VTTable, Table: t})
}

// newBuffer copies content into an arena buffer sized exactly to it.
func (h *Heap) newBuffer(tag ValueTag, b []byte) *Value {
	var buf []byte
	if len(b) > 0 {
		buf = h.arena.Allocate(len(b))[:len(b)]
		copy(buf, b)
	}
	return h.register(&Value{Tag: tag, Bytes: buf})
}

// Teardown releases every buffer and slot array owned by registered values
// back to the arena in one pass, then empties the registry. It is the only
// reclamation path for values; during normal operation they are immortal.
func (h *Heap) Teardown() {
	for _, v := range h.values {
		switch v.Tag {
		case VTSymbol, VTText, VTBytes:
			if len(v.Bytes) > 0 {
				h.arena.Deallocate(v.Bytes)
				v.Bytes = nil
			}
		case VTTable:
			if v.Table != nil {
				v.Table.release()
				v.Table = nil
			}
		}
	}
	h.values = h.values[:0]
}
