// arena.go: the first-fit block allocator behind every byte buffer in the
// runtime.
//
// The arena is one fixed slab of memory subdivided into variable-size blocks
// tracked by an address-ordered doubly linked list of headers. Allocation is
// a linear first-fit scan; a block larger than the request is split when the
// remainder can hold a header plus at least one aligned word. Deallocation
// marks the block free and coalesces it with free neighbours on both sides.
// There are no size-class buckets and no growth: when no block fits, the
// allocator raises DiagMemory, which the interpreter treats as fatal.
//
// Block headers live as Go structs rather than in-band bytes, but each block
// still accounts blockHeaderSize bytes of slab space ahead of its payload,
// so the split/coalesce arithmetic matches an in-band layout exactly.
package skald

import "unsafe"

const (
	arenaAlign      = 8
	blockHeaderSize = 32 // accounted slab footprint of one header
	minBlockSize    = blockHeaderSize + arenaAlign

	// MinimumMemory is the smallest arena New will build.
	MinimumMemory = 4 * minBlockSize
)

// block describes one region of the slab: blockHeaderSize bytes of header
// footprint at off, followed by size payload bytes. The next block's region
// begins at off+blockHeaderSize+size.
type block struct {
	prev, next *block
	free       bool
	off, size  int
}

// Arena owns the slab and the block list. It is not safe for concurrent use;
// one arena belongs to one interpreter thread.
type Arena struct {
	mem    []byte
	blocks *block
}

// NewArena builds an arena over a fresh slab of the given capacity, rounded
// up to MinimumMemory. The slab starts as a single free block.
func NewArena(capacity int) *Arena {
	if capacity < MinimumMemory {
		capacity = MinimumMemory
	}
	capacity = alignUp(capacity)

	// Over-allocate so payloads can be kept 8-aligned regardless of where
	// the Go heap placed the slab.
	raw := make([]byte, capacity+arenaAlign)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	skew := int((arenaAlign - base%arenaAlign) % arenaAlign)
	mem := raw[skew : skew+capacity : skew+capacity]

	a := &Arena{mem: mem}
	a.blocks = &block{free: true, off: 0, size: capacity - blockHeaderSize}
	return a
}

// Allocate returns a payload slice of at least n bytes carved from the first
// free block large enough to hold it. It raises DiagMemory when no block
// fits.
func (a *Arena) Allocate(n int) []byte {
	if n < 1 {
		n = 1
	}
	n = alignUp(n)

	for b := a.blocks; b != nil; b = b.next {
		if !b.free || b.size < n {
			continue
		}
		if rest := b.size - n; rest >= minBlockSize {
			split := &block{
				prev: b,
				next: b.next,
				free: true,
				off:  b.off + blockHeaderSize + n,
				size: rest - blockHeaderSize,
			}
			if b.next != nil {
				b.next.prev = split
			}
			b.next = split
			b.size = n
		}
		b.free = false
		return a.payload(b)
	}
	panic(&Error{Kind: DiagMemory, Msg: "arena exhausted", Pos: -1})
}

// Deallocate returns a payload obtained from Allocate or Reallocate to the
// free list, merging with the following and then the preceding block when
// either is free.
func (a *Arena) Deallocate(p []byte) {
	if len(p) == 0 {
		return
	}
	b := a.blockOf(p)
	b.free = true
	a.mergeNext(b)
	if b.prev != nil && b.prev.free {
		a.mergeNext(b.prev)
	}
}

// Reallocate moves a payload into a fresh block of the new size, copying
// min(len(p), n) bytes. The returned slice generally points elsewhere.
func (a *Arena) Reallocate(p []byte, n int) []byte {
	if len(p) == 0 {
		return a.Allocate(n)
	}
	np := a.Allocate(n)
	copy(np, p)
	a.Deallocate(p)
	return np
}

// Used reports the slab bytes held by live blocks, headers included.
func (a *Arena) Used() int {
	used := 0
	for b := a.blocks; b != nil; b = b.next {
		if !b.free {
			used += blockHeaderSize + b.size
		}
	}
	return used
}

// Capacity reports the total slab size.
func (a *Arena) Capacity() int { return len(a.mem) }

func (a *Arena) payload(b *block) []byte {
	start := b.off + blockHeaderSize
	return a.mem[start : start+b.size : start+b.size]
}

func (a *Arena) mergeNext(b *block) {
	n := b.next
	if n == nil || !n.free {
		return
	}
	b.size += blockHeaderSize + n.size
	b.next = n.next
	if n.next != nil {
		n.next.prev = b
	}
}

// blockOf recovers the block owning a payload slice by its slab offset.
func (a *Arena) blockOf(p []byte) *block {
	off := a.offsetOf(p) - blockHeaderSize
	for b := a.blocks; b != nil; b = b.next {
		if b.off == off {
			return b
		}
	}
	panic(&Error{Kind: DiagMemory, Msg: "deallocate of unknown block", Pos: -1})
}

func (a *Arena) offsetOf(p []byte) int {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.mem)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	return int(ptr - base)
}

func (a *Arena) countBlocks() int {
	n := 0
	for b := a.blocks; b != nil; b = b.next {
		n++
	}
	return n
}

func alignUp(n int) int { return (n + arenaAlign - 1) &^ (arenaAlign - 1) }

// arenaSlice carves a typed slice for n elements out of the arena. The
// backing bytes are invisible to the garbage collector, so any pointers
// stored in the slice must also be reachable elsewhere; the heap's
// append-only value registry provides that pin for table slot arrays.
func arenaSlice[T any](a *Arena, n int) []T {
	var zero T
	elem := int(unsafe.Sizeof(zero))
	mem := a.Allocate(elem * n)
	s := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(mem))), n)
	for i := range s {
		s[i] = zero
	}
	return s
}

// arenaRelease returns a slice obtained from arenaSlice to the arena.
func arenaRelease[T any](a *Arena, s []T) {
	if len(s) == 0 {
		return
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	mem := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), elem*len(s))
	a.Deallocate(mem)
}
