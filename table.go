// table.go: the content-addressed hash table, doubling as map and
// prototype-chained object/environment.
//
// Open addressing with linear probing. Keys are Symbol/Text/Bytes values
// compared and hashed by buffer content (FNV-1a), never by identity. The
// load factor is kept at or below one half, checked proactively before any
// insertion. Deletion is backward-shift: succeeding entries move into the
// vacated slot so that every occupied slot stays reachable from its hash
// position by unbroken probing, with no tombstones.
//
// Slot arrays are carved from the arena and replaced wholesale on resize;
// the old array is freed immediately and is not itself a tracked value.
package skald

import "bytes"

const defaultTableCapacity = 8

type slot struct {
	key   *Value
	value *Value
}

// Table is the open-addressing map. The prototype is an optional fallback
// table consulted on a local lookup miss; the link is non-owning, so tables
// may reference each other without manufacturing ownership cycles.
type Table struct {
	h         *Heap
	slots     []slot
	count     int
	prototype *Table
}

func newTable(h *Heap, capacity int, prototype *Table) *Table {
	if capacity < defaultTableCapacity {
		capacity = defaultTableCapacity
	}
	return &Table{
		h:         h,
		slots:     arenaSlice[slot](h.arena, capacity),
		prototype: prototype,
	}
}

// fnv1a hashes raw byte content: XOR each byte into the running value, then
// multiply by the FNV prime.
func fnv1a(b []byte) uint64 {
	const (
		offsetBasis = 14695981039346656037
		prime       = 1099511628211
	)
	h := uint64(offsetBasis)
	for _, c := range b {
		h ^= uint64(c)
		h *= prime
	}
	return h
}

func keysEqual(a, b *Value) bool {
	return bytes.Equal(Content(a), Content(b))
}

// Count reports the number of live entries.
func (t *Table) Count() int { return t.count }

// Capacity reports the current slot-array size.
func (t *Table) Capacity() int { return len(t.slots) }

// Prototype returns the delegation target, which may be nil.
func (t *Table) Prototype() *Table { return t.prototype }

// SetPrototype installs a delegation target for lookup misses.
func (t *Table) SetPrototype(p *Table) { t.prototype = p }

// Set binds key to value, overwriting an existing content-equal key. The
// table grows only before an insertion that would push the live count past
// half of capacity; an overwrite never resizes.
func (t *Table) Set(key, value *Value) {
	i := t.home(key)
	for t.slots[i].key != nil {
		if keysEqual(t.slots[i].key, key) {
			t.slots[i].value = value
			return
		}
		i = t.next(i)
	}

	if 2*(t.count+1) > len(t.slots) {
		t.grow()
		i = t.home(key)
		for t.slots[i].key != nil {
			i = t.next(i)
		}
	}
	t.slots[i] = slot{key: key, value: value}
	t.count++
}

// Get resolves key by linear probing. A local miss falls through to the
// prototype chain; a terminal miss yields the canonical nil value, never an
// error.
func (t *Table) Get(key *Value) *Value {
	i := t.home(key)
	for {
		s := &t.slots[i]
		if s.key == nil {
			if t.prototype != nil {
				return t.prototype.Get(key)
			}
			return t.h.Nil()
		}
		if keysEqual(s.key, key) {
			if s.value == nil {
				return t.h.Nil()
			}
			return s.value
		}
		i = t.next(i)
	}
}

// Has reports whether key is present in this table alone, ignoring the
// prototype chain.
func (t *Table) Has(key *Value) bool {
	i := t.home(key)
	for {
		s := &t.slots[i]
		if s.key == nil {
			return false
		}
		if keysEqual(s.key, key) {
			return true
		}
		i = t.next(i)
	}
}

// Delete removes key from this table only; the prototype is never touched.
// A missing key is a no-op. Succeeding probe-sequence entries are shifted
// back to close the gap.
func (t *Table) Delete(key *Value) {
	i := t.home(key)
	for {
		s := &t.slots[i]
		if s.key == nil {
			return
		}
		if keysEqual(s.key, key) {
			break
		}
		i = t.next(i)
	}

	t.slots[i] = slot{}
	t.count--

	j := i
	for {
		j = t.next(j)
		s := t.slots[j]
		if s.key == nil {
			return
		}
		k := t.homeOf(Content(s.key))
		// An entry whose home lies cyclically in (i, j] cannot move past
		// its own probe origin; everything else shifts into the gap.
		inGap := false
		if i <= j {
			inGap = i < k && k <= j
		} else {
			inGap = i < k || k <= j
		}
		if inGap {
			continue
		}
		t.slots[i] = s
		t.slots[j] = slot{}
		i = j
	}
}

func (t *Table) home(key *Value) int { return t.homeOf(Content(key)) }

func (t *Table) homeOf(content []byte) int {
	return int(fnv1a(content) % uint64(len(t.slots)))
}

func (t *Table) next(i int) int { return (i + 1) % len(t.slots) }

// grow doubles capacity and rehashes every live entry into a fresh slot
// array; the old array goes straight back to the arena.
func (t *Table) grow() {
	old := t.slots
	t.slots = arenaSlice[slot](t.h.arena, 2*len(old))
	for _, s := range old {
		if s.key == nil {
			continue
		}
		i := t.home(s.key)
		for t.slots[i].key != nil {
			i = t.next(i)
		}
		t.slots[i] = s
	}
	arenaRelease(t.h.arena, old)
}

// release frees the slot array at teardown.
func (t *Table) release() {
	arenaRelease(t.h.arena, t.slots)
	t.slots = nil
	t.count = 0
}
