// value.go: the dynamic value model.
//
// Value is a closed tagged union. The tag selects which payload fields are
// meaningful:
//
//	VTList     First/Rest; both nil is the nil value, a non-list Rest
//	           makes the list improper (dotted)
//	VTTable    Table
//	VTSymbol   Bytes (identifier content)
//	VTText     Bytes (quoted string content, no escapes)
//	VTBytes    Bytes (raw binary data)
//	VTInteger  Integer
//	VTPointer  Pointer (opaque address-sized value)
//
// Symbol, Text and Bytes share one representation and differ only by tag;
// their equality and hashing are by buffer content, never identity. Buffers
// are owned exclusively by their value and live in the arena; constructors
// always copy caller-supplied content.
package skald

// ValueTag enumerates the variants of the Value union.
type ValueTag int

const (
	VTList ValueTag = iota
	VTTable
	VTSymbol
	VTText
	VTBytes
	VTInteger
	VTPointer
)

func (t ValueTag) String() string {
	switch t {
	case VTList:
		return "list"
	case VTTable:
		return "table"
	case VTSymbol:
		return "symbol"
	case VTText:
		return "text"
	case VTBytes:
		return "bytes"
	case VTInteger:
		return "integer"
	case VTPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Value is the universal runtime carrier. Values are created only through
// the Heap constructors, which register each one in the value store.
type Value struct {
	Tag     ValueTag
	First   *Value
	Rest    *Value
	Table   *Table
	Bytes   []byte
	Integer int64
	Pointer uintptr
}

// IsNil reports whether v is the nil value: a list with both fields absent.
func IsNil(v *Value) bool {
	return v == nil || (v.Tag == VTList && v.First == nil && v.Rest == nil)
}

// Content returns the byte buffer behind a Symbol, Text or Bytes value, and
// nil for every other variant.
func Content(v *Value) []byte {
	if v == nil {
		return nil
	}
	switch v.Tag {
	case VTSymbol, VTText, VTBytes:
		return v.Bytes
	default:
		return nil
	}
}

// ParseInteger reads an optionally signed decimal integer, accumulating
// left to right. Overflow wraps with native two's-complement arithmetic;
// there is deliberately no detection.
func ParseInteger(b []byte) int64 {
	var v int64
	neg := false
	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		neg = b[i] == '-'
		i++
	}
	for ; i < len(b); i++ {
		v = v*10 + int64(b[i]-'0')
	}
	if neg {
		return -v
	}
	return v
}
