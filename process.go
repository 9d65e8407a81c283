// process.go: the process boundary collaborator.
//
// Collects process-provided data into runtime values and installs it into
// the root environment before the read/evaluate/print loop begins:
//
//	arguments    an ordered List of Text values
//	environment  a Table of Text → Text parsed from KEY=VALUE strings
//	auxiliary    a Table of Symbol → (Text|Integer|Pointer|Bytes) parsed
//	             from the kernel's auxiliary vector
//
// The auxiliary vector is read raw from /proc/self/auxv; since it describes
// this very process, the pointer-typed entries may be dereferenced to
// recover the strings and bytes they address. Unrecognized entry types fall
// back to the fixed tag "unknown" with a two-element list of the raw type
// and raw value. A missing or unreadable auxv yields an empty table, since
// this collaborator must not take the runtime down.
package skald

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Fixed root-environment keys for the three process tables.
const (
	KeyArguments   = "arguments"
	KeyEnvironment = "environment"
	KeyAuxiliary   = "auxiliary"
)

// Auxiliary vector entry types, as defined by the Linux ELF ABI.
const (
	auxPhdr     = 3
	auxPageSize = 6
	auxBase     = 7
	auxEntry    = 9
	auxUID      = 11
	auxEUID     = 12
	auxGID      = 13
	auxEGID     = 14
	auxPlatform = 15
	auxHWCap    = 16
	auxClockTck = 17
	auxSecure   = 23
	auxRandom   = 25
	auxExecFn   = 31
)

// InstallProcess builds the three process tables and binds them in env
// under the fixed symbol keys.
func InstallProcess(h *Heap, env *Table, argv, environ []string) {
	env.Set(h.NewSymbol([]byte(KeyArguments)), Arguments(h, argv))
	env.Set(h.NewSymbol([]byte(KeyEnvironment)), Environment(h, environ))
	env.Set(h.NewSymbol([]byte(KeyAuxiliary)), Auxiliary(h))
}

// Arguments converts process arguments into an ordered list of Text values.
func Arguments(h *Heap, argv []string) *Value {
	head := h.NewNil()
	tail := head
	for _, a := range argv {
		tail.First = h.NewText([]byte(a))
		tail.Rest = h.NewNil()
		tail = tail.Rest
	}
	return head
}

// Environment converts KEY=VALUE strings into a Table of Text → Text. A
// string without '=' maps the whole string to an empty Text value.
func Environment(h *Heap, environ []string) *Value {
	v := h.NewTable(2*len(environ), nil)
	t := v.Table
	for _, kv := range environ {
		key, val := kv, ""
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				key, val = kv[:i], kv[i+1:]
				break
			}
		}
		t.Set(h.NewText([]byte(key)), h.NewText([]byte(val)))
	}
	return v
}

// Auxiliary converts the platform auxiliary vector into a Table of
// Symbol → value.
func Auxiliary(h *Heap) *Value {
	v := h.NewTable(defaultTableCapacity, nil)
	t := v.Table
	for _, e := range readAuxiliaryVector() {
		switch e.kind {
		case auxPageSize, auxClockTck, auxUID, auxEUID, auxGID, auxEGID,
			auxSecure, auxHWCap:
			t.Set(h.NewSymbol([]byte(auxName(e.kind))), h.NewInteger(int64(e.value)))
		case auxPhdr, auxBase, auxEntry:
			t.Set(h.NewSymbol([]byte(auxName(e.kind))), h.NewPointer(uintptr(e.value)))
		case auxPlatform, auxExecFn:
			t.Set(h.NewSymbol([]byte(auxName(e.kind))), h.NewText(cstringAt(uintptr(e.value))))
		case auxRandom:
			t.Set(h.NewSymbol([]byte("random")), h.NewBytes(bytesAt(uintptr(e.value), 16)))
		default:
			pair := h.NewList(h.NewInteger(int64(e.kind)),
				h.NewList(h.NewInteger(int64(e.value)), h.NewNil()))
			t.Set(h.NewSymbol([]byte("unknown")), pair)
		}
	}
	return v
}

func auxName(kind uint64) string {
	switch kind {
	case auxPhdr:
		return "program-headers"
	case auxPageSize:
		return "page-size"
	case auxBase:
		return "interpreter-base"
	case auxEntry:
		return "entry-point"
	case auxUID:
		return "user-id"
	case auxEUID:
		return "effective-user-id"
	case auxGID:
		return "group-id"
	case auxEGID:
		return "effective-group-id"
	case auxPlatform:
		return "platform"
	case auxHWCap:
		return "hardware-capabilities"
	case auxClockTck:
		return "clock-tick"
	case auxSecure:
		return "secure"
	case auxExecFn:
		return "executable-path"
	default:
		return "unknown"
	}
}

type auxvEntry struct {
	kind  uint64
	value uint64
}

// readAuxiliaryVector pulls the raw type/value word pairs from
// /proc/self/auxv through the raw read primitive.
func readAuxiliaryVector() []auxvEntry {
	fd, err := unix.Open("/proc/self/auxv", unix.O_RDONLY, 0)
	if err != nil {
		return nil
	}
	defer unix.Close(fd)

	var raw []byte
	buf := make([]byte, 4096)
	for {
		n, err := unix.Read(fd, buf)
		if n > 0 {
			raw = append(raw, buf[:n]...)
		}
		if err != nil || n <= 0 {
			break
		}
	}

	const word = 8
	var out []auxvEntry
	for i := 0; i+2*word <= len(raw); i += 2 * word {
		kind := binary.NativeEndian.Uint64(raw[i:])
		value := binary.NativeEndian.Uint64(raw[i+word:])
		if kind == 0 { // AT_NULL terminates the vector
			break
		}
		out = append(out, auxvEntry{kind: kind, value: value})
	}
	return out
}

// cstringAt copies the NUL-terminated string at p, which must point into
// this process's own address space (auxv entries do).
func cstringAt(p uintptr) []byte {
	if p == 0 {
		return nil
	}
	var out []byte
	for i := uintptr(0); ; i++ {
		b := *(*byte)(unsafe.Pointer(p + i))
		if b == 0 {
			return out
		}
		out = append(out, b)
	}
}

// bytesAt copies n raw bytes at p under the same constraint as cstringAt.
func bytesAt(p uintptr, n int) []byte {
	if p == 0 || n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
	return out
}
