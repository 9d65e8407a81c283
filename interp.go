// interp.go: the public interpreter surface.
//
// One Interp owns one arena, one value store and one root environment, all
// confined to a single thread of control. Hosts embedding the runtime in a
// concurrent program must keep each Interp on one goroutine.
//
// Run drives the read → evaluate → print loop over a byte source and sink,
// one evaluated form per input form, each followed by a newline. Internal
// fatal conditions raised as panicking *Error values (allocator exhaustion)
// are recovered here and returned as ordinary errors; mapping them to a
// process exit status is the driver's job.
package skald

// Version is the runtime release identifier.
const Version = "0.1.0"

// Config sizes the interpreter's fixed resources.
type Config struct {
	// MemorySize is the arena capacity in bytes.
	MemorySize int
	// BufferSize is the reader's initial input buffer in bytes.
	BufferSize int
}

// DefaultConfig returns the standard sizing: a 1 MiB arena and a 4 KiB
// read buffer.
func DefaultConfig() Config {
	return Config{MemorySize: 1 << 20, BufferSize: 4096}
}

// Interp is a complete interpreter instance.
type Interp struct {
	arena *Arena
	heap  *Heap
	root  *Table

	bufferSize int
}

// New builds an interpreter with an empty root environment.
func New(cfg Config) *Interp {
	if cfg.MemorySize <= 0 || cfg.BufferSize <= 0 {
		cfg = DefaultConfig()
	}
	a := NewArena(cfg.MemorySize)
	h := NewHeap(a)
	root := h.NewTable(defaultTableCapacity, nil).Table
	return &Interp{arena: a, heap: h, root: root, bufferSize: cfg.BufferSize}
}

// Heap exposes the value store for hosts constructing values directly.
func (ip *Interp) Heap() *Heap { return ip.heap }

// Root exposes the root environment table.
func (ip *Interp) Root() *Table { return ip.root }

// InstallProcess populates the root environment with the arguments,
// environment and auxiliary tables (see process.go).
func (ip *Interp) InstallProcess(argv, environ []string) (err error) {
	defer recoverError(&err)
	InstallProcess(ip.heap, ip.root, argv, environ)
	return nil
}

// Run reads top-level forms from src until the stream ends, evaluating
// each in the root environment and printing the result to out followed by
// a single newline. The first fatal condition stops the loop and is
// returned; a clean end of stream returns nil.
func (ip *Interp) Run(src ByteSource, out ByteSink) (err error) {
	defer recoverError(&err)

	r := NewReader(ip.heap, src, ip.bufferSize)
	defer r.release()

	for {
		v, rerr := r.Read()
		if rerr != nil {
			return rerr
		}
		if r.Finished() {
			return nil
		}
		res := Evaluate(v, ip.root)
		line := AppendValue(nil, res)
		line = append(line, '\n')
		if _, werr := out.Write(line); werr != nil {
			return werr
		}
	}
}

// Teardown releases every value buffer and table slot array in one bulk
// pass. The interpreter must not be used afterwards.
func (ip *Interp) Teardown() {
	ip.heap.Teardown()
}

// recoverError converts a panicking *Error (the allocator's fatal path)
// into a returned error; anything else keeps unwinding.
func recoverError(err *error) {
	switch e := recover().(type) {
	case nil:
	case *Error:
		*err = e
	default:
		panic(e)
	}
}

// ProbeSource reports whether src holds at least one complete top-level
// form. It returns DiagIncomplete while more input could complete the
// form, nil when the source parses cleanly, and a fatal diagnostic for
// input no continuation can repair. Interactive hosts use it to decide
// between evaluating and prompting for a continuation line.
func ProbeSource(src []byte) error {
	// The caller's line break is a real separator; restore it so a token
	// ending flush with the input is not mistaken for a cut-off one.
	probe := make([]byte, 0, len(src)+1)
	probe = append(append(probe, src...), '\n')
	toks, err := NewStreamingLexer(probe).Scan()
	if err != nil {
		return err
	}
	depth := 0
	for _, t := range toks {
		switch t.Type {
		case LPAREN:
			depth++
		case RPAREN:
			depth--
			if depth < 0 {
				return errParse("unexpected ')'", t.Pos)
			}
		}
	}
	if depth > 0 {
		return errIncomplete("unterminated list", 0)
	}
	if len(toks) == 0 && len(trimSpace(src)) > 0 {
		// Only a cut-off token (for example an open string) was seen.
		return errIncomplete("unterminated token", 0)
	}
	return nil
}

func trimSpace(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isSpace(b[i]) {
		i++
	}
	for j > i && isSpace(b[j-1]) {
		j--
	}
	return b[i:j]
}
