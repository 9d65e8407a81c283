// sys.go: the raw I/O boundary.
//
// The core talks to the operating system through two narrow primitives:
// a blocking read and a blocking write over plain file descriptors, both
// raw syscalls via golang.org/x/sys/unix. A failing call surfaces as a
// DiagIO error; the driver treats it as fatal.
package skald

import (
	"io"

	"golang.org/x/sys/unix"
)

// ByteSink is the narrow write primitive the printer output flows through.
type ByteSink interface {
	Write(p []byte) (int, error)
}

// FdSource reads from a file descriptor (conventionally 0, standard input).
type FdSource struct {
	Fd int
}

// Read blocks until the descriptor yields bytes. End of stream is io.EOF.
func (s *FdSource) Read(p []byte) (int, error) {
	n, err := unix.Read(s.Fd, p)
	if err != nil {
		return 0, &Error{Kind: DiagIO, Msg: "read: " + err.Error(), Pos: -1}
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// FdSink writes to a file descriptor (conventionally 1, standard output).
type FdSink struct {
	Fd int
}

// Write loops until every byte is written or the descriptor fails.
func (s *FdSink) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := unix.Write(s.Fd, p[total:])
		if err != nil {
			return total, &Error{Kind: DiagIO, Msg: "write: " + err.Error(), Pos: -1}
		}
		if n <= 0 {
			return total, &Error{Kind: DiagIO, Msg: "write: no progress", Pos: -1}
		}
		total += n
	}
	return total, nil
}
