package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/xyproto/env/v2"

	"github.com/skald-lang/skald"
)

const (
	appName     = "skald"
	historyFile = ".skald_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("skald %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", skald.Version)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	cmd := "run"
	var rest []string
	if len(os.Args) > 1 {
		cmd = os.Args[1]
		rest = os.Args[2:]
	}

	switch cmd {
	case "run":
		os.Exit(cmdRun(rest))
	case "repl":
		os.Exit(cmdRepl(rest))
	case "version":
		fmt.Println(skald.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`skald %s

Usage:
  %s [run]      Read forms from standard input, evaluate, print (default).
  %s repl       Start the interactive REPL.
  %s version    Print the version.

Environment:
  SKALD_MEMORY  Arena size in bytes (default %d).
  SKALD_BUFFER  Initial read buffer size in bytes (default %d).

`, skald.Version, appName, appName, appName,
		skald.DefaultConfig().MemorySize, skald.DefaultConfig().BufferSize)
}

func config() skald.Config {
	def := skald.DefaultConfig()
	return skald.Config{
		MemorySize: env.Int("SKALD_MEMORY", def.MemorySize),
		BufferSize: env.Int("SKALD_BUFFER", def.BufferSize),
	}
}

// -----------------------------------------------------------------------------
// run: the stdin → stdout pipeline over raw descriptors
// -----------------------------------------------------------------------------

func cmdRun(_ []string) int {
	ip := skald.New(config())
	defer ip.Teardown()

	if err := ip.InstallProcess(os.Args, os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	src := &skald.FdSource{Fd: 0}
	out := &skald.FdSink{Fd: 1}
	if err := ip.Run(src, out); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := skald.New(config())
	defer ip.Teardown()

	if err := ip.InstallProcess(os.Args, os.Environ()); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	out := &skald.FdSink{Fd: 1}
	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		if err := ip.Run(bytes.NewReader(append([]byte(code), '\n')), out); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe accumulates lines until the input probes as complete,
// prompting with cont for continuation lines. A line that can never parse
// is returned as-is so evaluation surfaces the diagnostic.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		perr := skald.ProbeSource([]byte(src))
		if perr == nil {
			return src, true
		}
		if skald.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
