package skald

import "testing"

func Test_Process_arguments_preserve_order(t *testing.T) {
	h := newTestHeap(t)

	v := Arguments(h, []string{"prog", "first", "second"})
	if got := FormatValue(v); got != `("prog" "first" "second")` {
		t.Fatalf("arguments = %q", got)
	}
}

func Test_Process_arguments_empty(t *testing.T) {
	h := newTestHeap(t)

	if v := Arguments(h, nil); !IsNil(v) {
		t.Fatalf("no arguments should yield nil, got %#v", v)
	}
}

func Test_Process_environment_splits_at_first_equals(t *testing.T) {
	h := newTestHeap(t)

	v := Environment(h, []string{"HOME=/root", "EMPTY=", "NOEQ", "A=b=c"})
	tb := v.Table

	wantEnv := func(key, val string) {
		t.Helper()
		got := tb.Get(h.NewText([]byte(key)))
		if got.Tag != VTText || string(got.Bytes) != val {
			t.Fatalf("env[%q] = %#v, want text %q", key, got, val)
		}
	}
	wantEnv("HOME", "/root")
	wantEnv("EMPTY", "")
	wantEnv("NOEQ", "")
	wantEnv("A", "b=c")
	if tb.Count() != 4 {
		t.Fatalf("env count = %d, want 4", tb.Count())
	}
}

func Test_Process_install_binds_fixed_keys(t *testing.T) {
	h := newTestHeap(t)
	env := h.NewTable(defaultTableCapacity, nil).Table

	InstallProcess(h, env, []string{"skald"}, []string{"K=v"})

	args := env.Get(sym(h, KeyArguments))
	if args.Tag != VTList {
		t.Fatalf("arguments should be a list, got %#v", args)
	}
	environ := env.Get(sym(h, KeyEnvironment))
	if environ.Tag != VTTable {
		t.Fatalf("environment should be a table, got %#v", environ)
	}
	aux := env.Get(sym(h, KeyAuxiliary))
	if aux.Tag != VTTable {
		t.Fatalf("auxiliary should be a table, got %#v", aux)
	}
}

func Test_Process_auxiliary_entry_payloads(t *testing.T) {
	h := newTestHeap(t)

	v := Auxiliary(h)
	if v.Tag != VTTable {
		t.Fatalf("auxiliary should be a table, got %#v", v)
	}
	// Every installed entry carries one of the typed payloads; an
	// unreadable auxv just leaves the table empty.
	for _, s := range v.Table.slots {
		if s.key == nil {
			continue
		}
		if s.key.Tag != VTSymbol {
			t.Fatalf("auxiliary key should be a symbol, got %#v", s.key)
		}
		switch s.value.Tag {
		case VTInteger, VTPointer, VTText, VTBytes, VTList:
		default:
			t.Fatalf("auxiliary[%s] has payload %v", s.key.Bytes, s.value.Tag)
		}
	}
}

func Test_Process_auxiliary_names(t *testing.T) {
	cases := map[uint64]string{
		auxPageSize: "page-size",
		auxPlatform: "platform",
		auxExecFn:   "executable-path",
		auxUID:      "user-id",
		999:         "unknown",
	}
	for kind, want := range cases {
		if got := auxName(kind); got != want {
			t.Fatalf("auxName(%d) = %q, want %q", kind, got, want)
		}
	}
}
