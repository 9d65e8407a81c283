package skald

import "testing"

func Test_Evaluate_literals_are_themselves(t *testing.T) {
	h := newTestHeap(t)
	env := h.NewTable(defaultTableCapacity, nil).Table

	for _, v := range []*Value{
		h.NewInteger(42),
		h.NewText([]byte("hi")),
		h.NewBytes([]byte{1, 2}),
		h.NewList(h.NewInteger(1), h.NewNil()),
		h.NewPointer(8),
		h.NewTable(defaultTableCapacity, nil),
	} {
		if got := Evaluate(v, env); got != v {
			t.Fatalf("literal %v did not evaluate to itself: %#v", v.Tag, got)
		}
	}
	if Evaluate(nil, env) != nil {
		t.Fatal("nil should evaluate to nil")
	}
}

func Test_Evaluate_symbol_lookup(t *testing.T) {
	h := newTestHeap(t)
	env := h.NewTable(defaultTableCapacity, nil).Table
	env.Set(sym(h, "x"), h.NewInteger(7))

	wantInteger(t, Evaluate(sym(h, "x"), env), 7)
}

func Test_Evaluate_symbol_miss_is_nil(t *testing.T) {
	h := newTestHeap(t)
	env := h.NewTable(defaultTableCapacity, nil).Table

	v := Evaluate(sym(h, "unbound"), env)
	if !IsNil(v) {
		t.Fatalf("unbound symbol should evaluate to nil, got %#v", v)
	}
}

func Test_Evaluate_follows_prototype_chain(t *testing.T) {
	h := newTestHeap(t)
	outer := h.NewTable(defaultTableCapacity, nil).Table
	inner := h.NewTable(defaultTableCapacity, outer).Table
	outer.Set(sym(h, "shared"), h.NewInteger(3))

	wantInteger(t, Evaluate(sym(h, "shared"), inner), 3)
}
