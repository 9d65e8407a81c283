// eval.go: the evaluator.
//
// Literals evaluate to themselves. A symbol resolves by content in the
// environment table, following its prototype chain; a miss yields nil,
// never an error. There is no application and there are no special forms.
package skald

// Evaluate reduces one value in the given environment.
func Evaluate(v *Value, env *Table) *Value {
	if v == nil {
		return nil
	}
	if v.Tag == VTSymbol {
		return env.Get(v)
	}
	return v
}
