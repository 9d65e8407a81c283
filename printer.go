// printer.go: values back to their canonical external byte form.
//
//	list     ( elements separated by single spaces ); a non-list tail is
//	         rendered as ". <value>" after the last element
//	table    { key value ... } in physical slot order; a present key with
//	         an empty value slot prints the literal nil
//	text     content wrapped in double quotes, no escaping
//	symbol   raw content
//	bytes    raw content
//	integer  minimal decimal, leading '-' if negative
//	pointer  its bit pattern as a signed decimal integer
//	nil      nothing; absence, not an empty-list token
package skald

import (
	"strconv"
	"strings"
)

// FormatValue renders v in its canonical external form.
func FormatValue(v *Value) string {
	var p printer
	p.value(v)
	return p.b.String()
}

// AppendValue appends the canonical form of v to dst.
func AppendValue(dst []byte, v *Value) []byte {
	return append(dst, FormatValue(v)...)
}

type printer struct {
	b strings.Builder
}

func (p *printer) value(v *Value) {
	if IsNil(v) {
		return
	}
	switch v.Tag {
	case VTList:
		p.list(v)
	case VTTable:
		p.table(v.Table)
	case VTText:
		p.b.WriteByte('"')
		p.b.Write(v.Bytes)
		p.b.WriteByte('"')
	case VTSymbol, VTBytes:
		p.b.Write(v.Bytes)
	case VTInteger:
		p.b.WriteString(strconv.FormatInt(v.Integer, 10))
	case VTPointer:
		p.b.WriteString(strconv.FormatInt(int64(v.Pointer), 10))
	}
}

func (p *printer) list(v *Value) {
	p.b.WriteByte('(')
	for cell := v; ; {
		p.value(cell.First)
		rest := cell.Rest
		if rest == nil || IsNil(rest) {
			break
		}
		if rest.Tag != VTList {
			// improper list: dotted-pair tail
			p.b.WriteString(" . ")
			p.value(rest)
			break
		}
		p.b.WriteByte(' ')
		cell = rest
	}
	p.b.WriteByte(')')
}

func (p *printer) table(t *Table) {
	p.b.WriteString("{ ")
	for _, s := range t.slots {
		if s.key == nil {
			continue
		}
		p.value(s.key)
		p.b.WriteByte(' ')
		if s.value == nil {
			p.b.WriteString("nil")
		} else {
			p.value(s.value)
		}
		p.b.WriteByte(' ')
	}
	p.b.WriteByte('}')
}
