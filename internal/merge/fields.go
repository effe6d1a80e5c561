package merge

import (
	"strings"

	"github.com/dgallion1/docmerge/internal/ooxml"
)

// fieldDelimiter is the instruction keyword separating the field type from
// the field name, including the spaces Word writes around it.
const fieldDelimiter = " MERGEFIELD "

// Field is one merge-field instruction found in a document. Name is the
// trimmed remainder after the last delimiter occurrence; it is empty when
// the instruction is malformed (no delimiter, or nothing after it).
type Field struct {
	Instr string
	Name  string
}

// Fields scans the tree for merge-field instructions and returns them in
// document order. Both encodings are recognized: w:fldSimple elements
// carrying a w:instr attribute, and w:instrText run content. Each call is a
// fresh scan; substitution does not remove field codes, so rescanning a
// merged document yields the same fields.
func Fields(root *ooxml.Element) []Field {
	var out []Field
	root.Walk(func(e *ooxml.Element) bool {
		switch {
		case e.Is(ooxml.NSWord, "fldSimple"):
			instr, _ := e.Attr(ooxml.NSWord, "instr")
			if strings.Contains(instr, "MERGEFIELD") {
				out = append(out, newField(instr))
			}
		case e.Is(ooxml.NSWord, "instrText"):
			instr := ooxml.NodeText(e)
			if strings.Contains(instr, "MERGEFIELD") {
				out = append(out, newField(instr))
			}
		}
		return true
	})
	return out
}

func newField(instr string) Field {
	return Field{Instr: instr, Name: fieldName(instr)}
}

// fieldName derives the field name from an instruction string: the trimmed
// remainder after the LAST occurrence of the delimiter. An instruction
// without the delimiter yields "" so the engine can reject it instead of
// silently substituting a garbage name.
func fieldName(instr string) string {
	idx := strings.LastIndex(instr, fieldDelimiter)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(instr[idx+len(fieldDelimiter):])
}
