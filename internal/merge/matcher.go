package merge

import "github.com/dgallion1/docmerge/internal/ooxml"

// Placeholder returns the visible display text a merge field renders as
// before substitution: the field name wrapped in guillemets.
func Placeholder(name string) string {
	return "«" + name + "»"
}

// displayNodes returns every w:t node in the tree whose entire content
// equals the placeholder for name. Matching is exact equality, never
// containment, so a field name that is a prefix of another cannot capture
// the longer field's placeholder.
//
// A placeholder the authoring tool split across adjacent runs ("«X" in one
// run, "»" in the next) is a defined non-match: no single node carries the
// whole placeholder, so nothing is returned. The engine does not attempt to
// stitch runs back together.
func displayNodes(root *ooxml.Element, name string) []*ooxml.Element {
	want := Placeholder(name)
	var out []*ooxml.Element
	for _, t := range ooxml.TextNodes(root) {
		if ooxml.NodeText(t) == want {
			out = append(out, t)
		}
	}
	return out
}
