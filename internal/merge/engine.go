// Package merge substitutes merge-field placeholders in wordprocessing
// documents with caller-supplied values.
package merge

import (
	"github.com/dgallion1/docmerge/internal/ooxml"
)

// Merge resolves every merge field in the package and overwrites each
// field's display placeholders with the resolved value, then serializes the
// package back to bytes.
//
// Fields are processed in document order. A field name that repeats is
// resolved once per instruction and every exact display match across the
// whole document is overwritten with that value. Field-code nodes themselves
// are left in the tree; only display text is mutated.
//
// On any failure (malformed instruction, resolver rejection, serialization)
// no bytes are returned. The mutated tree is private to the package
// instance, so a failed merge leaves nothing externally visible.
func Merge(pkg *ooxml.Package, r Resolver) ([]byte, error) {
	doc := pkg.Document()

	for _, f := range Fields(doc) {
		if f.Name == "" {
			return nil, &MalformedFieldError{Instr: f.Instr}
		}
		value, err := r.Resolve(f.Name)
		if err != nil {
			return nil, err
		}
		// Zero display matches is fine: the placeholder may already have
		// been replaced, or the template was authored without one.
		for _, t := range displayNodes(doc, f.Name) {
			ooxml.SetNodeText(t, value)
		}
	}

	return pkg.Bytes()
}
