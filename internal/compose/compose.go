// Package compose concatenates merged wordprocessing documents into a single
// compound document with page breaks between them.
package compose

import (
	"errors"
	"fmt"

	"github.com/dgallion1/docmerge/internal/ooxml"
)

// ErrEmptyInputSet is returned when Combine is called with no documents.
var ErrEmptyInputSet = errors.New("compose: no input documents")

// MalformedDocumentError indicates an input buffer that does not parse as a
// wordprocessing package with a body, identified by its position in the
// input list.
type MalformedDocumentError struct {
	Index int
	Err   error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("document at index %d is malformed: %v", e.Index, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// Combine splices the bodies of the given documents, in order, into the
// first document's package, inserting a page-break paragraph between every
// adjacent pair and never after the last. The first document's trailing
// section properties are kept at the end of the combined body; those of
// subsequent documents are dropped.
//
// Every input is parsed up front, so a malformed document at any index
// aborts the composition before the base package is touched and no
// partially composed bytes escape. Styles, numbering and relationship parts
// of the base document are carried through unchanged; relationship IDs of
// subsequent documents are not reconciled.
func Combine(docs [][]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyInputSet
	}

	pkgs := make([]*ooxml.Package, len(docs))
	for i, d := range docs {
		p, err := ooxml.OpenPackage(d)
		if err != nil {
			return nil, &MalformedDocumentError{Index: i, Err: err}
		}
		pkgs[i] = p
	}

	base := pkgs[0]
	body := base.Body()

	children, sectPr := splitSectPr(body.Children)
	for _, p := range pkgs[1:] {
		children = append(children, ooxml.PageBreakParagraph())
		rest, _ := splitSectPr(p.Body().Children)
		for _, c := range rest {
			children = append(children, ooxml.CloneNode(c))
		}
	}
	if sectPr != nil {
		children = append(children, sectPr)
	}
	body.Children = children

	return base.Bytes()
}

// splitSectPr separates a body's trailing section properties from the rest
// of its children.
func splitSectPr(children []ooxml.Node) ([]ooxml.Node, ooxml.Node) {
	var rest []ooxml.Node
	var sectPr ooxml.Node
	for _, c := range children {
		if el, ok := c.(*ooxml.Element); ok && el.Is(ooxml.NSWord, "sectPr") {
			sectPr = c
			continue
		}
		rest = append(rest, c)
	}
	return rest, sectPr
}
