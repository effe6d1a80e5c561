package ooxml

import "strings"

// Helpers for the WordprocessingML vocabulary used by merging and
// composition. Only the handful of node kinds the engine touches are modeled;
// everything else rides along in the generic tree.

// IsParagraph reports whether the element is a w:p.
func IsParagraph(e *Element) bool { return e.Is(NSWord, "p") }

// Paragraphs returns every w:p under the element, at any depth.
func (e *Element) Paragraphs() []*Element { return e.Descendants(NSWord, "p") }

// TextNodes returns every w:t under the element, at any depth, in document
// order.
func TextNodes(e *Element) []*Element { return e.Descendants(NSWord, "t") }

// NodeText returns the character data of a w:t or w:instrText node.
func NodeText(e *Element) string { return e.Text() }

// SetNodeText overwrites the character data of a w:t node in place. Nothing
// else on the node or its run is touched, except that xml:space="preserve"
// is set when the new value carries leading or trailing whitespace, so the
// consumer does not collapse it.
func SetNodeText(e *Element, value string) {
	e.SetText(value)
	if value != strings.TrimSpace(value) {
		e.SetAttr(NSXMLSpace, "space", "preserve")
	}
}

// PageBreakParagraph builds the separator paragraph inserted between
// composed documents: a single run holding a page-typed break.
func PageBreakParagraph() *Element {
	br := &Element{Space: NSWord, Local: "br"}
	br.SetAttr(NSWord, "type", "page")
	run := &Element{Space: NSWord, Local: "r", Children: []Node{br}}
	return &Element{Space: NSWord, Local: "p", Children: []Node{run}}
}

// SectionProperties returns the body-level trailing w:sectPr, or nil.
func SectionProperties(body *Element) *Element {
	return body.FirstChild(NSWord, "sectPr")
}
