package ooxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is a single node in a parsed XML tree: an *Element, *Text or *Comment.
type Node interface {
	clone() Node
	write(sb *strings.Builder)
}

// Attr is one attribute on an element. Space holds the resolved namespace URI
// ("" for unprefixed attributes, "xmlns" for prefix declarations).
type Attr struct {
	Space string
	Local string
	Value string
}

// Element is an XML element with its children in document order.
type Element struct {
	Space    string // namespace URI
	Local    string
	Attrs    []Attr
	Children []Node
}

// Text is character data inside an element.
type Text struct {
	Data string
}

// Comment is an XML comment, preserved for round-tripping.
type Comment struct {
	Data string
}

// Parse reads an XML document and returns its root element. Element order,
// character data and comments are preserved; the prolog is discarded.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Space: t.Name.Space,
				Local: t.Name.Local,
			}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{
					Space: a.Name.Space,
					Local: a.Name.Local,
					Value: a.Value,
				})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parse xml: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse xml: unbalanced end element </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				// CharData is only valid until the next Token call.
				parent.Children = append(parent.Children, &Text{Data: string(t)})
			}

		case xml.Comment:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, &Comment{Data: string(t)})
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parse xml: no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("parse xml: unterminated element <%s>", stack[len(stack)-1].Local)
	}
	return root, nil
}

// ParseBytes is Parse over an in-memory buffer.
func ParseBytes(data []byte) (*Element, error) {
	return Parse(strings.NewReader(string(data)))
}

// Is reports whether the element has the given namespace URI and local name.
func (e *Element) Is(space, local string) bool {
	return e.Space == space && e.Local == local
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(space, local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Space == space && a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or adds an attribute.
func (e *Element) SetAttr(space, local, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Space == space && e.Attrs[i].Local == local {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Space: space, Local: local, Value: value})
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(space, local string) {
	for i := range e.Attrs {
		if e.Attrs[i].Space == space && e.Attrs[i].Local == local {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

// ChildElements returns the direct child elements in document order.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// FirstChild returns the first direct child element with the given name,
// or nil.
func (e *Element) FirstChild(space, local string) *Element {
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Is(space, local) {
			return el
		}
	}
	return nil
}

// Descendants returns every descendant element with the given name, in
// document order, at unrestricted depth. Each call is a fresh scan.
func (e *Element) Descendants(space, local string) []*Element {
	var out []*Element
	e.Walk(func(el *Element) bool {
		if el != e && el.Is(space, local) {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Walk visits the element and all its descendant elements depth-first in
// document order. Returning false from fn skips the element's children.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			el.Walk(fn)
		}
	}
}

// Text returns the concatenated character data directly under the element.
func (e *Element) Text() string {
	var sb strings.Builder
	for _, c := range e.Children {
		if t, ok := c.(*Text); ok {
			sb.WriteString(t.Data)
		}
	}
	return sb.String()
}

// SetText replaces the element's children with a single text node.
func (e *Element) SetText(s string) {
	e.Children = []Node{&Text{Data: s}}
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	return e.clone().(*Element)
}

// CloneNode returns a deep copy of any node.
func CloneNode(n Node) Node { return n.clone() }

func (e *Element) clone() Node {
	out := &Element{Space: e.Space, Local: e.Local}
	if len(e.Attrs) > 0 {
		out.Attrs = make([]Attr, len(e.Attrs))
		copy(out.Attrs, e.Attrs)
	}
	if len(e.Children) > 0 {
		out.Children = make([]Node, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.clone()
		}
	}
	return out
}

func (t *Text) clone() Node    { return &Text{Data: t.Data} }
func (c *Comment) clone() Node { return &Comment{Data: c.Data} }
