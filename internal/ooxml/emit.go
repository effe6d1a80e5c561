package ooxml

import "strings"

// Header is the XML declaration written ahead of every serialized part.
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n"

// XML serializes the element tree back to its textual form. Conventional
// namespace prefixes are restored from the well-known table; elements in an
// unknown or empty namespace are written unprefixed, relying on the xmlns
// declarations preserved in their attributes.
func (e *Element) XML() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Element) write(sb *strings.Builder) {
	name := qualifiedName(e.Space, e.Local)
	sb.WriteByte('<')
	sb.WriteString(name)

	for _, a := range e.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(attrName(a))
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(a.Value))
		sb.WriteByte('"')
	}

	if len(e.Children) == 0 {
		sb.WriteString("/>")
		return
	}

	sb.WriteByte('>')
	for _, c := range e.Children {
		c.write(sb)
	}
	sb.WriteString("</")
	sb.WriteString(name)
	sb.WriteByte('>')
}

func (t *Text) write(sb *strings.Builder) {
	sb.WriteString(escapeText(t.Data))
}

func (c *Comment) write(sb *strings.Builder) {
	sb.WriteString("<!--")
	sb.WriteString(c.Data)
	sb.WriteString("-->")
}

func qualifiedName(space, local string) string {
	if space == "" {
		return local
	}
	if p := prefixFor(space); p != "" {
		return p + ":" + local
	}
	return local
}

func attrName(a Attr) string {
	switch {
	case a.Space == "":
		return a.Local // includes bare "xmlns"
	case a.Space == "xmlns":
		return "xmlns:" + a.Local
	default:
		return qualifiedName(a.Space, a.Local)
	}
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeText(s string) string { return textEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
