package ooxml

import (
	"strings"
	"testing"
)

const sampleDoc = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body><w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>Dear </w:t></w:r><w:r><w:t xml:space="preserve">friend </w:t></w:r></w:p><w:p><w:r><w:t>&amp;more</w:t></w:r></w:p><w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`

func TestParse_PreservesStructure(t *testing.T) {
	root, err := ParseBytes([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !root.Is(NSWord, "document") {
		t.Fatalf("expected w:document root, got %s %s", root.Space, root.Local)
	}
	body := root.FirstChild(NSWord, "body")
	if body == nil {
		t.Fatal("expected body element")
	}
	paras := body.Descendants(NSWord, "p")
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}

	texts := body.Descendants(NSWord, "t")
	if len(texts) != 3 {
		t.Fatalf("expected 3 text nodes, got %d", len(texts))
	}
	if got := texts[1].Text(); got != "friend " {
		t.Errorf("expected %q, got %q", "friend ", got)
	}
	if got := texts[2].Text(); got != "&more" {
		t.Errorf("expected entity decoded to %q, got %q", "&more", got)
	}

	if v, ok := texts[1].Attr(NSXMLSpace, "space"); !ok || v != "preserve" {
		t.Errorf("expected xml:space=preserve, got %q (present=%v)", v, ok)
	}
}

func TestXML_RoundTrip(t *testing.T) {
	root, err := ParseBytes([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := root.XML()
	if out != sampleDoc {
		t.Errorf("round trip changed document:\n in: %s\nout: %s", sampleDoc, out)
	}

	// Reparse the emission: the trees must agree again.
	again, err := ParseBytes([]byte(out))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if again.XML() != out {
		t.Error("second round trip is not stable")
	}
}

func TestXML_EscapesText(t *testing.T) {
	e := &Element{Space: NSWord, Local: "t"}
	e.SetText(`a < b & c > "d"`)
	got := e.XML()
	want := `<w:t>a &lt; b &amp; c &gt; "d"</w:t>`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestXML_SelfClosesEmptyElements(t *testing.T) {
	e := &Element{Space: NSWord, Local: "br"}
	e.SetAttr(NSWord, "type", "page")
	if got := e.XML(); got != `<w:br w:type="page"/>` {
		t.Errorf("unexpected emission: %s", got)
	}
}

func TestClone_IsDeep(t *testing.T) {
	root, err := ParseBytes([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup := root.Clone()

	// Mutating the copy must not affect the original.
	for _, tn := range dup.Descendants(NSWord, "t") {
		tn.SetText("changed")
	}
	orig := root.Descendants(NSWord, "t")
	if orig[0].Text() != "Dear " {
		t.Errorf("clone mutation leaked into original: %q", orig[0].Text())
	}
	if dup.XML() == root.XML() {
		t.Error("expected diverged trees after mutating the clone")
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "plain text", "<w:p>unclosed"} {
		if _, err := ParseBytes([]byte(input)); err == nil {
			t.Errorf("expected error for input %q", input)
		}
	}
}

func TestSetAttr_ReplacesExisting(t *testing.T) {
	e := &Element{Space: NSWord, Local: "t"}
	e.SetAttr(NSXMLSpace, "space", "default")
	e.SetAttr(NSXMLSpace, "space", "preserve")
	if len(e.Attrs) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(e.Attrs))
	}
	if v, _ := e.Attr(NSXMLSpace, "space"); v != "preserve" {
		t.Errorf("expected preserve, got %q", v)
	}
}

func TestWalk_SkipsSubtreeOnFalse(t *testing.T) {
	root, err := ParseBytes([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var visited []string
	root.Walk(func(e *Element) bool {
		visited = append(visited, e.Local)
		return e.Local != "p" // do not descend into paragraphs
	})
	for _, name := range visited {
		if name == "r" || name == "t" {
			t.Fatalf("walk descended into skipped subtree: visited %s", name)
		}
	}
	if !strings.Contains(strings.Join(visited, ","), "sectPr") {
		t.Error("walk should still reach siblings of skipped subtrees")
	}
}
