package records

import "testing"

func TestFlattenMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just text", "just text"},
		{"emphasis stripped", "some **bold** and *italic* words", "some bold and italic words"},
		{"heading and paragraph", "# Title\n\nHello **world**", "Title\nHello world"},
		{"link keeps text", "see [the docs](https://example.com) here", "see the docs here"},
		{"soft line break", "line one\nline two", "line one\nline two"},
		{"inline code", "run `merge` now", "run merge now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flattenMarkdown(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFlattenHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "just text", "just text"},
		{"tags stripped", "<p>Hello <b>world</b>!</p>", "Hello world!"},
		{"nested", "<div><span>a</span><span>b</span></div>", "ab"},
		{"script dropped", `<p>visible</p><script>alert("x")</script>`, "visible"},
		{"style dropped", "<style>p { color: red }</style><p>text</p>", "text"},
		{"entities decoded", "<p>fish &amp; chips</p>", "fish & chips"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flattenHTML(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFlattenValue_UnknownFormatPassesThrough(t *testing.T) {
	if got := flattenValue("**raw**", ""); got != "**raw**" {
		t.Errorf("expected raw value, got %q", got)
	}
	if got := flattenValue("**raw**", "text"); got != "**raw**" {
		t.Errorf("expected raw value, got %q", got)
	}
}
