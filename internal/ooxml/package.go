package ooxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

const (
	documentPart     = "word/document.xml"
	settingsPart     = "word/settings.xml"
	settingsRelsPart = "word/_rels/settings.xml.rels"
	contentTypesPart = "[Content_Types].xml"
)

// PackageError reports a structural failure in the zip container or one of
// its parts.
type PackageError struct {
	Op  string
	Err error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("package %s: %v", e.Op, e.Err)
}

func (e *PackageError) Unwrap() error { return e.Err }

// Package is an in-memory wordprocessing package: the zip parts plus the
// parsed main document tree. Parts other than word/document.xml are carried
// through byte-identical and in their original order.
type Package struct {
	names []string
	parts map[string][]byte
	doc   *Element
}

// OpenPackage reads a wordprocessing package from bytes. It requires a
// parseable word/document.xml with a w:body element.
func OpenPackage(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &PackageError{Op: "open", Err: err}
	}

	p := &Package{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, &PackageError{Op: "open " + f.Name, Err: err}
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &PackageError{Op: "read " + f.Name, Err: err}
		}
		p.names = append(p.names, f.Name)
		p.parts[f.Name] = content
	}

	raw, ok := p.parts[documentPart]
	if !ok {
		return nil, &PackageError{Op: "open", Err: fmt.Errorf("missing %s", documentPart)}
	}
	doc, err := ParseBytes(raw)
	if err != nil {
		return nil, &PackageError{Op: "parse " + documentPart, Err: err}
	}
	if doc.FirstChild(NSWord, "body") == nil {
		return nil, &PackageError{Op: "parse " + documentPart, Err: fmt.Errorf("document has no body")}
	}
	p.doc = doc
	return p, nil
}

// Document returns the parsed main document tree. Mutations are picked up by
// the next Bytes call.
func (p *Package) Document() *Element { return p.doc }

// Body returns the w:body element of the main document.
func (p *Package) Body() *Element {
	return p.doc.FirstChild(NSWord, "body")
}

// Part returns the raw bytes of a named part.
func (p *Package) Part(name string) ([]byte, bool) {
	b, ok := p.parts[name]
	return b, ok
}

// SetPart replaces or adds a raw part.
func (p *Package) SetPart(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.names = append(p.names, name)
	}
	p.parts[name] = data
}

// Bytes serializes the document tree into word/document.xml and writes the
// whole package back out as zip bytes.
func (p *Package) Bytes() ([]byte, error) {
	p.parts[documentPart] = []byte(Header + p.doc.XML())

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range p.names {
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return nil, &PackageError{Op: "write " + name, Err: err}
		}
		if _, err := w.Write(p.parts[name]); err != nil {
			zw.Close()
			return nil, &PackageError{Op: "write " + name, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &PackageError{Op: "close", Err: err}
	}
	return buf.Bytes(), nil
}
