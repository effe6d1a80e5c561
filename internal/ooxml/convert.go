package ooxml

import "fmt"

const (
	templateContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.template.main+xml"
	documentContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

	attachedTemplateRelType = NSRelationships + "/attachedTemplate"
)

// ConvertTemplate turns a template package (.dotx) into a standard document
// package: the main part's declared content type is switched to the document
// type and, when the document carries an attached-template reference, its
// relationship target is pointed at templatePath. This is an administrative
// container change only; the body is not modified.
func ConvertTemplate(p *Package, templatePath string) error {
	raw, ok := p.Part(contentTypesPart)
	if !ok {
		return &PackageError{Op: "convert", Err: fmt.Errorf("missing %s", contentTypesPart)}
	}
	ct, err := ParseBytes(raw)
	if err != nil {
		return &PackageError{Op: "parse " + contentTypesPart, Err: err}
	}

	converted := false
	for _, ov := range ct.Descendants(NSContentTypes, "Override") {
		typ, _ := ov.Attr("", "ContentType")
		if typ == templateContentType {
			ov.SetAttr("", "ContentType", documentContentType)
			converted = true
		}
	}
	if !converted {
		return &PackageError{Op: "convert", Err: fmt.Errorf("no template content type declared")}
	}
	p.SetPart(contentTypesPart, []byte(Header+ct.XML()))

	if templatePath != "" {
		if err := retargetAttachedTemplate(p, templatePath); err != nil {
			return err
		}
	}
	return nil
}

// retargetAttachedTemplate rewrites the attachedTemplate relationship in the
// settings relationships part. A package without settings relationships has
// no reference to retarget; that is not an error.
func retargetAttachedTemplate(p *Package, templatePath string) error {
	raw, ok := p.Part(settingsRelsPart)
	if !ok {
		return nil
	}
	rels, err := ParseBytes(raw)
	if err != nil {
		return &PackageError{Op: "parse " + settingsRelsPart, Err: err}
	}

	changed := false
	for _, rel := range rels.Descendants(NSPackageRels, "Relationship") {
		typ, _ := rel.Attr("", "Type")
		if typ == attachedTemplateRelType {
			rel.SetAttr("", "Target", templatePath)
			rel.SetAttr("", "TargetMode", "External")
			changed = true
		}
	}
	if changed {
		p.SetPart(settingsRelsPart, []byte(Header+rels.XML()))
	}
	return nil
}
