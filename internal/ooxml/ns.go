package ooxml

// Namespace URIs the engine needs to recognize directly.
const (
	NSWord          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSXMLSpace      = "http://www.w3.org/XML/1998/namespace"
)

// wellKnownPrefixes maps namespace URIs seen in wordprocessing packages back
// to their conventional prefixes. encoding/xml resolves prefixes to URIs
// during decoding, so serialization has to restore them.
var wellKnownPrefixes = map[string]string{
	NSWord:          "w",
	NSRelationships: "r",
	NSXMLSpace:      "xml",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":           "mc",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                 "a",
	"http://schemas.openxmlformats.org/drawingml/2006/picture":              "pic",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
	"http://schemas.openxmlformats.org/officeDocument/2006/math":            "m",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing":   "wp14",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas":    "wpc",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":     "wpg",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingInk":       "wpi",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":     "wps",
	"http://schemas.microsoft.com/office/word/2010/wordml":                  "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":                  "w15",
	"http://schemas.microsoft.com/office/word/2018/wordml":                  "w16",
	"http://schemas.microsoft.com/office/word/2016/wordml/cid":              "w16cid",
	"http://schemas.microsoft.com/office/word/2018/wordml/cex":              "w16cex",
	"http://schemas.microsoft.com/office/word/2020/wordml/sdtdatahash":      "w16sdtdh",
	"http://schemas.microsoft.com/office/word/2015/wordml/symex":            "w16se",
	"http://schemas.microsoft.com/office/word/2006/wordml":                  "wne",
	"http://schemas.microsoft.com/office/drawing/2010/main":                 "a14",
	"http://schemas.microsoft.com/office/drawing/2014/chartex":              "cx",
	"http://schemas.microsoft.com/office/drawing/2016/ink":                  "aink",
	"http://schemas.microsoft.com/office/drawing/2017/model3d":              "am3d",
	"urn:schemas-microsoft-com:office:office":                               "o",
	"urn:schemas-microsoft-com:office:word":                                 "w10",
	"urn:schemas-microsoft-com:vml":                                         "v",
}

// prefixFor returns the conventional prefix for a namespace URI, or "" when
// the URI is unknown (the element is then emitted with a default-namespace
// declaration instead).
func prefixFor(uri string) string {
	return wellKnownPrefixes[uri]
}
