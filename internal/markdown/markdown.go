// Package markdown renders summary and script text to safe HTML with linkable headings.
package markdown

import (
	"bytes"
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is a table of contents entry.
type Heading struct {
	Level int
	Text  string
	ID    string
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#-]+$`)).OnElements("code")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	p.RequireNoFollowOnLinks(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnFullyQualifiedLinks(true)
	return p
}

// Slugify turns heading text into an anchor id.
//
// Letters and numbers from any script survive, so Japanese headings keep their text:
// "1. 導入：収録スタイルと近況" becomes "1-導入収録スタイルと近況".
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsSpace(r):
			pendingDash = true
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '-':
			if pendingDash {
				b.WriteByte('-')
				pendingDash = false
			}
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}

// ids hands out unique heading ids within one document: repeats get -1, -2, ... suffixes.
type ids struct {
	used map[string]bool
}

func newIDs() *ids {
	return &ids{used: make(map[string]bool)}
}

func (s *ids) Generate(value []byte, kind ast.NodeKind) []byte {
	base := Slugify(string(value))
	if base == "" {
		base = "heading"
	}

	id := base
	for n := 1; s.used[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	s.used[id] = true
	return []byte(id)
}

func (s *ids) Put(value []byte) {
	s.used[string(value)] = true
}

// Section is one rendered block of markdown and its headings.
type Section struct {
	HTML     template.HTML
	Headings []Heading
}

// Document renders several markdown blocks that end up on one page.
//
// Heading ids are unique across every block rendered through the same Document.
type Document struct {
	ids *ids
}

// NewDocument starts a page with no heading ids taken.
func NewDocument() *Document {
	return &Document{ids: newIDs()}
}

// Render converts src to sanitised HTML and lists its headings.
//
// Raw HTML in the source is dropped and links to other sites open in a new tab.
func (d *Document) Render(src string) Section {
	source := []byte(src)
	ctx := parser.NewContext(parser.WithIDs(d.ids))
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, doc); err != nil {
		return Section{HTML: template.HTML(template.HTMLEscapeString(src))}
	}
	return Section{
		HTML:     template.HTML(policy.SanitizeBytes(buf.Bytes())),
		Headings: headings(doc, source),
	}
}

func headings(doc ast.Node, source []byte) []Heading {
	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		out = append(out, Heading{Level: h.Level, Text: plainText(h, source), ID: id})
		return ast.WalkSkipChildren, nil
	})
	return out
}

func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
