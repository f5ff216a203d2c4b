// Package docxtest builds minimal docx archives for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// NS is the WordprocessingML main namespace.
const NS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const rels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

// Body wraps body XML into a complete word/document.xml.
func Body(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + NS + `"><w:body>` + body +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`
}

// Part wraps content into a header or footer root element.
func Part(root, content string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:` + root + ` xmlns:w="` + NS + `">` + content + `</w:` + root + `>`
}

// Run is one w:r with a single w:t. Bold runs carry their own run
// properties so tests can tell which run kept a merged placeholder.
func Run(text string, bold bool) string {
	var b strings.Builder
	b.WriteString("<w:r>")
	if bold {
		b.WriteString("<w:rPr><w:b/></w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(&b, []byte(text))
	b.WriteString("</w:t></w:r>")
	return b.String()
}

// Paragraph builds a w:p with one plain run per text.
func Paragraph(texts ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	for _, text := range texts {
		b.WriteString(Run(text, false))
	}
	b.WriteString("</w:p>")
	return b.String()
}

// Table builds a w:tbl; every cell is raw XML (usually paragraphs).
func Table(rows ...[]string) string {
	var b strings.Builder
	b.WriteString("<w:tbl><w:tblPr/>")
	for _, row := range rows {
		b.WriteString("<w:tr>")
		for _, cell := range row {
			b.WriteString("<w:tc>" + cell + "</w:tc>")
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
	return b.String()
}

// Build zips the given files together with content types and package
// relationships. [Content_Types].xml goes first, the rest sorted by name.
func Build(files map[string]string) []byte {
	all := map[string]string{
		"_rels/.rels": rels,
	}
	for name, content := range files {
		all[name] = content
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zipw := zip.NewWriter(&buf)
	write := func(name, content string) {
		fw, err := zipw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			panic(err)
		}
	}
	write("[Content_Types].xml", contentTypes)
	for _, name := range names {
		write(name, all[name])
	}
	if err := zipw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Document builds a docx whose main document has the given body XML.
func Document(body string) []byte {
	return Build(map[string]string{"word/document.xml": Body(body)})
}

// WriteFile stores docx bytes as dir/name and returns the path.
func WriteFile(tb testing.TB, dir, name string, docx []byte) string {
	tb.Helper()
	fpath := filepath.Join(dir, name)
	if err := os.WriteFile(fpath, docx, 0o644); err != nil {
		tb.Fatalf("write %s: %v", fpath, err)
	}
	return fpath
}
