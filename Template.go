package docxfill

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"
)

// main document - mandatory part of every docx
const mainDocument = "word/document.xml"

// ErrMainDocumentMissing - archive is not a word document
var ErrMainDocumentMissing = errors.New("mandatory [ word/document.xml ] not found")

// Template ..
type Template struct {
	path string

	// save all zip files here so we can build it again, archive order kept
	files []*docFile

	// text-bearing parts in traversal order
	parts []*docPart
}

type docFile struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
	part     *docPart // set for text-bearing parts only
}

// OpenTemplate ..
func OpenTemplate(docpath string) (*Template, error) {
	buf, err := os.ReadFile(docpath) // #nosec G304 - template path given by user
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	return OpenTemplateBytes(docpath, buf)
}

// OpenTemplateBytes - template from in-memory docx archive
func OpenTemplateBytes(name string, buf []byte) (*Template, error) {
	zipr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", name, err)
	}

	t := &Template{path: name}
	for _, f := range zipr.File {
		fr, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("read [ %s ] from archive: %w", f.Name, err)
		}
		data, err := readerBytes(fr)
		if err != nil {
			return nil, fmt.Errorf("read [ %s ] from archive: %w", f.Name, err)
		}

		df := &docFile{
			name:     f.Name,
			method:   f.Method,
			modified: f.Modified,
			data:     data,
		}
		if isTextPart(f.Name) {
			if df.part, err = newDocPart(f.Name, data); err != nil {
				return nil, fmt.Errorf("parse [ %s ]: %w", f.Name, err)
			}
			t.parts = append(t.parts, df.part)
		}
		t.files = append(t.files, df)
	}

	if t.mainPart() == nil {
		return nil, fmt.Errorf("open template %s: %w", name, ErrMainDocumentMissing)
	}

	sort.SliceStable(t.parts, func(i, j int) bool {
		ri, rj := partRank(t.parts[i].name), partRank(t.parts[j].name)
		if ri != rj {
			return ri < rj
		}
		return t.parts[i].name < t.parts[j].name
	})

	return t, nil
}

// Parts with placeholders: main document, headers, footers
func isTextPart(name string) bool {
	return partRank(name) >= 0
}

// Traversal order of parts, -1 if not text-bearing
func partRank(name string) int {
	if name == mainDocument {
		return 0
	}
	if ok, _ := path.Match("word/header*.xml", name); ok {
		return 1
	}
	if ok, _ := path.Match("word/footer*.xml", name); ok {
		return 2
	}
	return -1
}

// Path - where template was loaded from
func (t *Template) Path() string {
	return t.path
}

// main document part
func (t *Template) mainPart() *docPart {
	for _, part := range t.parts {
		if part.name == mainDocument {
			return part
		}
	}
	return nil
}

// Collect paragraphs of all parts in traversal order
func (t *Template) paragraphs() []*paragraph {
	var all []*paragraph
	for _, part := range t.parts {
		all = append(all, part.paragraphs()...)
	}
	return all
}

// Paragraphs - text of every text-bearing node in traversal order
func (t *Template) Paragraphs() []string {
	paragraphs := t.paragraphs()
	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.Text()
	}
	return texts
}

// Plaintext - all text-bearing nodes, one per line
func (t *Template) Plaintext() string {
	return strings.Join(t.Paragraphs(), "\n")
}

// Placeholders - distinct placeholders in order of first appearance
// Tabs and line breaks end a placeholder: "[Na<w:tab/>me]" is none.
func (t *Template) Placeholders() []Placeholder {
	var texts []string
	for _, p := range t.paragraphs() {
		texts = append(texts, p.segmentTexts()...)
	}
	return uniquePlaceholders(texts)
}

// Fill - derived template with values placed, date token filled with today
// "Hello [Name]!" --> "Hello World!"
func (t *Template) Fill(values Values, today time.Time) *Template {
	return t.FillWith(values, FillOptions{Today: today})
}

// FillWith - derived template with values placed.
// Given values win over auto values, unmapped placeholders stay as is.
// Source template is left untouched.
func (t *Template) FillWith(values Values, opts FillOptions) *Template {
	all := Merge(AutoValues(t.Placeholders(), opts.dateToken(), opts.Today), values)

	tdoc := t.clone()
	if all.Len() == 0 {
		return tdoc
	}

	keys := all.Keys()
	r := newValuesReplacer(keys, all)
	for _, p := range tdoc.paragraphs() {
		if !containsAny(p.Text(), keys) {
			continue
		}
		tdoc.fixBrokenPlaceholders(p, keys)
		tdoc.replaceSingleParams(p, r)
	}

	return tdoc
}

// Deep copy: parts get own node trees, raw bytes are shared read-only
func (t *Template) clone() *Template {
	tdoc := &Template{path: t.path}

	parts := map[*docPart]*docPart{}
	for _, part := range t.parts {
		parts[part] = part.clone()
		tdoc.parts = append(tdoc.parts, parts[part])
	}
	for _, f := range t.files {
		fcopy := *f
		if f.part != nil {
			fcopy.part = parts[f.part]
		}
		tdoc.files = append(tdoc.files, &fcopy)
	}

	return tdoc
}

// WriteDocx - write docx archive of this template
func (t *Template) WriteDocx(w io.Writer) error {
	zipw := zip.NewWriter(w)

	// Loop existing files to build docx archive again
	for _, f := range t.files {
		fw, err := zipw.CreateHeader(&zip.FileHeader{
			Name:     f.name,
			Method:   f.method,
			Modified: f.modified,
		})
		if err != nil {
			return fmt.Errorf("write [ %s ] to archive: %w", f.name, err)
		}

		buf := f.data
		if f.part != nil {
			buf = f.part.bytes()
		}
		if _, err := fw.Write(buf); err != nil {
			return fmt.Errorf("write [ %s ] to archive: %w", f.name, err)
		}
	}

	return zipw.Close()
}

// ExportDocx - save new/modified docx based on template
func (t *Template) ExportDocx(fpath string) (err error) {
	fDocx, err := os.Create(fpath) // #nosec G304 - output path given by caller
	if err != nil {
		return fmt.Errorf("export docx: %w", err)
	}
	defer func() {
		if cerr := fDocx.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export docx: %w", cerr)
		}
	}()

	return t.WriteDocx(fDocx)
}
