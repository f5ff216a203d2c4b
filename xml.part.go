package docxfill

import (
	"bytes"
	"regexp"
	"strings"
)

var reSpaceAttr = regexp.MustCompile(`xml:space\s*=\s*("[^"]*"|'[^']*')`)

// docPart - one text-bearing xml file of the archive
// word/document.xml, word/header1.xml, word/footer1.xml ..
type docPart struct {
	name string
	raw  []byte // original bytes, never changed
	root *xmlNode
}

func newDocPart(name string, raw []byte) (*docPart, error) {
	root, err := bytesToXMLStruct(raw)
	if err != nil {
		return nil, err
	}
	return &docPart{name: name, raw: raw, root: root}, nil
}

func (part *docPart) clone() *docPart {
	return &docPart{
		name: part.name,
		raw:  part.raw,
		root: part.root.clone(),
	}
}

// paragraph - text-bearing node: w:p with w:t nodes it owns.
// Tabs and breaks between runs cut the text into segments, a placeholder
// never spans two segments.
type paragraph struct {
	node     *xmlNode
	texts    []*xmlNode
	segments [][]*xmlNode
	seps     []string // seps[i] sits between segments[i] and segments[i+1]
	inTable  bool
}

func (p *paragraph) addText(n *xmlNode) {
	if len(p.segments) == 0 {
		p.segments = [][]*xmlNode{nil}
	}
	last := len(p.segments) - 1
	p.segments[last] = append(p.segments[last], n)
	p.texts = append(p.texts, n)
}

func (p *paragraph) addBreak(sep string) {
	if len(p.segments) == 0 {
		p.segments = [][]*xmlNode{nil}
	}
	p.segments = append(p.segments, nil)
	p.seps = append(p.seps, sep)
}

func segmentText(seg []*xmlNode) string {
	var buf []byte
	for _, n := range seg {
		buf = append(buf, n.Content...)
	}
	return string(buf)
}

// Text - full paragraph text, runs merged, tabs and breaks kept
func (p *paragraph) Text() string {
	var sb strings.Builder
	for i, seg := range p.segments {
		if i > 0 {
			sb.WriteString(p.seps[i-1])
		}
		sb.WriteString(segmentText(seg))
	}
	return sb.String()
}

// Segment texts; placeholders are searched inside these
func (p *paragraph) segmentTexts() []string {
	texts := make([]string, len(p.segments))
	for i, seg := range p.segments {
		texts[i] = segmentText(seg)
	}
	return texts
}

// Run level w:tab, w:br, w:cr are visible text separators.
// w:tab inside w:tabs (tab stops) is not.
func breakSep(n *xmlNode) (string, bool) {
	if n.parent == nil || !n.parent.isWordTag("r") {
		return "", false
	}
	switch {
	case n.isWordTag("tab"):
		return "\t", true
	case n.isWordTag("br", "cr"):
		return "\n", true
	}
	return "", false
}

// Paragraphs in traversal order: body-level first, then table cells.
// A w:t belongs to its closest w:p, so text box paragraphs stand alone.
func (part *docPart) paragraphs() []*paragraph {
	var body, cells []*paragraph
	index := map[*xmlNode]*paragraph{}

	part.root.Walk(func(n *xmlNode) {
		if n.isParagraph() {
			p := &paragraph{
				node:    n,
				inTable: n.closestUp([]string{"tc"}) != nil,
			}
			index[n] = p
			if p.inTable {
				cells = append(cells, p)
			} else {
				body = append(body, p)
			}
			return
		}

		if n.isText() {
			if p, ok := index[n.closestUp([]string{"p"})]; ok {
				p.addText(n)
			}
			return
		}

		if sep, ok := breakSep(n); ok {
			if p, ok := index[n.closestUp([]string{"p"})]; ok {
				p.addBreak(sep)
			}
		}
	})

	return append(body, cells...)
}

// Render part back to bytes.
// Only modified w:t contents are spliced in, everything else is copied
// from raw as is.
func (part *docPart) bytes() []byte {
	if !part.root.hasModified() {
		return part.raw
	}

	var out bytes.Buffer
	last := 0
	part.root.Walk(func(n *xmlNode) {
		if !n.isModified || n.selfClosing {
			return
		}

		switch {
		case !needsPreserve(n.Content) || n.preserve:
			out.Write(part.raw[last:n.start])
		case n.hasSpace:
			// xml:space="default" --> xml:space="preserve"
			out.Write(part.raw[last:n.tagStart])
			out.Write(reSpaceAttr.ReplaceAll(part.raw[n.tagStart:n.start], []byte(`xml:space="preserve"`)))
		default:
			// n.start-1 is ">" of start tag
			out.Write(part.raw[last : n.start-1])
			out.WriteString(` xml:space="preserve">`)
		}
		out.Write(escapeText(n.Content))
		last = n.end
	})
	out.Write(part.raw[last:])

	return out.Bytes()
}
