package docxfill

import (
	"bytes"
	"sort"
	"strings"
)

// Placeholder found in paragraph text but split between several w:t nodes.
// "w-p" can hold multiple "w-r" and every "w-r" holds its own "w-t",
// so "[Com" + "pany Name]" must be gathered before replacing.
// -
// The whole placeholder moves into the node where it starts (its styles
// win), the following nodes lose the moved part.
func (t *Template) fixBrokenPlaceholders(p *paragraph, keys []string) {
	for _, seg := range p.segments {
		fixBrokenSegment(seg, keys)
	}
}

// Merge within one segment: text nodes not separated by tab or break
func fixBrokenSegment(texts []*xmlNode, keys []string) {
	if len(texts) < 2 {
		return
	}

	var full []byte
	var owner []int // text node index for every byte of full
	for i, n := range texts {
		full = append(full, n.Content...)
		for range n.Content {
			owner = append(owner, i)
		}
	}

	type span struct{ start, end int }
	var spans []span
	for _, key := range keys {
		if key == "" {
			continue
		}
		bkey := []byte(key)
		for off := 0; off < len(full); {
			i := bytes.Index(full[off:], bkey)
			if i < 0 {
				break
			}
			s := off + i
			spans = append(spans, span{s, s + len(bkey)})
			off = s + len(bkey)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	isBroken := false
	for _, sp := range spans {
		first := owner[sp.start]
		for j := sp.start; j < sp.end; j++ {
			if owner[j] != first {
				owner[j] = first
				isBroken = true
			}
		}
	}
	if !isBroken {
		return
	}

	contents := make([][]byte, len(texts))
	for j, b := range full {
		contents[owner[j]] = append(contents[owner[j]], b)
	}
	for i, n := range texts {
		n.setContent(contents[i])
	}
}

// Replace every mapped placeholder inside paragraph text nodes
func (t *Template) replaceSingleParams(p *paragraph, r *strings.Replacer) {
	for _, n := range p.texts {
		if len(n.Content) == 0 {
			continue
		}
		n.setContent([]byte(r.Replace(string(n.Content))))
	}
}

// Paragraph contains at least one of keys
func containsAny(text string, keys []string) bool {
	for _, key := range keys {
		if key != "" && strings.Contains(text, key) {
			return true
		}
	}
	return false
}

// Single pass replacer: inserted values are never scanned again,
// so a value like "[Other]" stays literal
func newValuesReplacer(keys []string, values Values) *strings.Replacer {
	oldnew := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		oldnew = append(oldnew, key, values[key])
	}
	return strings.NewReplacer(oldnew...)
}
