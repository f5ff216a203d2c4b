package docxfill

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Convert given bytes to tree of xml nodes.
// Every node remembers where it sits in buf so the part can be rebuilt
// by splicing only changed text back in.
func bytesToXMLStruct(buf []byte) (*xmlNode, error) {
	xdocNode := &xmlNode{end: len(buf)}

	d := xml.NewDecoder(bytes.NewReader(buf))
	cur := xdocNode
	for {
		offset := int(d.InputOffset())
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml at offset %d: %w", offset, err)
		}

		switch tk := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{
				XMLName:  tk.Name,
				parent:   cur,
				tagStart: offset,
				start:    int(d.InputOffset()),
			}
			n.selfClosing = bytes.HasSuffix(buf[n.tagStart:n.start], []byte("/>"))
			for _, attr := range tk.Attr {
				isSpace := attr.Name.Local == "space" && (attr.Name.Space == nsXML || attr.Name.Space == "xml")
				if isSpace {
					n.hasSpace = true
					n.preserve = attr.Value == "preserve"
				}
			}
			cur.Nodes = append(cur.Nodes, n)
			cur = n

		case xml.CharData:
			if cur.isText() {
				cur.Content = append(cur.Content, tk...)
			}

		case xml.EndElement:
			cur.end = offset
			if cur.parent != nil {
				cur = cur.parent
			}
		}
	}

	if cur != xdocNode {
		return nil, fmt.Errorf("xml: unclosed element <%s>", cur.Tag())
	}

	return xdocNode, nil
}
