package docxfill

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// WordprocessingML namespaces (transitional and strict)
const (
	nsWordML       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsWordMLStrict = "http://purl.oclc.org/ooxml/wordprocessingml/main"
	nsXML          = "http://www.w3.org/XML/1998/namespace"
)

type xmlNode struct {
	XMLName xml.Name
	Content []byte // decoded character data, collected for w:t only
	Nodes   []*xmlNode

	parent *xmlNode

	// byte offsets inside raw part
	tagStart    int // "<" of start tag
	start       int // right after start tag
	end         int // "<" of end tag
	selfClosing bool
	hasSpace    bool // any xml:space attribute
	preserve    bool // xml:space="preserve"

	isModified bool
}

// Walk down all nodes and do custom stuff with given function
func (xnode *xmlNode) Walk(fn func(*xmlNode)) {
	for _, n := range xnode.Nodes {
		if n == nil {
			continue
		}

		fn(n) // do your custom stuff

		if len(n.Nodes) > 0 {
			// continue only if have deeper nodes
			n.Walk(fn)
		}
	}
}

// Tag - local tag name without namespace
func (xnode *xmlNode) Tag() string {
	return xnode.XMLName.Local
}

// Node belongs to wordprocessing namespace
func (xnode *xmlNode) isWord() bool {
	switch xnode.XMLName.Space {
	case nsWordML, nsWordMLStrict:
		return true
	}
	return false
}

func (xnode *xmlNode) isWordTag(tags ...string) bool {
	return xnode.isWord() && inSlice(xnode.Tag(), tags)
}

// w:p
func (xnode *xmlNode) isParagraph() bool {
	return xnode.isWordTag("p")
}

// w:t (w:delText and w:instrText are not visible text)
func (xnode *xmlNode) isText() bool {
	return xnode.isWordTag("t")
}

// closestUp - closest parent with one of given tags
func (xnode *xmlNode) closestUp(tags []string) *xmlNode {
	for n := xnode.parent; n != nil; n = n.parent {
		if n.isWordTag(tags...) {
			return n
		}
	}
	return nil
}

// Contents - return contents of this and all childs contents merge
func (xnode *xmlNode) Contents() []byte {
	buf := append([]byte(nil), xnode.Content...)
	xnode.Walk(func(n *xmlNode) {
		buf = append(buf, n.Content...)
	})
	return buf
}

// setContent - replace text and mark node for rendering
func (xnode *xmlNode) setContent(buf []byte) {
	if bytes.Equal(xnode.Content, buf) {
		return
	}
	xnode.Content = buf
	xnode.isModified = true
}

// Any modified node in this tree
func (xnode *xmlNode) hasModified() bool {
	found := xnode.isModified
	xnode.Walk(func(n *xmlNode) {
		found = found || n.isModified
	})
	return found
}

// Copy node as new and all childs as new too
// no shared addresses as it would be by only copying it
func (xnode *xmlNode) clone() *xmlNode {
	if xnode == nil {
		return nil
	}

	xnodeCopy := &xmlNode{}
	*xnodeCopy = *xnode
	xnodeCopy.Content = append([]byte(nil), xnode.Content...)
	xnodeCopy.Nodes = nil

	for _, n := range xnode.Nodes {
		ncopy := n.clone()
		if ncopy != nil {
			ncopy.parent = xnodeCopy
		}
		xnodeCopy.Nodes = append(xnodeCopy.Nodes, ncopy)
	}

	return xnodeCopy
}

// String get node as string for debugging purposes
func (xnode *xmlNode) String() string {
	s := fmt.Sprintf("%s: ", xnode.Tag())
	s += fmt.Sprintf("[%s] == ", xnode.Content)
	s += fmt.Sprintf("[%s]", xnode.Contents())
	if xnode.parent != nil {
		s += fmt.Sprintf("\tParent: %s", xnode.parent.Tag())
	}
	return s
}
