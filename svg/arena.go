package svg

import (
	"maps"
	"slices"
	"strings"

	"github.com/beevik/etree"
)

// Node is one element of a document with its name resolved against the
// namespace declarations in scope where it appears.
type Node struct {
	El     *etree.Element
	Parent int // index of the parent node, -1 for the root
	NS     string
	Local  string

	scope map[string]string // prefix to namespace URI
}

// Arena indexes every element of a document in document (pre) order, so
// that extracted structures can refer to elements by small stable
// integers. Ancestry and resolved names are kept even after an element
// is detached from the tree, which keeps error reporting possible for
// removed nodes. Child traversal always reads the live tree.
type Arena struct {
	Nodes []Node

	byEl map[*etree.Element]int
}

// baseScope holds the namespace bindings every document starts from.
// The sdv prefix is preloaded so attributes written by this tool resolve
// even before the declaration is serialized.
var baseScope = map[string]string{
	"xml":    NSXML,
	nsPrefix: NSSdv,
}

// NewArena indexes the subtree rooted at root. The root becomes node 0.
func NewArena(root *etree.Element) *Arena {
	a := &Arena{byEl: make(map[*etree.Element]int)}
	a.add(root, -1, baseScope)
	return a
}

func (a *Arena) add(el *etree.Element, parent int, scope map[string]string) {
	cloned := false
	for _, attr := range el.Attr {
		switch {
		case attr.Space == "" && attr.Key == "xmlns":
			if !cloned {
				scope, cloned = maps.Clone(scope), true
			}
			scope[""] = attr.Value
		case attr.Space == "xmlns":
			if !cloned {
				scope, cloned = maps.Clone(scope), true
			}
			scope[attr.Key] = attr.Value
		}
	}

	i := len(a.Nodes)
	a.Nodes = append(a.Nodes, Node{
		El:     el,
		Parent: parent,
		NS:     scope[el.Space],
		Local:  el.Tag,
		scope:  scope,
	})
	a.byEl[el] = i

	for _, child := range el.ChildElements() {
		a.add(child, i, scope)
	}
}

// Len returns the number of indexed nodes.
func (a *Arena) Len() int {
	return len(a.Nodes)
}

// Index returns the node index of el.
func (a *Arena) Index(el *etree.Element) (int, bool) {
	i, ok := a.byEl[el]
	return i, ok
}

// Element returns the element behind node i.
func (a *Arena) Element(i int) *etree.Element {
	return a.Nodes[i].El
}

// Parent returns the index of node i's parent, or -1 for the root.
func (a *Arena) Parent(i int) int {
	return a.Nodes[i].Parent
}

// Is reports whether node i has the given namespace and local name.
func (a *Arena) Is(i int, ns, local string) bool {
	return a.Nodes[i].NS == ns && a.Nodes[i].Local == local
}

// Attr returns the value of the named attribute of node i. Unprefixed
// attributes have no namespace; prefixed ones are resolved against the
// declarations in scope at the node.
func (a *Arena) Attr(i int, ns, local string) (string, bool) {
	n := &a.Nodes[i]
	for _, attr := range n.El.Attr {
		if (attr.Space == "" && attr.Key == "xmlns") || attr.Space == "xmlns" {
			continue
		}
		attrNS := ""
		if attr.Space != "" {
			attrNS = n.scope[attr.Space]
		}
		if attrNS == ns && attr.Key == local {
			return attr.Value, true
		}
	}
	return "", false
}

// Children returns the indices of node i's children still attached to
// the tree, in document order.
func (a *Arena) Children(i int) []int {
	var out []int
	for _, child := range a.Nodes[i].El.ChildElements() {
		if ci, ok := a.byEl[child]; ok {
			out = append(out, ci)
		}
	}
	return out
}

// RemoveNode detaches node i from its parent in the live tree. The
// arena entry stays valid for ancestry and attribute lookups.
func (a *Arena) RemoveNode(i int) {
	el := a.Nodes[i].El
	if parent := el.Parent(); parent != nil {
		parent.RemoveChild(el)
	}
}

// ensurePrefix declares the sdv namespace prefix on the root element.
func (a *Arena) ensurePrefix() {
	root := a.Nodes[0].El
	if root.SelectAttr("xmlns:"+nsPrefix) == nil {
		root.CreateAttr("xmlns:"+nsPrefix, NSSdv)
	}
}

// SetNodeAttr sets an NSSdv attribute on node i, declaring the prefix
// on the root element on first use.
func (a *Arena) SetNodeAttr(i int, local, value string) {
	a.ensurePrefix()
	a.Nodes[i].El.CreateAttr(nsPrefix+":"+local, value)
}

// SetRootAttr sets an NSSdv attribute on the root element.
func (a *Arena) SetRootAttr(local, value string) {
	a.SetNodeAttr(0, local, value)
}

// RootAttr returns the value of an NSSdv attribute of the root element.
func (a *Arena) RootAttr(local string) (string, bool) {
	return a.Attr(0, NSSdv, local)
}

// LayerChain returns the labels of the layers enclosing node i, from
// the outermost inwards. Node i itself is included when it is a layer.
func (a *Arena) LayerChain(i int) []string {
	var labels []string
	for n := i; n != -1; n = a.Nodes[n].Parent {
		if a.IsLayer(n) {
			labels = append(labels, a.LayerLabel(n))
		}
	}
	slices.Reverse(labels)
	return labels
}

// DescribeNode renders a human readable location of node i for error
// messages, naming the enclosing layers when there are any.
func (a *Arena) DescribeNode(i int) string {
	name := "<" + a.Nodes[i].Local + ">"
	if chain := a.LayerChain(i); len(chain) > 0 {
		return "on " + strings.Join(chain, " > ") + " in " + name
	}
	return "in " + name
}
