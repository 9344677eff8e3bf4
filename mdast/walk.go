package mdast

import (
	"reflect"
	"strings"

	"github.com/alnah/go-docmark/internal/visit"
)

func children(n *Node) []*Node { return n.Children }

// Select returns every node under root, root included, for which keep is true,
// in document order.
func Select(root *Node, keep func(*Node) bool) []*Node {
	if root == nil {
		return nil
	}
	return visit.Select(root, children, keep)
}

// OfType returns every node of type t in document order.
func OfType(root *Node, t Type) []*Node {
	return Select(root, func(n *Node) bool { return n.Type == t })
}

// Each visits root and its descendants in pre-order.
// Returning false skips the children of the current node.
func Each(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	visit.Walk(root, children, fn)
}

// Map rebuilds the tree bottom-up. fn receives a shallow copy of each node
// whose children have already been mapped; returning nil removes the node.
// The input tree is not modified.
func Map(root *Node, fn func(*Node) *Node) *Node {
	if root == nil {
		return nil
	}
	return visit.Fold(root, children, func(n *Node, kids []*Node) *Node {
		c := &Node{Type: n.Type, Value: n.Value, Position: n.Position}
		if n.Attrs != nil {
			c.Attrs = n.Attrs.clone()
		}
		for _, k := range kids {
			if k != nil {
				c.Children = append(c.Children, k)
			}
		}
		return fn(c)
	})
}

// Normalize returns a copy of root with illegal attributes dropped and heading
// depths clamped to [1,6]. Leaf types lose any children.
func Normalize(root *Node) *Node {
	return Map(root, func(n *Node) *Node {
		if !Legal(n.Type, n.Attrs) {
			n.Attrs = nil
		}
		if n.Type.Leaf() {
			n.Children = nil
		}
		if n.Type == Heading {
			h, ok := n.Attrs.(*HeadingAttrs)
			if !ok {
				h = &HeadingAttrs{Depth: 1}
				n.Attrs = h
			}
			h.Depth = min(max(h.Depth, 1), 6)
		}
		return n
	})
}

// Equal reports whether a and b are structurally equal. Positions are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Value != b.Value || len(a.Children) != len(b.Children) {
		return false
	}
	if !reflect.DeepEqual(a.Attrs, b.Attrs) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// TextContent concatenates the text carried by n and its descendants.
// Images contribute their alt text.
func TextContent(n *Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	Each(n, func(c *Node) bool {
		switch {
		case c.Value != "":
			b.WriteString(c.Value)
		case c.Type == Image:
			if img, ok := c.Attrs.(*ImageAttrs); ok {
				b.WriteString(img.Alt)
			}
		}
		return true
	})
	return b.String()
}
