// Package visit provides depth-first tree traversal generic over the node type.
// Both document trees and hypertext trees are walked through these helpers.
package visit

// ChildrenFunc returns the ordered children of a node.
type ChildrenFunc[T any] func(T) []T

// Walk visits root and its descendants in pre-order.
// Returning false from fn skips the children of the current node.
func Walk[T any](root T, children ChildrenFunc[T], fn func(T) bool) {
	if !fn(root) {
		return
	}
	for _, c := range children(root) {
		Walk(c, children, fn)
	}
}

// Select returns every node in pre-order for which keep reports true.
func Select[T any](root T, children ChildrenFunc[T], keep func(T) bool) []T {
	var out []T
	Walk(root, children, func(n T) bool {
		if keep(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Fold reduces the tree bottom-up: fn receives a node and the folded values
// of its children in order.
func Fold[T, R any](root T, children ChildrenFunc[T], fn func(T, []R) R) R {
	kids := children(root)
	acc := make([]R, 0, len(kids))
	for _, c := range kids {
		acc = append(acc, Fold(c, children, fn))
	}
	return fn(root, acc)
}
