package syntax

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns a non-nil error the walk stops and returns it.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}
	if err := walkFunc(root); err != nil {
		return err
	}
	for _, child := range root.Children {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}
	return nil
}

// FindAll returns all nodes matching the predicate in pre-order.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind Kind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	count := 0

	//nolint:errcheck // Walk only returns nil errors in this usage
	Walk(root, func(*Node) error {
		count++
		return nil
	})

	return count
}

// numberNodes assigns pre-order indices starting at zero.
func numberNodes(root *Node) {
	next := 0

	//nolint:errcheck // Walk only returns nil errors in this usage
	Walk(root, func(n *Node) error {
		n.index = next
		next++
		return nil
	})
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
