package thread

import (
	"github.com/google/uuid"
	"github.com/romangod6/blog-api/internal/models"
)

// Node is one comment of a rebuilt thread with its direct responses.
type Node struct {
	Comment   *models.Comment
	Responses []*Node
}

// Tree rebuilds the forest described by a flat list of comments. Input
// order is kept among siblings. A comment whose parent is not in the list
// is promoted to a root so nothing is dropped.
func Tree(comments []*models.Comment) []*Node {
	nodes := make(map[uuid.UUID]*Node, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &Node{Comment: c}
	}

	roots := []*Node{}
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != node {
				parent.Responses = append(parent.Responses, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return roots
}

// Walk visits nodes depth first, passing the nesting depth of each.
func Walk(nodes []*Node, fn func(node *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, child := range n.Responses {
			visit(child, depth+1)
		}
	}
	for _, n := range nodes {
		visit(n, 0)
	}
}
