// Package tree builds hierarchical display trees from flat asset collections.
//
// The builder is a pure function: it never mutates the catalog it reads from,
// and every call produces a fresh tree. Consumers (typically a GUI tree
// widget) switch on [Node.Kind] to distinguish real package assets from
// synthetic directory nodes.
package tree

import (
	"iter"

	"github.com/habedi/uview"
	"github.com/habedi/uview/internal/pathutil"
)

// Kind identifies a tree node variant.
type Kind int

const (
	// KindDirectory marks a synthetic node for a path segment with no
	// corresponding asset. The root node is also a KindDirectory.
	KindDirectory Kind = iota

	// KindAsset marks a node backed by exactly one package asset, whether a
	// file or a folder asset.
	KindAsset
)

// Node is one entry in the display tree.
//
// Nodes form a strict tree: every non-root node has exactly one parent. The
// root is a synthetic container with an empty path; tree widgets render it
// hidden with the top-level package folders as its visible children.
type Node struct {
	kind     Kind
	path     string
	asset    uview.Asset
	parent   *Node
	children []*Node
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Path returns the node's normalized path. Directory node paths end in a
// single trailing slash; the root's path is empty.
func (n *Node) Path() string { return n.path }

// Name returns the node's display label: the last path element.
func (n *Node) Name() string { return pathutil.Base(n.path) }

// Asset returns the backing asset for KindAsset nodes; ok is false for
// directory nodes.
func (n *Node) Asset() (uview.Asset, bool) {
	if n.kind != KindAsset {
		return uview.Asset{}, false
	}
	return n.asset, true
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether the node is the synthetic root.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Children returns the node's children in insertion order.
// The returned slice aliases the node and must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Len returns the number of direct children.
func (n *Node) Len() int { return len(n.children) }

// Walk returns a depth-first iterator over the node's descendants,
// excluding the node itself.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	for _, child := range n.children {
		if !yield(child) {
			return false
		}
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// Build constructs a display tree from a flat collection of assets.
//
// Parent directory nodes are created on demand for every path segment that
// has no asset of its own. An empty or nil collection yields a valid empty
// root. Children are appended in asset order, so callers wanting a
// deterministic tree should pass an ordered collection (for example
// [uview.Package.AssetsSorted]).
//
// A path slot is occupied by its first writer: when a synthetic directory
// node was already created for an asset's exact path (because another
// asset's ancestor chain passed through it), the asset keeps its catalog
// entry but gets no node of its own. The reverse order leaves the asset node
// in place and hangs the other asset's chain off it.
func Build(assets []uview.Asset) *Node {
	root := &Node{kind: KindDirectory}
	if len(assets) == 0 {
		return root
	}

	nodes := map[string]*Node{"": root}

	for _, asset := range assets {
		path := pathutil.Normalize(asset.Path())
		parent := ensurePath(nodes, root, pathutil.Parent(path))

		if _, ok := nodes[path]; ok {
			continue
		}
		node := &Node{
			kind:   KindAsset,
			path:   path,
			asset:  asset,
			parent: parent,
		}
		parent.children = append(parent.children, node)
		nodes[path] = node
	}

	return root
}

// ensurePath resolves the node for a directory path, creating the node and
// any missing ancestors as synthetic directory entries. The empty path
// resolves to the root.
func ensurePath(nodes map[string]*Node, root *Node, path string) *Node {
	if path == "" {
		return root
	}
	if node, ok := nodes[path]; ok {
		return node
	}

	parent := ensurePath(nodes, root, pathutil.Parent(path))
	node := &Node{
		kind:   KindDirectory,
		path:   path + "/",
		parent: parent,
	}
	parent.children = append(parent.children, node)
	nodes[path] = node
	return node
}
