package renderer

import (
	"log/slog"

	"github.com/vango-dev/quill/internal/errors"
	"github.com/vango-dev/quill/pkg/vnode"
)

// patchChildren reconciles the children of two same-type elements.
//
//	old \ new | None         | Text          | List
//	None      | -            | set text      | mount all
//	Text      | clear text   | set if differ | clear, mount all
//	List      | unmount all  | unmount, set  | diff
func (r *Renderer) patchChildren(n1, n2 *vnode.Node, el, anchor any, parent *instance) {
	switch n2.Shape {
	case vnode.ShapeNone:
		switch n1.Shape {
		case vnode.ShapeList:
			r.unmountChildren(n1.Children)
		case vnode.ShapeText:
			r.host.SetElementText(el, "")
		}

	case vnode.ShapeText:
		if n1.Shape == vnode.ShapeList {
			r.unmountChildren(n1.Children)
		}
		if n1.Shape != vnode.ShapeText || n1.Text != n2.Text {
			r.host.SetElementText(el, n2.Text)
		}

	case vnode.ShapeList:
		switch n1.Shape {
		case vnode.ShapeList:
			if hasKeys(n1.Children) || hasKeys(n2.Children) {
				r.patchKeyedChildren(n1.Children, n2.Children, el, anchor, parent)
			} else {
				r.patchUnkeyedChildren(n1.Children, n2.Children, el, anchor, parent)
			}
		case vnode.ShapeText:
			r.host.SetElementText(el, "")
			r.mountChildren(n2.Children, el, anchor, 0, parent)
		default:
			r.mountChildren(n2.Children, el, anchor, 0, parent)
		}

	default:
		panic(errors.New("Q301").WithDetailf("%v has children shape %s", n2, n2.Shape))
	}
}

// mountChildren mounts children[start:] before anchor. A child that is
// already mounted elsewhere is replaced by a fresh copy.
func (r *Renderer) mountChildren(children []*vnode.Node, container, anchor any, start int, parent *instance) {
	for i := start; i < len(children); i++ {
		if children[i].El != nil {
			children[i] = children[i].Clone()
		}
		r.patch(nil, children[i], container, anchor, parent)
	}
}

func (r *Renderer) unmountChildren(children []*vnode.Node) {
	for _, c := range children {
		r.unmount(c, true)
	}
}

func hasKeys(children []*vnode.Node) bool {
	for _, c := range children {
		if c.HasKey() {
			return true
		}
	}
	return false
}

// patchUnkeyedChildren patches children pairwise by position, then mounts
// or unmounts the excess.
func (r *Renderer) patchUnkeyedChildren(c1, c2 []*vnode.Node, container, anchor any, parent *instance) {
	common := min(len(c1), len(c2))
	for i := 0; i < common; i++ {
		r.patch(c1[i], r.fresh(c2, i, c1[i]), container, nil, parent)
	}
	if len(c1) > len(c2) {
		r.unmountChildren(c1[common:])
		return
	}
	r.mountChildren(c2, container, anchor, common, parent)
}

// fresh returns c2[i], replacing it with a copy when it is a node mounted
// somewhere other than old.
func (r *Renderer) fresh(c2 []*vnode.Node, i int, old *vnode.Node) *vnode.Node {
	if c2[i] != old && c2[i].El != nil {
		c2[i] = c2[i].Clone()
	}
	return c2[i]
}

// patchKeyedChildren reconciles two child lists where at least one carries
// keys.
func (r *Renderer) patchKeyedChildren(c1, c2 []*vnode.Node, container, parentAnchor any, parent *instance) {
	i := 0
	e1 := len(c1) - 1
	e2 := len(c2) - 1

	// 1. sync from start
	// (a b) c
	// (a b) d e
	for i <= e1 && i <= e2 {
		n1, n2 := c1[i], r.fresh(c2, i, c1[i])
		if !vnode.SameNode(n1, n2) {
			break
		}
		r.patch(n1, n2, container, nil, parent)
		i++
	}

	// 2. sync from end
	// a (b c)
	// d e (b c)
	for i <= e1 && i <= e2 {
		n1, n2 := c1[e1], r.fresh(c2, e2, c1[e1])
		if !vnode.SameNode(n1, n2) {
			break
		}
		r.patch(n1, n2, container, nil, parent)
		e1--
		e2--
	}

	// 3. common sequence + mount
	// (a b)
	// (a b) c
	if i > e1 {
		if i <= e2 {
			anchor := parentAnchor
			if e2+1 < len(c2) {
				anchor = hostEl(c2[e2+1])
			}
			r.mountChildren(c2[:e2+1], container, anchor, i, parent)
		}
		return
	}

	// 4. common sequence + unmount
	// (a b) c
	// (a b)
	if i > e2 {
		r.unmountChildren(c1[i : e1+1])
		return
	}

	// 5. unknown sequence
	// [i ... e1 + 1]: a b [c d e] f g
	// [i ... e2 + 1]: a b [e d c h] f g
	s1, s2 := i, i

	keyToNewIndex := make(map[any]int)
	for j := s2; j <= e2; j++ {
		n := r.fresh(c2, j, nil)
		if !n.HasKey() {
			continue
		}
		if _, dup := keyToNewIndex[n.Key]; dup {
			r.warn(errors.New("Q305").WithDetailf("%v", n.Key), slog.Any("key", n.Key))
		}
		keyToNewIndex[n.Key] = j
	}

	toBePatched := e2 - s2 + 1
	patched := 0
	moved := false
	maxNewIndexSoFar := 0

	// newIndexToOldIndex[k] is 1 + the old index reused for new position
	// s2+k, or 0 when the new node has no old counterpart.
	newIndexToOldIndex := make([]int, toBePatched)

	for j := s1; j <= e1; j++ {
		prev := c1[j]
		if patched >= toBePatched {
			r.unmount(prev, true)
			continue
		}

		newIndex := -1
		if prev.HasKey() {
			if ni, ok := keyToNewIndex[prev.Key]; ok && newIndexToOldIndex[ni-s2] == 0 {
				newIndex = ni
			}
		} else {
			for k := s2; k <= e2; k++ {
				if newIndexToOldIndex[k-s2] == 0 && !c2[k].HasKey() && vnode.SameType(prev, c2[k]) {
					newIndex = k
					break
				}
			}
		}

		if newIndex < 0 {
			r.unmount(prev, true)
			continue
		}

		newIndexToOldIndex[newIndex-s2] = j + 1
		if newIndex >= maxNewIndexSoFar {
			maxNewIndexSoFar = newIndex
		} else {
			moved = true
		}
		r.patch(prev, c2[newIndex], container, nil, parent)
		patched++
	}

	// Walk backwards so every anchor is already in its final place.
	var seq []int
	if moved {
		seq = longestIncreasingSubsequence(newIndexToOldIndex)
	}
	last := len(seq) - 1
	for k := toBePatched - 1; k >= 0; k-- {
		ni := s2 + k
		n := c2[ni]
		anchor := parentAnchor
		if ni+1 < len(c2) {
			anchor = hostEl(c2[ni+1])
		}

		switch {
		case newIndexToOldIndex[k] == 0:
			r.patch(nil, n, container, anchor, parent)
		case moved:
			if last < 0 || k != seq[last] {
				r.move(n, container, anchor)
			} else {
				last--
			}
		}
	}
}
