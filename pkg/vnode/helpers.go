package vnode

// If returns node when condition holds and nil otherwise. Nil children are
// skipped by H, so If can sit directly in a child list.
func If(condition bool, node *Node) *Node {
	if condition {
		return node
	}
	return nil
}

// Range builds one node per item. Nil results are dropped, so fn can
// filter.
func Range[T any](items []T, fn func(item T, index int) *Node) []*Node {
	out := make([]*Node, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			out = append(out, n)
		}
	}
	return out
}
