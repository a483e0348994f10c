package template

// Compound merges every run of two or more adjacent Text and Interpolation
// children of root and its elements into a CompoundExpression. It modifies
// root in place and returns it.
func Compound(root *Root) *Root {
	root.Children = compoundChildren(root.Loc.Source, root.Loc.Start.Offset, root.Children)
	return root
}

func compoundChildren(src string, base int, children []Node) []Node {
	out := make([]Node, 0, len(children))
	for i := 0; i < len(children); i++ {
		if el, ok := children[i].(*Element); ok {
			el.Children = compoundChildren(src, base, el.Children)
		}
		if !isTextLike(children[i]) {
			out = append(out, children[i])
			continue
		}

		j := i + 1
		for j < len(children) && isTextLike(children[j]) {
			j++
		}
		if j-i == 1 {
			out = append(out, children[i])
			continue
		}

		run := append([]Node(nil), children[i:j]...)
		start, end := run[0].Location().Start, run[len(run)-1].Location().End
		out = append(out, &CompoundExpression{
			Type:     NodeCompoundExpression,
			Children: run,
			Loc:      Loc{Start: start, End: end, Source: src[start.Offset-base : end.Offset-base]},
		})
		i = j - 1
	}
	return out
}

func isTextLike(n Node) bool {
	switch n.(type) {
	case *Text, *Interpolation:
		return true
	}
	return false
}
