package renderer

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/quill/internal/errors"
	"github.com/vango-dev/quill/pkg/memtree"
	"github.com/vango-dev/quill/pkg/vnode"
)

func assertOps(t *testing.T, tree *memtree.Tree, want ...string) {
	t.Helper()
	got := opLines(tree)
	if len(got) != len(want) {
		t.Fatalf("ops =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMountElement(t *testing.T) {
	tree, root, r := newTestRenderer()

	r.Render(vnode.H("div", vnode.Props{"class": "a"}, "hi"), root)

	assertOps(t, tree,
		`create-element #2 div`,
		`set-element-text #2 "hi"`,
		`patch-prop #2 class nil -> "a"`,
		`insert #2 into #1 at end`,
	)
	if got := memtree.InnerHTML(root); got != `<div class="a">hi</div>` {
		t.Errorf("html = %s", got)
	}
}

func TestPatchTextNode(t *testing.T) {
	tree, root, r := newTestRenderer()

	r.Render(vnode.Text("a"), root)
	tree.Reset()

	r.Render(vnode.Text("b"), root)
	assertOps(t, tree, `set-text #2 "b"`)

	tree.Reset()
	r.Render(vnode.Text("b"), root)
	assertOps(t, tree)
}

func TestPatchProps(t *testing.T) {
	tree, root, r := newTestRenderer()

	r.Render(vnode.H("div", vnode.Props{"class": "a", "id": "x", "title": "t"}), root)
	tree.Reset()

	r.Render(vnode.H("div", vnode.Props{"class": "b", "id": "x", "data": 1}), root)

	assertOps(t, tree,
		`patch-prop #2 class "a" -> "b"`,
		`patch-prop #2 data nil -> 1`,
		`patch-prop #2 title "t" -> nil`,
	)
}

func TestReplaceAtSamePosition(t *testing.T) {
	tree, root, r := newTestRenderer()

	r.Render(vnode.H("section", nil, vnode.H("p", nil, "a"), vnode.H("span", nil, "b")), root)
	tree.Reset()

	r.Render(vnode.H("section", nil, vnode.H("div", nil, "a"), vnode.H("span", nil, "b")), root)

	assertOps(t, tree,
		`remove #3`,
		`create-element #5 div`,
		`set-element-text #5 "a"`,
		`insert #5 into #2 before #4`,
	)
	if got := memtree.InnerHTML(root); got != "<section><div>a</div><span>b</span></section>" {
		t.Errorf("html = %s", got)
	}
}

func TestReplaceRoot(t *testing.T) {
	tree, root, r := newTestRenderer()

	r.Render(vnode.H("p", nil, "a"), root)
	r.Render(vnode.Text("plain"), root)

	if got := memtree.InnerHTML(root); got != "plain" {
		t.Errorf("html = %s", got)
	}
	if tree.Count(memtree.OpRemove) != 1 {
		t.Errorf("removes = %d, want 1", tree.Count(memtree.OpRemove))
	}
}

func TestChildrenShapeTransitions(t *testing.T) {
	tree, root, r := newTestRenderer()

	r.Render(vnode.H("div", nil, "t"), root)

	tree.Reset()
	r.Render(vnode.H("div", nil, vnode.H("span", nil, "x")), root)
	assertOps(t, tree,
		`set-element-text #2 ""`,
		`create-element #3 span`,
		`set-element-text #3 "x"`,
		`insert #3 into #2 at end`,
	)

	tree.Reset()
	r.Render(vnode.H("div", nil, "u"), root)
	assertOps(t, tree,
		`remove #3`,
		`set-element-text #2 "u"`,
	)

	tree.Reset()
	r.Render(vnode.H("div", nil, "u"), root)
	assertOps(t, tree)

	tree.Reset()
	r.Render(vnode.H("div", nil), root)
	assertOps(t, tree, `set-element-text #2 ""`)

	r.Render(vnode.H("div", nil, vnode.Text("a"), vnode.Text("b")), root)
	tree.Reset()
	r.Render(vnode.H("div", nil), root)
	assertOps(t, tree, `remove #4`, `remove #5`)
}

func TestUnkeyedChildren(t *testing.T) {
	tree, root, r := newTestRenderer()
	r.Render(plainList("a", "b"), root)

	tree.Reset()
	r.Render(plainList("a", "b", "c"), root)
	if tree.Count(memtree.OpCreateElement) != 1 || tree.Count(memtree.OpInsert) != 1 {
		t.Errorf("grow ops:\n%s", tree.Log())
	}

	tree.Reset()
	r.Render(plainList("a", "z"), root)
	assertOps(t, tree, `set-element-text #4 "z"`, `remove #5`)

	if got := memtree.InnerHTML(root); got != "<ul><li>a</li><li>z</li></ul>" {
		t.Errorf("html = %s", got)
	}
}

func TestKeyedMinimalMove(t *testing.T) {
	tree, root, r := newTestRenderer()
	r.Render(keyedList("a", "b", "c", "d"), root)

	tree.Reset()
	r.Render(keyedList("a", "c", "b", "d"), root)

	// a=#3 b=#4 c=#5 d=#6
	assertOps(t, tree, `move #5 into #2 before #4`)
	if got := memtree.InnerHTML(root); got != "<ul><li>a</li><li>c</li><li>b</li><li>d</li></ul>" {
		t.Errorf("html = %s", got)
	}
}

func TestKeyedAppendAndPrepend(t *testing.T) {
	tree, root, r := newTestRenderer()
	r.Render(keyedList("a", "b"), root)

	tree.Reset()
	r.Render(keyedList("a", "b", "c"), root)
	assertOps(t, tree,
		`create-element #5 li`,
		`set-element-text #5 "c"`,
		`insert #5 into #2 at end`,
	)

	tree.Reset()
	r.Render(keyedList("z", "a", "b", "c"), root)
	assertOps(t, tree,
		`create-element #6 li`,
		`set-element-text #6 "z"`,
		`insert #6 into #2 before #3`,
	)
}

func TestKeyedRemoveMiddle(t *testing.T) {
	tree, root, r := newTestRenderer()
	r.Render(keyedList("a", "b", "c", "d"), root)

	tree.Reset()
	r.Render(keyedList("a", "d"), root)

	assertOps(t, tree, `remove #4`, `remove #5`)
}

func TestKeyedReplaceUnknownKey(t *testing.T) {
	tree, root, r := newTestRenderer()
	r.Render(keyedList("a", "b", "c"), root)

	tree.Reset()
	r.Render(keyedList("a", "x", "c"), root)

	assertOps(t, tree,
		`remove #4`,
		`create-element #6 li`,
		`set-element-text #6 "x"`,
		`insert #6 into #2 before #5`,
	)
}

func TestKeyedPatchesContent(t *testing.T) {
	tree, root, r := newTestRenderer()
	r.Render(keyedList("a:1", "b:2"), root)

	tree.Reset()
	r.Render(keyedList("b:20", "a:1"), root)

	if tree.Count(memtree.OpMove) != 1 {
		t.Errorf("moves = %d, want 1", tree.Count(memtree.OpMove))
	}
	if tree.Count(memtree.OpSetElementText) != 1 {
		t.Errorf("text updates = %d, want 1", tree.Count(memtree.OpSetElementText))
	}
	if got := memtree.InnerHTML(root); got != "<ul><li>20</li><li>1</li></ul>" {
		t.Errorf("html = %s", got)
	}
}

func TestKeyedMatchesUnkeyedOfSameType(t *testing.T) {
	tree, root, r := newTestRenderer()

	old := vnode.H("ul", nil,
		vnode.H("li", vnode.Props{"key": "a"}, "a"),
		vnode.H("p", nil, "u"),
		vnode.H("li", vnode.Props{"key": "b"}, "b"),
	)
	r.Render(old, root)

	tree.Reset()
	next := vnode.H("ul", nil,
		vnode.H("li", vnode.Props{"key": "b"}, "b"),
		vnode.H("p", nil, "u2"),
		vnode.H("li", vnode.Props{"key": "a"}, "a"),
	)
	r.Render(next, root)

	if n := tree.Count(memtree.OpCreateElement) + tree.Count(memtree.OpRemove); n != 0 {
		t.Errorf("creates+removes = %d, want 0:\n%s", n, tree.Log())
	}
	if tree.Count(memtree.OpMove) != 2 {
		t.Errorf("moves = %d, want 2", tree.Count(memtree.OpMove))
	}
	if got := memtree.InnerHTML(root); got != "<ul><li>b</li><p>u2</p><li>a</li></ul>" {
		t.Errorf("html = %s", got)
	}
}

func TestKeyedRoundTrip(t *testing.T) {
	orders := [][]string{
		{"b", "a", "c", "d", "e"},
		{"e", "d", "c", "b", "a"},
		{"a", "x", "y", "e"},
		{"c"},
		{},
		{"f", "a", "g", "c", "b"},
	}
	original := []string{"a", "b", "c", "d", "e"}

	for _, order := range orders {
		t.Run(strings.Join(order, ""), func(t *testing.T) {
			_, root, r := newTestRenderer()
			r.Render(keyedList(original...), root)
			want := memtree.InnerHTML(root)

			r.Render(keyedList(order...), root)
			r.Render(keyedList(original...), root)

			if got := memtree.InnerHTML(root); got != want {
				t.Errorf("round trip html = %s, want %s", got, want)
			}

			_, freshRoot, fresh := newTestRenderer()
			fresh.Render(keyedList(order...), freshRoot)
			r.Render(keyedList(order...), root)
			if got, want := memtree.InnerHTML(root), memtree.InnerHTML(freshRoot); got != want {
				t.Errorf("patched html = %s, fresh mount = %s", got, want)
			}
		})
	}
}

func TestDuplicateKeyNotifiesObserver(t *testing.T) {
	obs := &codeRecorder{}
	tree := memtree.New()
	root := tree.Container("div")
	r := New(tree, WithLogger(quietLogger()), observedRuntime(obs))

	r.Render(keyedList("a", "b"), root)
	if len(obs.codes) != 0 {
		t.Fatalf("codes after mount = %v", obs.codes)
	}
	r.Render(keyedList("c:1", "c:2"), root)
	if len(obs.codes) != 1 || obs.codes[0] != "Q305" {
		t.Errorf("codes = %v, want [Q305]", obs.codes)
	}
}

func TestDuplicateKeyWarns(t *testing.T) {
	var buf bytes.Buffer
	tree := memtree.New()
	root := tree.Container("div")
	r := New(tree, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	r.Render(keyedList("a", "b"), root)
	r.Render(keyedList("c:1", "c:2"), root)

	if !strings.Contains(buf.String(), "code=Q305") {
		t.Errorf("log missing Q305:\n%s", buf.String())
	}
	if got := memtree.InnerHTML(root); got != "<ul><li>1</li><li>2</li></ul>" {
		t.Errorf("html = %s", got)
	}
}

func TestUnmountRemovesOnlyOutermost(t *testing.T) {
	tree, root, r := newTestRenderer()
	list := keyedList("a", "b", "c")
	r.Render(list, root)

	tree.Reset()
	r.Render(nil, root)

	assertOps(t, tree, `remove #2`)
	if len(root.Children) != 0 {
		t.Error("container not empty")
	}
}

func TestMountReusedNode(t *testing.T) {
	_, root, r := newTestRenderer()
	li := vnode.H("li", nil, "x")

	r.Render(vnode.H("ul", nil, li, li), root)

	if got := memtree.InnerHTML(root); got != "<ul><li>x</li><li>x</li></ul>" {
		t.Errorf("html = %s", got)
	}
}

func TestPatchSameNodeIsNoop(t *testing.T) {
	tree, root, r := newTestRenderer()
	n := keyedList("a")
	r.Render(n, root)

	tree.Reset()
	r.Render(n, root)
	assertOps(t, tree)
}

func TestInvalidShapePanics(t *testing.T) {
	_, root, r := newTestRenderer()
	bad := &vnode.Node{Kind: vnode.KindElement, Tag: "div", Shape: vnode.ChildShape(9)}

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok {
			t.Fatalf("recovered %v, want error", rec)
		}
		var qe *errors.QuillError
		if !stderrors.As(err, &qe) || qe.Code != "Q301" {
			t.Errorf("panic = %v, want Q301", err)
		}
	}()
	r.Render(bad, root)
}
