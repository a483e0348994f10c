package renderer

import (
	"io"
	"log/slog"
	"strings"

	"github.com/vango-dev/quill/internal/errors"
	"github.com/vango-dev/quill/pkg/memtree"
	"github.com/vango-dev/quill/pkg/reactivity"
	"github.com/vango-dev/quill/pkg/vnode"
)

var _ Host = (*memtree.Tree)(nil)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRenderer() (*memtree.Tree, *memtree.Node, *Renderer) {
	tree := memtree.New()
	root := tree.Container("div")
	return tree, root, New(tree, WithLogger(quietLogger()))
}

// codeRecorder collects diagnostic codes seen by a runtime Observer.
type codeRecorder struct{ codes []string }

func (c *codeRecorder) OnEffectRun(uint64) {}

func (c *codeRecorder) OnDiagnostic(err *errors.QuillError) { c.codes = append(c.codes, err.Code) }

func observedRuntime(obs reactivity.Observer) Option {
	return WithRuntime(reactivity.NewRuntime(
		reactivity.WithLogger(quietLogger()),
		reactivity.WithObserver(obs),
	))
}

// keyedList builds <ul> with one <li key=k>text</li> per item. Items are
// "key" or "key:text".
func keyedList(items ...string) *vnode.Node {
	children := make([]*vnode.Node, 0, len(items))
	for _, it := range items {
		key, text := it, it
		if k, t, ok := strings.Cut(it, ":"); ok {
			key, text = k, t
		}
		children = append(children, vnode.H("li", vnode.Props{"key": key}, text))
	}
	return vnode.H("ul", nil, children)
}

func plainList(items ...string) *vnode.Node {
	children := make([]*vnode.Node, 0, len(items))
	for _, it := range items {
		children = append(children, vnode.H("li", nil, it))
	}
	return vnode.H("ul", nil, children)
}

// snapshot renders the op log and the container's HTML for golden files.
func snapshot(tree *memtree.Tree, root *memtree.Node) []byte {
	return []byte(tree.Log().String() + "--\n" + memtree.InnerHTML(root) + "\n")
}

func opLines(tree *memtree.Tree) []string {
	log := tree.Log()
	out := make([]string, len(log))
	for i, op := range log {
		out[i] = op.String()
	}
	return out
}
