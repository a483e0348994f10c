package telemetry

import "github.com/vango-dev/quill/pkg/renderer"

// InstrumentHost wraps h so every host operation is counted in m.
func InstrumentHost(h renderer.Host, m *Metrics) renderer.Host {
	return &instrumentedHost{next: h, m: m}
}

type instrumentedHost struct {
	next renderer.Host
	m    *Metrics
}

func (h *instrumentedHost) CreateElement(tag string) any {
	h.m.RecordHostOp("create-element")
	return h.next.CreateElement(tag)
}

func (h *instrumentedHost) CreateText(text string) any {
	h.m.RecordHostOp("create-text")
	return h.next.CreateText(text)
}

func (h *instrumentedHost) Insert(el, parent, anchor any) {
	h.m.RecordHostOp("insert")
	h.next.Insert(el, parent, anchor)
}

func (h *instrumentedHost) Remove(el any) {
	h.m.RecordHostOp("remove")
	h.next.Remove(el)
}

func (h *instrumentedHost) SetElementText(el any, text string) {
	h.m.RecordHostOp("set-element-text")
	h.next.SetElementText(el, text)
}

func (h *instrumentedHost) SetText(el any, text string) {
	h.m.RecordHostOp("set-text")
	h.next.SetText(el, text)
}

func (h *instrumentedHost) NextSibling(el any) any {
	return h.next.NextSibling(el)
}

func (h *instrumentedHost) PatchProp(el any, key string, prev, next any) {
	h.m.RecordHostOp("patch-prop")
	h.next.PatchProp(el, key, prev, next)
}
