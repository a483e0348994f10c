package renderer

// Host is the output tree the renderer drives. Handles are opaque to the
// renderer and must be usable as map keys.
type Host interface {
	// CreateElement returns a new detached element.
	CreateElement(tag string) any

	// CreateText returns a new detached text node.
	CreateText(text string) any

	// Remove detaches h from its parent.
	Remove(h any)

	// Insert places h in parent before anchor, or last when anchor is nil.
	// h may already be attached, in which case it is moved.
	Insert(h, parent, anchor any)

	// SetElementText replaces all content of element h with text.
	SetElementText(h any, text string)

	// SetText updates the content of text node h.
	SetText(h any, text string)

	// NextSibling returns the handle after h in its parent, or nil.
	NextSibling(h any) any

	// PatchProp applies a property change. next is nil for removal.
	PatchProp(h any, key string, prev, next any)
}
