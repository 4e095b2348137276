package document

// Kind classifies a canvas element. The kind determines drag/resize
// eligibility and which containers the element may live in.
type Kind string

const (
	// KindCanvas is the root container. Exactly one per document.
	KindCanvas Kind = "canvas"
	// KindFrame is a top-level isolated content container. Frames always
	// live directly on the canvas root and cannot nest.
	KindFrame Kind = "frame"
	// KindElementFrame is a nestable free-floating container; it can live
	// on the canvas, inside a frame's content area, or inside another
	// element-frame.
	KindElementFrame Kind = "element-frame"
	// KindFreeFloating is an absolutely positioned leaf element eligible
	// for independent drag/resize.
	KindFreeFloating Kind = "free-floating"
	// KindStaticChild is laid out by normal flow inside its container and
	// is not directly draggable until extracted.
	KindStaticChild Kind = "static-child"
)

// Layout describes how a container positions its children.
type Layout string

const (
	// LayoutAbsolute children carry explicit left/top offsets.
	LayoutAbsolute Layout = "absolute"
	// LayoutFlow children are stacked by the container; their left/top is
	// ignored and recomputed, so reparenting into a flow container strips
	// absolute positioning.
	LayoutFlow Layout = "flow"
)

// Frame chrome dimensions in canvas-space units.
const (
	TitleBarHeight = 32.0
	ContentPadding = 8.0

	DefaultFrameWidth    = 300.0
	DefaultFrameHeight   = 200.0
	DefaultElementWidth  = 120.0
	DefaultElementHeight = 40.0
)

// Geometry is an element's box in canvas-space units, relative to the
// coordinate origin of its immediate container (never the viewport).
type Geometry struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is a single node on the canvas.
type Element struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	Parent   *string  `json:"parent"`
	Children []string `json:"children"`
	Geometry Geometry `json:"geometry"`
	Layout   Layout   `json:"layout,omitempty"`

	Tag   string `json:"tag,omitempty"`   // source tag name, e.g. "div", "button"
	Title string `json:"title,omitempty"` // frame title bar text
	Text  string `json:"text,omitempty"`

	// Frame-only authored content.
	Script string `json:"script,omitempty"`
	Style  string `json:"style,omitempty"`

	AssetID string `json:"assetId,omitempty"` // image elements

	Visible bool `json:"visible"`
	Locked  bool `json:"locked"`
}

// IsContainer reports whether the element can hold children.
func (e *Element) IsContainer() bool {
	switch e.Kind {
	case KindCanvas, KindFrame, KindElementFrame:
		return true
	}
	return false
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CanvasDocument is the full persistent state of one canvas.
type CanvasDocument struct {
	Project   Project            `json:"project"`
	Root      string             `json:"root"`
	Elements  map[string]Element `json:"elements"`
	GlobalCSS string             `json:"globalCss"`
}

// NewElement is the single creation path for canvas elements. Every
// element enters the document through here (or CloneSubtree), so there is
// no "observe the tree for new nodes" step anywhere else.
func NewElement(id string, kind Kind, geom Geometry) Element {
	layout := Layout("")
	switch kind {
	case KindCanvas, KindFrame, KindElementFrame:
		layout = LayoutAbsolute
	}
	return Element{
		ID:       id,
		Kind:     kind,
		Children: []string{},
		Geometry: geom,
		Layout:   layout,
		Visible:  true,
	}
}

// NewEmptyDocument creates a document holding only the canvas root.
func NewEmptyDocument(projectID, projectName, rootID string) *CanvasDocument {
	root := NewElement(rootID, KindCanvas, Geometry{})
	return &CanvasDocument{
		Project: Project{
			ID:      projectID,
			Name:    projectName,
			Version: 1,
		},
		Root:     rootID,
		Elements: map[string]Element{rootID: root},
	}
}

// Attach inserts el into the document as a child of parentID, appended to
// the end of the parent's child list.
func (d *CanvasDocument) Attach(el Element, parentID string) {
	parent, ok := d.Elements[parentID]
	if !ok {
		return
	}
	p := parentID
	el.Parent = &p
	d.Elements[el.ID] = el
	parent.Children = append(parent.Children, el.ID)
	d.Elements[parentID] = parent
}

// Detach removes id from its parent's child list without deleting it.
func (d *CanvasDocument) Detach(id string) {
	el, ok := d.Elements[id]
	if !ok || el.Parent == nil {
		return
	}
	parent, ok := d.Elements[*el.Parent]
	if ok {
		children := make([]string, 0, len(parent.Children))
		for _, childID := range parent.Children {
			if childID != id {
				children = append(children, childID)
			}
		}
		parent.Children = children
		d.Elements[*el.Parent] = parent
	}
	el.Parent = nil
	d.Elements[id] = el
}

// Remove deletes an element and its entire subtree from the document.
func (d *CanvasDocument) Remove(id string) {
	el, ok := d.Elements[id]
	if !ok {
		return
	}
	d.Detach(id)
	for _, childID := range el.Children {
		d.removeSubtree(childID)
	}
	delete(d.Elements, id)
}

func (d *CanvasDocument) removeSubtree(id string) {
	el, ok := d.Elements[id]
	if !ok {
		return
	}
	for _, childID := range el.Children {
		d.removeSubtree(childID)
	}
	delete(d.Elements, id)
}

// Reparent moves id under newParentID, appended at the end. The caller is
// responsible for re-basing the element's geometry into the new
// container's coordinate origin first.
func (d *CanvasDocument) Reparent(id, newParentID string) {
	if _, ok := d.Elements[newParentID]; !ok {
		return
	}
	d.Detach(id)
	el := d.Elements[id]
	p := newParentID
	el.Parent = &p
	d.Elements[id] = el

	parent := d.Elements[newParentID]
	parent.Children = append(parent.Children, id)
	d.Elements[newParentID] = parent
}

// ContainerOf returns the id of the element's immediate container, or the
// root if the element is detached.
func (d *CanvasDocument) ContainerOf(id string) string {
	el, ok := d.Elements[id]
	if !ok || el.Parent == nil {
		return d.Root
	}
	return *el.Parent
}

// IsDescendant reports whether id is inside the subtree rooted at
// ancestorID (an element is not its own descendant).
func (d *CanvasDocument) IsDescendant(id, ancestorID string) bool {
	el, ok := d.Elements[id]
	for ok && el.Parent != nil {
		if *el.Parent == ancestorID {
			return true
		}
		el, ok = d.Elements[*el.Parent]
	}
	return false
}

// Frames returns the ids of all frame elements in canvas child order.
func (d *CanvasDocument) Frames() []string {
	root, ok := d.Elements[d.Root]
	if !ok {
		return nil
	}
	var frames []string
	for _, childID := range root.Children {
		if child, ok := d.Elements[childID]; ok && child.Kind == KindFrame {
			frames = append(frames, childID)
		}
	}
	return frames
}

// CloneSubtree deep-copies the subtree rooted at id, generating fresh ids
// for the clone and every id-bearing descendant via idgen. The clone is
// attached to the same container as the original. Returns the clone's id,
// or "" if id does not exist.
func (d *CanvasDocument) CloneSubtree(id string, idgen func(Kind) string) string {
	src, ok := d.Elements[id]
	if !ok {
		return ""
	}
	parentID := d.ContainerOf(id)
	cloneID := d.cloneInto(src, parentID, idgen)
	return cloneID
}

func (d *CanvasDocument) cloneInto(src Element, parentID string, idgen func(Kind) string) string {
	clone := src
	clone.ID = idgen(src.Kind)
	clone.Children = []string{}
	d.Attach(clone, parentID)

	for _, childID := range src.Children {
		if child, ok := d.Elements[childID]; ok {
			d.cloneInto(child, clone.ID, idgen)
		}
	}
	return clone.ID
}

// ContentInset returns the offset of a container's content origin from
// its own top-left corner. Frames reserve room for the title bar and
// padding; element-frames and the canvas have no chrome.
func ContentInset(kind Kind) (dx, dy float64) {
	if kind == KindFrame {
		return ContentPadding, TitleBarHeight + ContentPadding
	}
	return 0, 0
}
