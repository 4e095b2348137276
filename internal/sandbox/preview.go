package sandbox

import (
	"log/slog"
	"sync"
	"time"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/document"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/engine"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/typeid"
)

// Preview is one live sandboxed rendering of a frame's content.
type Preview struct {
	ID        string      `json:"id"`
	FrameID   string      `json:"frameId"`
	Srcdoc    string      `json:"srcdoc"`
	Overlay   engine.Rect `json:"overlay"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Registry tracks at most one preview per frame. It satisfies the
// editor's preview manager: mode transitions and frame edits funnel
// through CreatePreview, which always tears down the stale preview
// before building a fresh one so a re-entered frame never shows old
// script state.
type Registry struct {
	mu       sync.Mutex
	previews map[string]*Preview
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		previews: make(map[string]*Preview),
		logger:   logger,
	}
}

func (r *Registry) CreatePreview(doc *document.CanvasDocument, frameID string, overlay engine.Rect) error {
	srcdoc, err := BuildFrameDocument(doc, frameID)
	if err != nil {
		return err
	}

	if script := doc.Elements[frameID].Script; script != "" {
		if err := CheckScript(script); err != nil {
			// The preview still ships: the rewritten script's catch
			// block keeps its buttons responsive.
			r.logger.Warn("frame script pre-flight failed",
				slog.String("frame_id", frameID),
				slog.String("error", err.Error()))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if stale, ok := r.previews[frameID]; ok {
		r.logger.Debug("destroying stale preview",
			slog.String("frame_id", frameID),
			slog.String("preview_id", stale.ID))
		delete(r.previews, frameID)
	}
	r.previews[frameID] = &Preview{
		ID:        typeid.NewPreviewID(),
		FrameID:   frameID,
		Srcdoc:    srcdoc,
		Overlay:   overlay,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (r *Registry) Reposition(frameID string, overlay engine.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.previews[frameID]; ok {
		p.Overlay = overlay
	}
}

func (r *Registry) Destroy(frameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.previews, frameID)
}

func (r *Registry) DestroyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.previews)
}

// Get returns the live preview for a frame, or nil.
func (r *Registry) Get(frameID string) *Preview {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.previews[frameID]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.previews)
}

// Snapshot returns copies of all live previews, for the initial state
// pushed to a client entering interactive mode.
func (r *Registry) Snapshot() []Preview {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Preview, 0, len(r.previews))
	for _, p := range r.previews {
		out = append(out, *p)
	}
	return out
}
