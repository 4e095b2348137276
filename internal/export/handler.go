// Package export serves standalone HTML renditions of frames. The
// exported document is the same one the interactive-mode sandbox runs,
// so what downloads is exactly what previews.
package export

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/auth"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/project"
	"github.com/TroyRobinson/Canvas-Editor-sub000/internal/sandbox"
)

type Handler struct {
	projects *project.Service
}

func NewHandler(projects *project.Service) *Handler {
	return &Handler{projects: projects}
}

// ExportFrame handles GET /projects/{projectId}/frames/{frameId}/export.
func (h *Handler) ExportFrame(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	vars := mux.Vars(r)
	projectID := vars["projectId"]
	frameID := vars["frameId"]

	if err := h.projects.CheckMembership(r.Context(), projectID, userID); err != nil {
		if errors.Is(err, project.ErrNotMember) {
			http.Error(w, "not a project member", http.StatusForbidden)
			return
		}
		slog.Error("check membership", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	doc, err := h.projects.LoadDocument(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		slog.Error("load document for export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page, err := sandbox.BuildFrameDocument(doc, frameID)
	if err != nil {
		if errors.Is(err, sandbox.ErrNotAFrame) {
			http.Error(w, "frame not found", http.StatusNotFound)
			return
		}
		slog.Error("build frame document", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	name := exportName(doc.Elements[frameID].Title)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.html"`, name))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, page)

	slog.Info("frame exported", "project", projectID, "frame", frameID, "size", len(page))
}

func exportName(title string) string {
	if title == "" {
		title = "frame"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, title)
}
