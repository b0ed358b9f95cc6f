package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yacobolo/cssclean/internal/cssclean"
)

const cssEndpoint = "/api/css"

type selectorsResponse struct {
	Selectors   *cssclean.SelectorMap `json:"selectors"`
	Stats       cssclean.Stats        `json:"stats"`
	Files       cssclean.Files        `json:"files"`
	ProjectRoot string                `json:"projectRoot"`
}

type statsResponse struct {
	Success bool           `json:"success"`
	Stats   cssclean.Stats `json:"stats"`
}

type toggleRequest struct {
	Selector string `json:"selector"`
	Active   *bool  `json:"active"`
}

type toggleResponse struct {
	Success  bool                    `json:"success"`
	Stats    cssclean.Stats          `json:"stats"`
	Selector cssclean.SelectorRecord `json:"selector"`
}

type toggleAllRequest struct {
	Active *bool `json:"active"`
}

type restoreRequest struct {
	Type string `json:"type"`
}

type saveRequest struct {
	Filename  string `json:"filename"`
	Overwrite bool   `json:"overwrite"`
}

type saveResponse struct {
	Success bool `json:"success"`
	*cssclean.SaveResult
}

type errorResponse struct {
	Error   string             `json:"error"`
	Kind    cssclean.ErrorKind `json:"kind"`
	Written []string           `json:"written,omitempty"`
	Failed  string             `json:"failed,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "cssclean review server for %s\n\n", s.session.ProjectRoot())
	fmt.Fprintln(w, "GET  /api/selectors       selectors, stats and files")
	fmt.Fprintln(w, "GET  /api/categories      selectors grouped for display")
	fmt.Fprintln(w, "GET  /api/css             stylesheet of the active selectors")
	fmt.Fprintln(w, "GET  /api/preview/{file}  project HTML using /api/css")
	fmt.Fprintln(w, "POST /api/toggle          {\"selector\": \".x\", \"active\": false}")
	fmt.Fprintln(w, "POST /api/toggle-all      {\"active\": true}")
	fmt.Fprintln(w, "POST /api/restore         {\"type\": \"original\" | \"all\"}")
	fmt.Fprintln(w, "POST /api/save            {\"filename\": \"cleaned.css\", \"overwrite\": false}")
}

func (s *Server) handleSelectors(w http.ResponseWriter, _ *http.Request) {
	snap := s.session.Snapshot()
	writeJSON(w, http.StatusOK, selectorsResponse{
		Selectors:   snap.Selectors,
		Stats:       snap.Stats,
		Files:       snap.Files,
		ProjectRoot: snap.ProjectRoot,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	snap := s.session.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cssclean.Categorize(snap.Records()),
	})
}

func (s *Server) handleCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	io.WriteString(w, s.session.ExportCSS())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	page, err := cssclean.PreviewFile(s.session.ProjectRoot(), rel, cssEndpoint)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, page)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Selector == "" || req.Active == nil {
		writeBadRequest(w, "Missing selector or active parameter")
		return
	}

	rec, stats, err := s.session.Toggle(req.Selector, *req.Active)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Success: true, Stats: stats, Selector: rec})
}

func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	var req toggleAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		writeBadRequest(w, "Missing active parameter")
		return
	}
	stats := s.session.ToggleAll(*req.Active)
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	stats, err := s.session.Restore(req.Type)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	// An empty body saves with the defaults
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "Invalid request body")
		return
	}

	opts := s.cfg.Save
	opts.Overwrite = req.Overwrite
	if req.Filename != "" {
		opts.Filename = req.Filename
	}

	res, err := s.session.Save(opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Success: true, SaveResult: res})
}

// writeError maps err to a status code through its kind
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := cssclean.Kind(err)
	body := errorResponse{Error: err.Error(), Kind: kind}

	var overwriteErr *cssclean.OverwriteError
	if errors.As(err, &overwriteErr) {
		body.Written = overwriteErr.Written
		body.Failed = overwriteErr.Failed
	}

	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	writeJSON(w, status, body)
}

func statusFor(kind cssclean.ErrorKind) int {
	switch kind {
	case cssclean.KindBadRequest, cssclean.KindPrecondition:
		return http.StatusBadRequest
	case cssclean.KindForbidden:
		return http.StatusForbidden
	case cssclean.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Kind: cssclean.KindBadRequest})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
