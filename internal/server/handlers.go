package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"tvcharts/internal/config"
	"tvcharts/internal/dashboard"
	"tvcharts/internal/filter"
	"tvcharts/internal/logger"
	"tvcharts/internal/render/svg"
	"tvcharts/internal/storage"
)

// statusFor maps controller errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, filter.ErrUnknownFilter),
		errors.Is(err, dashboard.ErrUnknownChart),
		errors.Is(err, dashboard.ErrPointOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrUnknownCommand):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("Command failed", err, logger.Fields{"request_id": RequestID(r.Context()), "path": r.URL.Path})
	}
	writeError(w, status, err.Error())
}

// wantsJSON reports whether the client asked for a JSON reply instead of a redirect
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// HandleIndex serves the dashboard page, or the error page when the dataset failed to load
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if s.LoadErr != nil {
		page, err := s.Pages.BuildErrorPage(s.LoadErr)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write(page)
		return
	}

	res, err := s.send(r.Context(), dashboard.State{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.Pages.BuildPage(res, true, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// HandleState returns the controller status as JSON
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	res, err := s.send(r.Context(), dashboard.State{})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Status)
}

// HandleFilter selects the active filter. JSON clients get the new histogram
// option to apply to the chart already on the page; plain form posts are
// redirected back to the page.
func (s *Server) HandleFilter(w http.ResponseWriter, r *http.Request) {
	id := filter.ID(mux.Vars(r)["id"])
	res, err := s.send(r.Context(), dashboard.SetFilter{ID: id})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	reply := map[string]interface{}{
		"changed": res.Changed,
		"skipped": res.Skipped,
		"status":  res.Status,
	}
	if len(res.Snippets) > 0 {
		reply["chart"] = res.Snippets[0].ID
		reply["option"] = json.RawMessage(res.Snippets[0].Option)
	}
	writeJSON(w, http.StatusOK, reply)
}

type tooltipResponse struct {
	Index  int     `json:"index"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// HandleHover shows the tooltip of one scatterplot point
func (s *Server) HandleHover(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusNotFound, "invalid point index")
		return
	}
	res, err := s.send(r.Context(), dashboard.Hover{Index: index})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tip := res.Tooltip
	writeJSON(w, http.StatusOK, tooltipResponse{
		Index:  index,
		Text:   tip.Text,
		X:      tip.X,
		Y:      tip.Y,
		Width:  tip.Width,
		Height: tip.Height,
	})
}

// HandleLeave hides the scatterplot tooltip
func (s *Server) HandleLeave(w http.ResponseWriter, r *http.Request) {
	if _, err := s.send(r.Context(), dashboard.Leave{}); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChart serves a chart image
func (s *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	format, err := svg.ParseFormat(vars["format"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	res, err := s.send(r.Context(), dashboard.Snapshot{Chart: vars["chart"], Format: format})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(res.Image)
}

// HandlePublish stores a snapshot of both charts and the page
func (s *Server) HandlePublish(w http.ResponseWriter, r *http.Request) {
	if s.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "publishing is not configured")
		return
	}
	if !s.publishMu.TryLock() {
		s.log.Warn("Publish already in progress, rejecting request")
		writeError(w, http.StatusConflict, "publish already in progress")
		return
	}
	defer s.publishMu.Unlock()

	ctx := r.Context()
	artifacts, err := s.Pages.SnapshotArtifacts(func(cmd dashboard.Command) (dashboard.Result, error) {
		return s.send(ctx, cmd)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	folder, paths, err := storage.PublishSnapshot(ctx, s.Storage, s.now(), artifacts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.Info("Snapshot published", logger.Fields{"folder": folder, "files": len(paths)})
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"folder": folder,
		"files":  paths,
	})
}

// HandleLatestSnapshot reports the most recently published snapshot folder and its files
func (s *Server) HandleLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "publishing is not configured")
		return
	}
	folder, err := storage.LatestSnapshot(r.Context(), s.Storage)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if folder == "" {
		writeError(w, http.StatusNotFound, "no snapshot published yet")
		return
	}
	files, err := storage.SnapshotFiles(r.Context(), s.Storage, folder)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"folder": folder,
		"files":  files,
	})
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	dataset := "ok"
	if s.LoadErr != nil {
		status, code = "degraded", http.StatusServiceUnavailable
		dataset = s.LoadErr.Error()
	}
	writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"version":   config.GetVersion(),
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"dataset": dataset,
		},
	})
}
