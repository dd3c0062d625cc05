package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pow3r-build/constellation/pkg/export"
	apperrors "github.com/pow3r-build/constellation/pkg/errors"
	"github.com/pow3r-build/constellation/pkg/ingest"
	"github.com/pow3r-build/constellation/pkg/snapshot"
)

// statusResponse summarizes the engine state for dashboards and health checks.
type statusResponse struct {
	Mode       string `json:"mode"`
	Collapsed  bool   `json:"collapsed"`
	Query      string `json:"query"`
	Filter     string `json:"filter"`
	Animating  bool   `json:"animating"`
	Generation uint64 `json:"generation"`
	Empty      bool   `json:"empty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{
		Mode:       string(s.engine.Mode()),
		Collapsed:  s.engine.Collapsed(),
		Query:      s.engine.Query(),
		Filter:     string(s.engine.Filter()),
		Animating:  s.engine.Animating(),
		Generation: s.engine.Generation(),
		Empty:      s.engine.Empty(),
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Frame())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"history": s.engine.History()})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.engine.Describe(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

// handleData ingests a JSON payload (any supported schema version) and
// loads the resulting model into the engine.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	m, diag, err := ingest.ReadJSON(r.Body, s.logger)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.engine.Load(m); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"clusters":    m.ClusterCount(),
		"nodes":       m.NodeCount(),
		"edges":       m.EdgeCount(),
		"diagnostics": diag,
	})
}

type searchRequest struct {
	Query  string `json:"query"`
	Filter string `json:"filter,omitempty"`

	// Commit records the query in the history, the API equivalent of
	// pressing Enter.
	Commit bool `json:"commit,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	if req.Filter != "" {
		if err := s.engine.SetFilter(req.Filter); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.engine.SetQuery(req.Query)
	if req.Commit {
		if err := s.engine.CommitQuery(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"matched": s.engine.Matches()})
}

type transformRequest struct {
	Mode      string `json:"mode,omitempty"`
	Collapsed *bool  `json:"collapsed,omitempty"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if req.Mode == "" && req.Collapsed == nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "transform needs a mode or a collapsed flag"))
		return
	}

	if req.Mode != "" {
		if err := s.engine.SetMode(req.Mode); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Collapsed != nil {
		if err := s.engine.SetCollapsed(*req.Collapsed); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"generation": s.engine.Generation()})
}

type dragRequest struct {
	ID string  `json:"id"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
	DZ float64 `json:"dz"`
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if err := s.engine.Drag(req.ID, req.DX, req.DY, req.DZ); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTick advances animations for hosts without their own frame loop,
// e.g. a polling web client that drives time through the API.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	active := s.engine.Tick(time.Now())
	s.writeJSON(w, http.StatusOK, map[string]any{"animating": active})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	m := s.engine.Model()
	if m == nil {
		s.writeError(w, ingest.ErrNoData)
		return
	}

	opts := export.Options{}
	switch format := chi.URLParam(r, "format"); format {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(export.ToDOT(m, opts)))
	case "mermaid":
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = w.Write([]byte(export.ToMermaid(m, opts)))
	case "svg":
		svg, err := export.RenderSVG(export.ToDOT(m, opts))
		if err != nil {
			s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "rendering svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput,
			"unknown export format %q (must be dot, mermaid, or svg)", format))
	}
}

type snapshotSaveRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSnapshotSave(w http.ResponseWriter, r *http.Request) {
	var req snapshotSaveRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	m := s.engine.Model()
	if m == nil {
		s.writeError(w, ingest.ErrNoData)
		return
	}
	snap := snapshot.New(req.Name, snapshot.ViewState{
		Mode:      string(s.engine.Mode()),
		Collapsed: s.engine.Collapsed(),
		Query:     s.engine.Query(),
		Filter:    string(s.engine.Filter()),
	}, m)

	if err := s.snapshots.Save(r.Context(), snap); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": snap.ID})
}

func (s *Server) handleSnapshotList(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.snapshots.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

func (s *Server) handleSnapshotGet(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// handleSnapshotRestore loads a snapshot's model and view state back into
// the engine.
func (s *Server) handleSnapshotRestore(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.engine.Load(snap.Model); err != nil {
		s.writeError(w, err)
		return
	}
	if snap.View.Mode != "" {
		if err := s.engine.SetMode(snap.View.Mode); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if snap.View.Filter != "" {
		if err := s.engine.SetFilter(snap.View.Filter); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.engine.SetQuery(snap.View.Query)
	if err := s.engine.SetCollapsed(snap.View.Collapsed); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"id": snap.ID})
}

func (s *Server) handleSnapshotDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.snapshots.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
