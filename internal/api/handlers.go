package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"FlowAtlas/internal/query"
	"FlowAtlas/internal/view"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// tableAddress extracts and validates the (mode, target) pair every table
// endpoint is addressed by.
func tableAddress(r *http.Request) (view.ViewMode, view.FlowTarget, error) {
	mode := view.ViewMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = view.ViewModePage
	}
	if mode != view.ViewModePage && mode != view.ViewModeDetails {
		return "", "", fmt.Errorf("unknown mode %q", mode)
	}

	target := view.FlowTarget(r.URL.Query().Get("target"))
	if target == "" {
		target = view.FlowTargetSource
	}
	if target != view.FlowTargetSource && target != view.FlowTargetDestination {
		return "", "", fmt.Errorf("unknown target %q", target)
	}

	return mode, target, nil
}

// timeWindow reads the optional from/to RFC3339 query parameters.
func timeWindow(r *http.Request) (from, to time.Time, err error) {
	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, fmt.Errorf("invalid 'from': %w", err)
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, fmt.Errorf("invalid 'to': %w", err)
		}
	}
	return from, to, nil
}

// handleTable reads the table state, queries one page of country rows and
// returns the fully assembled table config.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	mode, target, err := tableAddress(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	from, to, err := timeWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tableType := view.TableTypeFor(mode, target)
	state := s.store.TableState(tableType)

	result, err := s.querier.TopCountries(r.Context(), query.TopCountriesRequest{
		Target:    target,
		SortField: view.QualifiedSortField(state.Sort.Field, target),
		Direction: state.Sort.Direction,
		Limit:     state.Limit,
		Offset:    state.ActivePage * state.Limit,
		From:      from,
		To:        to,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cfg := s.renderer.Render(view.TableProps{
		Mode:           mode,
		Target:         target,
		Pattern:        s.pattern,
		Rows:           result.Rows,
		TotalCount:     result.TotalCount,
		FakeTotalCount: result.FakeTotalCount,
		ShowMorePages:  result.TotalCount > result.FakeTotalCount,
		ID:             r.URL.Query().Get("id"),
	})

	writeJSON(w, http.StatusOK, cfg)
}

// intentRequest is the body shared by the three interaction endpoints.
type intentRequest struct {
	Mode      view.ViewMode      `json:"mode"`
	Target    view.FlowTarget    `json:"target"`
	Limit     int                `json:"limit"`
	Page      int                `json:"page"`
	Field     string             `json:"field"`
	Direction view.SortDirection `json:"direction"`
}

func (s *Server) decodeIntent(w http.ResponseWriter, r *http.Request) (*intentRequest, *view.Interactions, bool) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	if req.Mode == "" {
		req.Mode = view.ViewModePage
	}
	if req.Mode != view.ViewModePage && req.Mode != view.ViewModeDetails {
		http.Error(w, fmt.Sprintf("unknown mode %q", req.Mode), http.StatusBadRequest)
		return nil, nil, false
	}
	if req.Target != view.FlowTargetSource && req.Target != view.FlowTargetDestination {
		http.Error(w, fmt.Sprintf("unknown target %q", req.Target), http.StatusBadRequest)
		return nil, nil, false
	}

	tableType := view.TableTypeFor(req.Mode, req.Target)
	intents := view.NewInteractions(req.Mode, req.Target, s.store, func() view.SortDescriptor {
		return s.store.TableState(tableType).Sort
	})
	return &req, intents, true
}

// respondState answers an intent with the (possibly unchanged) state slice.
func (s *Server) respondState(w http.ResponseWriter, mode view.ViewMode, target view.FlowTarget) {
	tableType := view.TableTypeFor(mode, target)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table": tableType,
		"state": s.store.TableState(tableType),
	})
}

func (s *Server) handleLimit(w http.ResponseWriter, r *http.Request) {
	req, intents, ok := s.decodeIntent(w, r)
	if !ok {
		return
	}
	if req.Limit <= 0 {
		http.Error(w, "limit must be positive", http.StatusBadRequest)
		return
	}
	intents.UpdateLimit(req.Limit)
	s.respondState(w, req.Mode, req.Target)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	req, intents, ok := s.decodeIntent(w, r)
	if !ok {
		return
	}
	if req.Page < 0 {
		http.Error(w, "page must not be negative", http.StatusBadRequest)
		return
	}
	intents.UpdateActivePage(req.Page)
	s.respondState(w, req.Mode, req.Target)
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	req, intents, ok := s.decodeIntent(w, r)
	if !ok {
		return
	}
	if req.Field == "" {
		http.Error(w, "field is required", http.StatusBadRequest)
		return
	}
	if req.Direction != view.SortAscending && req.Direction != view.SortDescending {
		http.Error(w, fmt.Sprintf("unknown direction %q", req.Direction), http.StatusBadRequest)
		return
	}
	intents.UpdateSort(view.SortCandidate{Field: req.Field, Direction: req.Direction})
	s.respondState(w, req.Mode, req.Target)
}
