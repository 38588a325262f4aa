package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"FlowAtlas/internal/config"
	"FlowAtlas/internal/model"
	"FlowAtlas/internal/query"
	"FlowAtlas/internal/store"
	"FlowAtlas/internal/view"
)

// fakeQuerier records the last request and serves canned rows.
type fakeQuerier struct {
	lastReq query.TopCountriesRequest
	rows    []model.CountryTraffic
	total   int
}

func (q *fakeQuerier) TopCountries(_ context.Context, req query.TopCountriesRequest) (*query.TopCountriesResult, error) {
	q.lastReq = req
	return &query.TopCountriesResult{
		Rows:           q.rows,
		TotalCount:     q.total,
		FakeTotalCount: q.total,
	}, nil
}

func newTestServer() (*Server, *fakeQuerier, *store.Store) {
	st := store.New()
	q := &fakeQuerier{
		rows:  []model.CountryTraffic{{CountryCode: "DE", BytesOut: 1000, Flows: 3}},
		total: 1,
	}
	s := NewServer(config.APIConfig{HttpListenAddr: ":0"}, st, q)
	return s, q, st
}

func TestHandleTableReturnsRenderedConfig(t *testing.T) {
	s, q, _ := newTestServer()

	req := httptest.NewRequest("GET", "/api/network/countries?mode=page&target=destination&id=top-countries", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var cfg struct {
		TableType view.TableType         `json:"table_type"`
		Title     string                 `json:"title"`
		SortField string                 `json:"sort_field"`
		Rows      []model.CountryTraffic `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if cfg.TableType != view.TableTypePageDestinationCountries {
		t.Errorf("table type %q", cfg.TableType)
	}
	if cfg.Title != "Destination countries" {
		t.Errorf("title %q", cfg.Title)
	}
	if cfg.SortField != "record.network.bytes_out" {
		t.Errorf("default sort qualified as %q", cfg.SortField)
	}
	if len(cfg.Rows) != 1 || cfg.Rows[0].CountryCode != "DE" {
		t.Errorf("rows %+v", cfg.Rows)
	}

	// The querier must have been addressed with the store's default state.
	if q.lastReq.Target != view.FlowTargetDestination || q.lastReq.Limit != store.DefaultLimit || q.lastReq.Offset != 0 {
		t.Errorf("unexpected query request: %+v", q.lastReq)
	}
}

func TestHandleTableRejectsUnknownTarget(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest("GET", "/api/network/countries?target=sideways", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d for unknown target", rec.Code)
	}
}

func postIntent(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestLimitAndPageIntentsUpdateStore(t *testing.T) {
	s, _, st := newTestServer()

	rec := postIntent(t, s, "/api/network/countries/limit", map[string]interface{}{
		"mode": "page", "target": "source", "limit": 5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("limit intent status %d: %s", rec.Code, rec.Body.String())
	}

	rec = postIntent(t, s, "/api/network/countries/page", map[string]interface{}{
		"mode": "page", "target": "source", "page": 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("page intent status %d: %s", rec.Code, rec.Body.String())
	}

	state := st.TableState(view.TableTypePageSourceCountries)
	if state.Limit != 5 || state.ActivePage != 2 {
		t.Errorf("store state %+v", state)
	}
}

func TestSortIntentForcesDescendingOnNewField(t *testing.T) {
	s, _, st := newTestServer()

	rec := postIntent(t, s, "/api/network/countries/sort", map[string]interface{}{
		"mode": "page", "target": "destination",
		"field": "record.destination.flows", "direction": "asc",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("sort intent status %d: %s", rec.Code, rec.Body.String())
	}

	sort := st.TableState(view.TableTypePageDestinationCountries).Sort
	if sort.Field != view.FieldFlows || sort.Direction != view.SortDescending {
		t.Errorf("sort state %+v", sort)
	}
}

func TestSortIntentNoopIsSuppressed(t *testing.T) {
	s, _, st := newTestServer()
	updates := st.Subscribe()

	// Matches the default state exactly: no store update may be applied.
	rec := postIntent(t, s, "/api/network/countries/sort", map[string]interface{}{
		"mode": "page", "target": "source",
		"field": "record.network.bytes_out", "direction": "desc",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("sort intent status %d: %s", rec.Code, rec.Body.String())
	}

	select {
	case u := <-updates:
		t.Errorf("no-op sort dispatched a store update: %+v", u)
	default:
	}
}

func TestIntentValidation(t *testing.T) {
	s, _, _ := newTestServer()

	if rec := postIntent(t, s, "/api/network/countries/limit", map[string]interface{}{
		"mode": "page", "target": "source", "limit": 0,
	}); rec.Code != http.StatusBadRequest {
		t.Errorf("zero limit accepted: %d", rec.Code)
	}

	if rec := postIntent(t, s, "/api/network/countries/page", map[string]interface{}{
		"mode": "page", "target": "source", "page": -1,
	}); rec.Code != http.StatusBadRequest {
		t.Errorf("negative page accepted: %d", rec.Code)
	}

	if rec := postIntent(t, s, "/api/network/countries/sort", map[string]interface{}{
		"mode": "page", "target": "source",
		"field": "record.source.country_code", "direction": "sideways",
	}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad direction accepted: %d", rec.Code)
	}
}
