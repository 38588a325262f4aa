// Package api serves the dashboard: the top-countries table endpoints, the
// interaction intents, a websocket push channel and Prometheus metrics.
package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"FlowAtlas/internal/config"
	"FlowAtlas/internal/query"
	"FlowAtlas/internal/store"
	"FlowAtlas/internal/view"
)

// DefaultIndexPattern describes the fields the country_metrics backing table
// exposes to the view layer.
var DefaultIndexPattern = view.IndexPattern{
	Title:  "country_metrics",
	Fields: []string{"country_code", "bytes_in", "bytes_out", "flows", "unique_ips"},
}

// Server wires the table state store, the view renderer and the querier
// behind the HTTP surface.
type Server struct {
	cfg      config.APIConfig
	store    *store.Store
	renderer *view.Renderer
	querier  query.Querier
	hub      *Hub
	pattern  view.IndexPattern
}

// NewServer creates the dashboard API server.
func NewServer(cfg config.APIConfig, st *store.Store, querier query.Querier) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		renderer: view.NewRenderer(st, st),
		querier:  querier,
		hub:      NewHub(),
		pattern:  DefaultIndexPattern,
	}

	// Fan store updates out to connected dashboard clients.
	go s.broadcastUpdates(st.Subscribe())

	return s
}

// Router returns the HTTP handler with all routes registered.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/network/countries", s.handleTable).Methods("GET")
	r.HandleFunc("/api/network/countries/limit", s.handleLimit).Methods("POST")
	r.HandleFunc("/api/network/countries/page", s.handlePage).Methods("POST")
	r.HandleFunc("/api/network/countries/sort", s.handleSort).Methods("POST")
	r.HandleFunc("/ws", s.handleWS)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Run starts the HTTP server and blocks until the listener fails.
func (s *Server) Run() *http.Server {
	srv := &http.Server{
		Addr:    s.cfg.HttpListenAddr,
		Handler: s.Router(),
	}
	go func() {
		log.Printf("HTTP API server starting on %s", s.cfg.HttpListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()
	return srv
}

func (s *Server) broadcastUpdates(updates <-chan store.Update) {
	for u := range updates {
		s.hub.Broadcast(WSMessage{Type: "table_update", Update: &u})
	}
}
