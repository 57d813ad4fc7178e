// Package api serves the settlement over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (the play control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/brownbat/kingdom-clicker/internal/engine"
	"github.com/brownbat/kingdom-clicker/internal/kingdom"
	"github.com/brownbat/kingdom-clicker/internal/persistence"
	"github.com/brownbat/kingdom-clicker/internal/scout"
)

// Server serves settlement state and accepts player actions.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB
	Port     int
	AdminKey string // bearer token for POST endpoints. Empty = POST disabled.

	// Mu serializes access to the simulation between the tick loop and
	// request handlers. The engine owner shares this mutex.
	Mu sync.Mutex

	hub         *Hub
	streamConns int32
}

// Handler builds the route table. Split from Start so tests can drive it
// with httptest.
func (s *Server) Handler() http.Handler {
	actionLimiter := NewRateLimiter(600, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/resources", s.handleResources)
	mux.HandleFunc("/api/v1/workforce", s.handleWorkforce)
	mux.HandleFunc("/api/v1/buildings", s.handleBuildings)
	mux.HandleFunc("/api/v1/unlocks", s.handleUnlocks)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/deck", s.handleDeck)
	mux.HandleFunc("/api/v1/frontier", s.handleFrontier)
	mux.HandleFunc("/api/v1/verbs", s.handleVerbs)

	// Live event feed (websocket).
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	// Control endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/action", s.adminOnly(RateLimitMiddleware(actionLimiter, s.handleAction)))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/save", s.adminOnly(s.handleSave))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	if s.hub == nil {
		s.hub = NewHub()
	}
	go s.hub.Run()

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Publish fans events out to live stream subscribers. The engine's tick
// callback forwards pending events here.
func (s *Server) Publish(events []kingdom.Event) {
	if s.hub != nil {
		s.hub.Broadcast(events)
	}
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list; localhost dev servers are always
// allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "control endpoints disabled (no KINGDOM_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	k := s.Sim.K
	status := map[string]any{
		"world_id":    k.ID,
		"tick":        k.Tick,
		"season":      engine.SeasonName(k.SeasonPhase),
		"season_tick": k.SeasonTick,
		"population":  k.Population(),
		"pop_cap":     k.PopCap(),
		"food":        k.Stores[kingdom.ResFood],
		"food_need":   k.LastFoodNeed,
		"warmth_need": k.LastWarmthNeed,
		"log":         k.LogText,
		"log_history": k.LogHistory,
		"seed":        s.Sim.Rng.Seed(),
	}
	if s.Eng != nil {
		status["speed"] = s.Eng.Speed()
		status["running"] = s.Eng.Running()
	}
	writeJSON(w, status)
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	k := s.Sim.K
	type resourceEntry struct {
		Name    string   `json:"name"`
		Amount  float64  `json:"amount"`
		Display string   `json:"display"`
		Cap     *float64 `json:"cap,omitempty"`
	}

	var entries []resourceEntry
	for _, name := range k.DisplayResources() {
		amount := k.Stores[name]
		entry := resourceEntry{
			Name:    name,
			Amount:  amount,
			Display: humanize.FtoaWithDigits(amount, 1),
		}
		if cap, ok := k.Cap(name); ok {
			entry.Cap = &cap
		}
		entries = append(entries, entry)
	}

	writeJSON(w, map[string]any{
		"resources":        entries,
		"reserve":          k.Reserve,
		"reserve_used":     k.ReserveUsed(),
		"reserve_capacity": k.ReserveCapacity,
	})
}

func (s *Server) handleWorkforce(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	k := s.Sim.K
	writeJSON(w, map[string]any{
		"peasants":               k.Peasants,
		"hunters":                k.Hunters,
		"woodsmen":               k.Woodsmen,
		"bowyers":                k.Bowyers,
		"weavers":                k.Weavers,
		"rangers":                k.Rangers,
		"tailors":                k.Tailors,
		"hunter_bows_equipped":   k.HunterBowsEquipped,
		"ranger_swords_equipped": k.RangerSwordsEquipped,
		"population":             k.Population(),
		"pop_cap":                k.PopCap(),
	})
}

func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	k := s.Sim.K
	writeJSON(w, map[string]any{
		"houses":       k.Houses,
		"lumber_mills": k.LumberMills,
		"farms":        k.Farms,
		"quarries":     k.Quarries,
		"mines":        k.Mines,
		"smelters":     k.Smelters,
		"smithies":     k.Smithies,
		"tailor_shops": k.TailorShops,
		"cellars":      k.Cellars,
		"warehouses":   k.Warehouses,
	})
}

func (s *Server) handleUnlocks(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	writeJSON(w, s.Sim.K.Unlocks)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	category := r.URL.Query().Get("category")

	s.Mu.Lock()
	events := s.Sim.K.RecentEvents(0)
	s.Mu.Unlock()

	if category != "" {
		var filtered []kingdom.Event
		for _, e := range events {
			if e.Category == category {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}
	writeJSON(w, events[start:])
}

// handleDeck reports the site deck's composition without revealing order.
func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	k := s.Sim.K
	counts := map[scout.Card]int{}
	for _, card := range k.Deck {
		counts[card]++
	}

	writeJSON(w, map[string]any{
		"cards_remaining":     len(k.Deck),
		"composition":         counts,
		"seeded":              k.DeckSeeded,
		"refreshed":           k.DeckRefreshed,
		"quarries_discovered": k.QuarriesDiscovered,
		"mines_discovered":    k.MinesDiscovered,
	})
}

func (s *Server) handleFrontier(w http.ResponseWriter, r *http.Request) {
	s.Mu.Lock()
	sv := s.Sim.Survey
	s.Mu.Unlock()

	counts := map[string]int{}
	for tile, n := range sv.Counts {
		counts[scout.TileName(tile)] = n
	}
	writeJSON(w, map[string]any{"tiles": counts})
}

func (s *Server) handleVerbs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"verbs": kingdom.Verbs()})
}

// handleAction applies one player action verb.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Verb string `json:"verb"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.Mu.Lock()
	applied, known := s.Sim.Apply(req.Verb)
	log := s.Sim.K.LogText
	pending := s.Sim.K.ConsumePending()
	s.Mu.Unlock()

	if !known {
		http.Error(w, fmt.Sprintf("unknown verb %q", req.Verb), http.StatusBadRequest)
		return
	}

	if s.DB != nil {
		if err := s.DB.AppendEvents(pending); err != nil {
			slog.Warn("append action events", "error", err)
		}
	}
	s.Publish(pending)

	writeJSON(w, map[string]any{
		"applied": applied,
		"log":     log,
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.Eng == nil {
		http.Error(w, "no live engine", http.StatusConflict)
		return
	}

	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Eng.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.DB == nil {
		http.Error(w, "no database attached", http.StatusConflict)
		return
	}

	slot := r.URL.Query().Get("slot")
	if slot == "" {
		slot = "manual"
	}

	s.Mu.Lock()
	err := s.DB.Checkpoint(slot, s.Sim.K)
	tick := s.Sim.K.Tick
	s.Mu.Unlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"slot": slot, "tick": tick})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
