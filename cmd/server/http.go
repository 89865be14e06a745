package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/xtding233/waves-rank/internal/config"
	"github.com/xtding233/waves-rank/internal/gacha/sim"
	"github.com/xtding233/waves-rank/internal/metrics"
	"github.com/xtding233/waves-rank/internal/plugin"
)

const (
	maxTrials = 100000
	maxRuns   = 1000
	// caps runs*trials for one request
	maxTargets = 2_000_000
)

type eventResp struct {
	Handled  bool             `json:"handled"`
	Messages []plugin.Message `json:"messages"`
	Err      string           `json:"err,omitempty"`
}

type simResp struct {
	Goal  sim.Goal `json:"goal"`
	Mean  float64  `json:"mean"`
	Std   float64  `json:"std"`
	P50   float64  `json:"p50"`
	P90   float64  `json:"p90"`
	P99   float64  `json:"p99"`
	Luck  *float64 `json:"luck,omitempty"`
	Err   string   `json:"err,omitempty"`
	Count int      `json:"count,omitempty"`
}

func newRouter(p *plugin.Plugin, cfg *config.Provider, m *metrics.Metrics, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Handle("/metrics", m.Handler())
	r.Route("/api", func(rr chi.Router) {
		rr.Post("/event", handleEvent(p, log))
		rr.Get("/simulate", handleSimulate(cfg))
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleEvent runs one chat event and returns the replies it produced.
func handleEvent(p *plugin.Plugin, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev plugin.Event
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 32<<20)).Decode(&ev); err != nil {
			http.Error(w, "invalid event", http.StatusBadRequest)
			return
		}
		if ev.UserID == "" {
			http.Error(w, "missing user_id", http.StatusBadRequest)
			return
		}
		rec := &plugin.Recorder{}
		handled, err := p.Handle(r.Context(), rec, &ev)
		resp := eventResp{Handled: handled, Messages: rec.Messages}
		if resp.Messages == nil {
			resp.Messages = []plugin.Message{}
		}
		if err != nil {
			log.Debug("event handled with error", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
			resp.Err = err.Error()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func parseFloat(r *http.Request, key string) (float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

// handleSimulate runs the configured pity model for a banner.
// Query: banner=character|weapon, goal=gold|up, runs, trials, observed (pulls per target).
func handleSimulate(cfg *config.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := cfg.Get()
		draw := c.Banners.Character
		switch r.URL.Query().Get("banner") {
		case "", "character":
		case "weapon":
			draw = c.Banners.Weapon
		default:
			http.Error(w, "invalid banner", http.StatusBadRequest)
			return
		}
		goal := sim.Goal(r.URL.Query().Get("goal"))
		if goal == "" {
			goal = sim.GoalGold
		}
		if goal != sim.GoalGold && goal != sim.GoalUp {
			http.Error(w, "invalid goal", http.StatusBadRequest)
			return
		}

		runs, ok, msg := parseInt(r, "runs")
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		if ok && (runs <= 0 || runs > maxRuns) {
			http.Error(w, "missing/invalid param runs", http.StatusBadRequest)
			return
		}
		if !ok {
			runs = 1
		}
		trials, ok, msg := parseInt(r, "trials")
		if msg != "" || (ok && (trials <= 0 || trials > maxTrials)) {
			http.Error(w, "missing/invalid param trials", http.StatusBadRequest)
			return
		}
		if !ok {
			trials = c.Banners.LuckTrials
		}
		if runs*trials > maxTargets {
			http.Error(w, "runs*trials too large", http.StatusBadRequest)
			return
		}
		observed, hasObserved, msg := parseFloat(r, "observed")
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		start := time.Now()
		st, err := sim.RunMonteCarlo(r.Context(), draw.Params(), goal, runs, trials, sim.NewSeededRNG(c.Banners.LuckSeed))
		if r.Context().Err() != nil {
			http.Error(w, "request cancelled", http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			writeJSON(w, http.StatusBadRequest, simResp{Goal: goal, Err: err.Error()})
			return
		}
		resp := simResp{Goal: goal, Mean: st.Mean, Std: st.StdDev, P50: st.P50, P90: st.P90, P99: st.P99, Count: len(st.Samples)}
		if hasObserved {
			l := st.Luck(observed)
			resp.Luck = &l
		}
		w.Header().Set("X-Elapsed", time.Since(start).String())
		writeJSON(w, http.StatusOK, resp)
	}
}
