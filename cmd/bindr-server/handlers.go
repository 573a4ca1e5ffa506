package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/alanderos91/BindrTest/internal/lattice"
	"github.com/alanderos91/BindrTest/internal/lattice/notifiers"
)

// extractRunID extracts the run ID from a path like "/runs/{id}/..."
// Returns the run ID and the remaining path, or empty strings if not found.
func extractRunID(path string) (lattice.RunID, string) {
	if !strings.HasPrefix(path, "/runs/") {
		return "", ""
	}
	rest := path[len("/runs/"):]
	idx := strings.Index(rest, "/")
	if idx == -1 {
		return lattice.RunID(rest), ""
	}
	return lattice.RunID(rest[:idx]), rest[idx:]
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /models: register a ModelConfig.
// GET  /models: list registered model names.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		defer r.Body.Close()
		var cfg lattice.ModelConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "invalid model json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.RegisterModel(cfg); err != nil {
			http.Error(w, "cannot register model: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Infof("Model registered: name=%s rules=%d", cfg.Name, len(cfg.Rules))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "model": cfg.Name})

	case http.MethodGet:
		s.mu.RLock()
		names := make([]string, 0, len(s.models))
		for name := range s.models {
			names = append(names, name)
		}
		s.mu.RUnlock()
		writeJSON(w, http.StatusOK, map[string]any{"models": names})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// startRunRequest starts a run of a registered model, with optional
// overrides of the model's run settings.
type startRunRequest struct {
	Model       string    `json:"model"`
	Algorithm   string    `json:"algorithm,omitempty"`
	FinalTime   float64   `json:"final_time,omitempty"`
	SampleTimes []float64 `json:"sample_times,omitempty"`
	SampleCount int       `json:"sample_count,omitempty"`
	Seed        *int64    `json:"seed,omitempty"`
	Notify      []string  `json:"notify,omitempty"`
}

// POST /runs: start a run.
// GET  /runs: list runs with status.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleStartRun(w, r)
	case http.MethodGet:
		s.handleListRuns(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req startRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg, exists := s.GetModel(req.Model)
	if !exists {
		http.Error(w, "model not found: "+req.Model, http.StatusNotFound)
		return
	}
	if req.Algorithm != "" {
		cfg.Algorithm = req.Algorithm
	}
	if req.FinalTime > 0 {
		cfg.FinalTime = req.FinalTime
	}
	if len(req.SampleTimes) > 0 {
		cfg.SampleTimes = req.SampleTimes
	}
	if req.SampleCount > 0 {
		cfg.SampleTimes = nil
		cfg.SampleCount = req.SampleCount
	}
	if req.Seed != nil {
		cfg.Seed = req.Seed
	}

	// Each run gets a freshly built state so runs never share mutable data.
	model, initial, err := lattice.BuildModelFromConfig(cfg)
	if err != nil {
		http.Error(w, "cannot build model: "+err.Error(), http.StatusBadRequest)
		return
	}
	alg, ok := lattice.ParseAlgorithm(cfg.Algorithm)
	if !ok {
		http.Error(w, "unknown algorithm: "+cfg.Algorithm, http.StatusBadRequest)
		return
	}

	runID, err := s.manager.StartRun(lattice.RunSpec{
		ModelName:   cfg.Name,
		Model:       model,
		Initial:     initial,
		Algorithm:   alg,
		FinalTime:   cfg.FinalTime,
		SampleTimes: cfg.ResolveSampleTimes(),
		Seed:        cfg.Seed,
		MaxEvents:   cfg.MaxEvents,
		Notify:      req.Notify,
	})
	if err != nil {
		s.logger.Errorf("Failed to start run: model=%s error=%v", cfg.Name, err)
		http.Error(w, "cannot start run: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Infof("Run started: run_id=%s model=%s algorithm=%s", runID, cfg.Name, alg)
	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": string(runID)})
}

// runInfo is the status payload for one run.
type runInfo struct {
	RunID     string  `json:"run_id"`
	Model     string  `json:"model"`
	Status    string  `json:"status"`
	Events    int     `json:"events,omitempty"`
	FinalTime float64 `json:"final_time,omitempty"`
	Error     string  `json:"error,omitempty"`
}

func describeRun(run *lattice.Run) runInfo {
	info := runInfo{
		RunID:  string(run.ID()),
		Model:  run.ModelName(),
		Status: run.Status().String(),
	}
	if result, done := run.Result(); done && result != nil {
		info.Events = result.Events
		info.FinalTime = result.FinalTime
	}
	if err := run.Err(); err != nil {
		info.Error = err.Error()
	}
	return info
}

func (s *Server) handleListRuns(w http.ResponseWriter, _ *http.Request) {
	ids := s.manager.ListRuns()
	infos := make([]runInfo, 0, len(ids))
	for _, id := range ids {
		if run, exists := s.manager.GetRun(id); exists {
			infos = append(infos, describeRun(run))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": infos})
}

// handleRunRoutes dispatches /runs/{id}, /runs/{id}/trajectory and
// /runs/{id}/cancel.
func (s *Server) handleRunRoutes(w http.ResponseWriter, r *http.Request) {
	runID, rest := extractRunID(r.URL.Path)
	if runID == "" {
		http.Error(w, "run ID is required in path: /runs/{id}", http.StatusBadRequest)
		return
	}
	run, exists := s.manager.GetRun(runID)
	if !exists {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, describeRun(run))

	case rest == "" && r.Method == http.MethodDelete:
		if err := s.manager.DeleteRun(runID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	case rest == "/cancel" && r.Method == http.MethodPost:
		if err := s.manager.CancelRun(runID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelling"})

	case rest == "/trajectory" && r.Method == http.MethodGet:
		s.handleTrajectory(w, r, run)

	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /runs/{id}/trajectory returns the recorded samples of a terminal run.
// With ?save=1 the trajectory is also written to the data dir.
func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request, run *lattice.Run) {
	result, done := run.Result()
	if !done || result == nil {
		http.Error(w, "run is still in progress", http.StatusConflict)
		return
	}

	samples := result.Trajectory.Samples()
	if r.URL.Query().Get("save") == "1" && s.dataDir != "" {
		path := filepath.Join(s.dataDir, string(run.ID())+".json")
		if err := s.writeTrajectoryFile(path, samples); err != nil {
			s.logger.Errorf("Failed to write trajectory file: run_id=%s error=%v", run.ID(), err)
			http.Error(w, "cannot write trajectory: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.logger.Infof("Trajectory saved: run_id=%s path=%s", run.ID(), path)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":  string(run.ID()),
		"status":  run.Status().String(),
		"samples": samples,
	})
}

func (s *Server) writeTrajectoryFile(path string, samples []lattice.Sample) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// registerNotifierRequest registers a webhook notifier. Websocket clients
// connect through /ws instead.
type registerNotifierRequest struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	URL  string `json:"url,omitempty"`
}

// handleNotifiersRoutes dispatches /notifiers and /notifiers/{id}.
func (s *Server) handleNotifiersRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/notifiers")
	switch {
	case rest == "" && r.Method == http.MethodGet:
		s.handleListNotifiers(w, r)
	case rest == "" && r.Method == http.MethodPost:
		s.handleRegisterNotifier(w, r)
	case strings.HasPrefix(rest, "/") && r.Method == http.MethodDelete:
		s.handleUnregisterNotifier(w, r, rest[1:])
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"notifiers": s.notifierMgr.ListNotifiers()})
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "notifier id is required", http.StatusBadRequest)
		return
	}

	var notifier lattice.Notifier
	switch req.Type {
	case "webhook":
		if req.URL == "" {
			http.Error(w, "webhook notifier requires a url", http.StatusBadRequest)
			return
		}
		notifier = notifiers.NewWebhookNotifier(req.ID, req.URL)
	case "websocket":
		notifier = notifiers.NewWebSocketNotifier(req.ID)
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.notifierMgr.RegisterNotifier(notifier); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.logger.Infof("Notifier registered: id=%s type=%s", req.ID, req.Type)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": req.ID})
}

func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, _ *http.Request, id string) {
	if id == wsNotifierID {
		http.Error(w, "the built-in websocket notifier cannot be removed", http.StatusBadRequest)
		return
	}
	if err := s.notifierMgr.UnregisterNotifier(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /ws upgrades to a websocket subscribed to the built-in notifier.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.wsNotifier.Upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("WebSocket upgrade failed: %v", err)
		return
	}
	s.wsNotifier.RegisterClient(conn)
	s.logger.Debugf("WebSocket client connected: remote=%s", r.RemoteAddr)

	// Drain reads so close frames are processed; unregister on error/close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.wsNotifier.UnregisterClient(conn)
				return
			}
		}
	}()
}

// routes registers every handler on the mux.
func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/models", s.handleModels)
	mux.HandleFunc("/runs", s.handleRuns)
	mux.HandleFunc("/runs/", s.handleRunRoutes)
	mux.HandleFunc("/notifiers", s.handleNotifiersRoutes)
	mux.HandleFunc("/notifiers/", s.handleNotifiersRoutes)
	mux.HandleFunc("/ws", s.handleWebSocket)
}
