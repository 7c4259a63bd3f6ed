package web

import (
	"encoding/json"
	"net/http"
)

// handleState returns what the UI currently shows
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.shell.Snapshot())
}

// handleClick presses the snippet button built from a source row
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Row *int `json:"row"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if *req.Row < 1 {
		http.Error(w, "Invalid row", http.StatusBadRequest)
		return
	}

	s.actions.Click(*req.Row)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// handleReload reloads the data source
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.actions.Reload()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// handleHotkeys switches the global hotkeys on or off
func (s *Server) handleHotkeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.actions.SetHotkeysEnabled(*req.Enabled)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// handleDiagnostics reports hotkey conflicts and injection counters
func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.actions.Diagnostics())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
