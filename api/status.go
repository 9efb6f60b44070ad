package api

import (
	"net/http"
	"time"
)

type statusResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	HasResult bool   `json:"has_result"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	_, hasResult := s.Results.Latest()
	uptime := time.Since(s.StartTime).Truncate(time.Second).String()

	writeJSON(w, http.StatusOK, statusResponse{
		Status:    "ok",
		Version:   s.Version,
		Uptime:    uptime,
		HasResult: hasResult,
	})
}
