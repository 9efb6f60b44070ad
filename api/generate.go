package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openclaw/qrform/qr"
)

// GenerateRequest is the JSON body of POST /api/qr. Unset fields take the
// configured form defaults.
type GenerateRequest struct {
	Text       string `json:"text"`
	ModuleSize *int   `json:"module_size,omitempty"`
	Border     *int   `json:"border,omitempty"`
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
	Format     string `json:"format,omitempty"`
}

// maxRequestBody bounds JSON bodies; the largest symbol holds under 3 KB of text.
const maxRequestBody = 64 << 10

// handleAPIGenerate renders a QR code from a JSON request and returns the
// image bytes. It leaves the form's last result alone.
func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	settings := settingsFromDefaults(s.Defaults)
	if req.ModuleSize != nil {
		settings.ModuleSize = *req.ModuleSize
	}
	if req.Border != nil {
		settings.Border = *req.Border
	}
	if req.Foreground != "" {
		settings.Foreground = req.Foreground
	}
	if req.Background != "" {
		settings.Background = req.Background
	}
	if req.Format != "" {
		settings.Format = strings.ToUpper(req.Format)
	}
	if err := settings.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	qreq, err := settings.request(req.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_, img, err := qr.Generate(qreq)
	if err != nil {
		if errorStatus(err) == http.StatusInternalServerError {
			s.Log.Error("generate qr code", "error", err)
		}
		writeError(w, errorStatus(err), err.Error())
		return
	}

	writeImage(w, img, img.Filename(s.now()))
}
