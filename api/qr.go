package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"

	"github.com/openclaw/qrform/qr"
)

type qrDataResponse struct {
	Status   string `json:"status"`
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	Filename string `json:"filename,omitempty"`
	Size     int    `json:"size,omitempty"`
	Image    string `json:"image,omitempty"`
}

// handleDownload serves the last result as an attachment. The optional
// format query renders the stored symbol in another format.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	res, ok := s.Results.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no QR code has been generated yet")
		return
	}

	var format qr.Format
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := qr.ParseFormat(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = f
	}

	img, err := res.As(format)
	if err != nil {
		s.Log.Error("render download", "format", format, "error", err)
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeImage(w, img, res.Filename(img))
}

func (s *Server) handleQRData(w http.ResponseWriter, r *http.Request) {
	res, ok := s.Results.Latest()
	if !ok {
		writeJSON(w, http.StatusOK, qrDataResponse{Status: "empty"})
		return
	}

	writeJSON(w, http.StatusOK, qrDataResponse{
		Status:   "ready",
		Text:     res.Text,
		MIMEType: res.Image.MIMEType,
		Filename: res.Filename(res.Image),
		Size:     res.Image.Size,
		Image:    base64.StdEncoding.EncodeToString(res.Image.Data),
	})
}

func writeImage(w http.ResponseWriter, img *qr.RenderedImage, filename string) {
	w.Header().Set("Content-Type", img.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}
