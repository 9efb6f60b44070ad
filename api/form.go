package api

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/openclaw/qrform/config"
	"github.com/openclaw/qrform/qr"
	"github.com/openclaw/qrform/store"
)

// errEmptyText is shown when the form is submitted without text.
var errEmptyText = &qr.InvalidInputError{Reason: "please enter the text to encode"}

type pageData struct {
	Title      string
	Stylesheet template.CSS
	Text       string
	Settings   formSettings
	Formats    []qr.Format
	Limits     formLimits
	Error      string
	Flashes    []string
	Result     *resultView
}

type formLimits struct {
	MinModuleSize, MaxModuleSize int
	MinBorder, MaxBorder         int
}

type resultView struct {
	Preview   template.URL
	Size      int
	Dimension int
	Version   int
	Format    qr.Format
	Downloads []downloadLink
}

type downloadLink struct {
	Format qr.Format
	URL    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	settings, flashes := s.loadSettings(w, r)
	data := s.newPageData(settings)
	data.Flashes = flashes
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	text := r.PostForm.Get("text")
	settings, err := s.parseSettings(r.PostForm)
	if err == nil && text == "" {
		err = errEmptyText
	}

	var req qr.Request
	if err == nil {
		req, err = settings.request(text)
	}

	var (
		sym *qr.Symbol
		img *qr.RenderedImage
	)
	if err == nil {
		sym, img, err = qr.Generate(req)
	}
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			s.Log.Error("generate qr code", "error", err)
		}
		data := s.newPageData(settings)
		data.Text = text
		data.Error = errorMessage(err)
		s.renderPage(w, status, data)
		return
	}

	s.Results.Save(&store.Result{
		Text:      text,
		Symbol:    sym,
		Image:     img,
		CreatedAt: s.now(),
	})
	s.Log.Info("qr code generated",
		"version", sym.Version(),
		"dimension", sym.Dimension(),
		"size", img.Size,
		"format", img.Format,
		"bytes", len(img.Data),
	)

	s.saveSettings(w, r, settings, "QR code generated!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseSettings reads the layout fields and enforces the slider ranges.
// Fields that fail to parse keep their default so the form can be redrawn.
func (s *Server) parseSettings(form url.Values) (formSettings, error) {
	settings := settingsFromDefaults(s.Defaults)
	if v := strings.TrimSpace(form.Get("foreground")); v != "" {
		settings.Foreground = v
	}
	if v := strings.TrimSpace(form.Get("background")); v != "" {
		settings.Background = v
	}
	if v := strings.TrimSpace(form.Get("format")); v != "" {
		settings.Format = strings.ToUpper(v)
	}

	size, err := strconv.Atoi(strings.TrimSpace(form.Get("module_size")))
	if err != nil {
		return settings, &qr.InvalidInputError{Reason: "module size must be a whole number"}
	}
	settings.ModuleSize = size

	border, err := strconv.Atoi(strings.TrimSpace(form.Get("border")))
	if err != nil {
		return settings, &qr.InvalidInputError{Reason: "border must be a whole number"}
	}
	settings.Border = border

	return settings, settings.validate()
}

func (f formSettings) validate() error {
	if f.ModuleSize < config.MinModuleSize || f.ModuleSize > config.MaxModuleSize {
		return &qr.InvalidInputError{Reason: fmt.Sprintf("module size must be between %d and %d", config.MinModuleSize, config.MaxModuleSize)}
	}
	if f.Border < config.MinBorder || f.Border > config.MaxBorder {
		return &qr.InvalidInputError{Reason: fmt.Sprintf("border must be between %d and %d", config.MinBorder, config.MaxBorder)}
	}
	return nil
}

func (f formSettings) request(text string) (qr.Request, error) {
	format, err := qr.ParseFormat(f.Format)
	if err != nil {
		return qr.Request{}, err
	}
	return qr.Request{
		Text:       text,
		ModuleSize: f.ModuleSize,
		Border:     f.Border,
		Foreground: f.Foreground,
		Background: f.Background,
		Format:     format,
	}, nil
}

func errorMessage(err error) string {
	var inputErr *qr.InvalidInputError
	if errors.As(err, &inputErr) {
		return capitalize(inputErr.Reason) + "."
	}
	var colorErr *qr.InvalidColorError
	if errors.As(err, &colorErr) {
		return fmt.Sprintf("Color %q is not valid: %s.", colorErr.Value, colorErr.Reason)
	}
	return "Something went wrong while generating the QR code."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *Server) newPageData(settings formSettings) *pageData {
	data := &pageData{
		Title:      "QR Code Generator",
		Stylesheet: template.CSS(s.Stylesheet),
		Settings:   settings,
		Formats:    qr.Formats,
		Limits: formLimits{
			MinModuleSize: config.MinModuleSize,
			MaxModuleSize: config.MaxModuleSize,
			MinBorder:     config.MinBorder,
			MaxBorder:     config.MaxBorder,
		},
	}

	res, ok := s.Results.Latest()
	if !ok {
		return data
	}
	data.Text = res.Text
	view := &resultView{
		Preview:   template.URL(res.Image.DataURL()),
		Size:      res.Image.Size,
		Dimension: res.Symbol.Dimension(),
		Version:   res.Symbol.Version(),
		Format:    res.Image.Format,
	}
	for _, f := range qr.Formats {
		view.Downloads = append(view.Downloads, downloadLink{Format: f, URL: "/download?format=" + string(f)})
	}
	data.Result = view
	return data
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.Log.Error("render page", "error", err)
	}
}
