package store

import (
	"sync"
	"time"

	"github.com/openclaw/qrform/qr"
)

// Result is the outcome of the most recent form submission.
type Result struct {
	Text      string
	Symbol    *qr.Symbol
	Image     *qr.RenderedImage
	CreatedAt time.Time
}

// As returns the result's image in format, rendering the stored symbol again
// with the submitted colors when format differs from the one submitted.
func (r *Result) As(format qr.Format) (*qr.RenderedImage, error) {
	if format == "" || format == r.Image.Format {
		return r.Image, nil
	}
	return qr.RenderColors(r.Symbol, r.Image.Foreground, r.Image.Background, format)
}

// Filename is the download name of img, stamped with the submission time so
// every format of one result shares it.
func (r *Result) Filename(img *qr.RenderedImage) string {
	return img.Filename(r.CreatedAt)
}

// ResultStore holds the last result. Each Save replaces the previous one.
type ResultStore struct {
	mu     sync.RWMutex
	latest *Result
}

// NewResultStore returns an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Save makes res the latest result.
func (s *ResultStore) Save(res *Result) {
	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()
}

// Latest returns the last saved result, if any.
func (s *ResultStore) Latest() (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}
