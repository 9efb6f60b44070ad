package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/openclaw/qrform/config"
)

const sessionName = "qrform-session"

const (
	sessionModuleSize = "module_size"
	sessionBorder     = "border"
	sessionForeground = "foreground"
	sessionBackground = "background"
	sessionFormat     = "format"
)

// NewSessionStore returns a cookie store for form settings. With an empty
// secret a random key is generated, so sessions do not survive a restart.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	key := []byte(secret)
	if secret == "" {
		key = securecookie.GenerateRandomKey(32)
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// formSettings are the layout choices of the last submission.
type formSettings struct {
	ModuleSize int
	Border     int
	Foreground string
	Background string
	Format     string
}

func settingsFromDefaults(d config.FormDefaults) formSettings {
	return formSettings{
		ModuleSize: d.ModuleSize,
		Border:     d.Border,
		Foreground: d.Foreground,
		Background: d.Background,
		Format:     strings.ToUpper(d.Format),
	}
}

// loadSettings returns the settings stored in the session, falling back to
// the configured defaults for anything missing. Flash messages are consumed.
func (s *Server) loadSettings(w http.ResponseWriter, r *http.Request) (formSettings, []string) {
	settings := settingsFromDefaults(s.Defaults)

	sess, err := s.Sessions.Get(r, sessionName)
	if err != nil {
		// A cookie signed with an old key decodes to a fresh session.
		s.Log.Debug("discarding unreadable session", "error", err)
	}
	if sess == nil {
		return settings, nil
	}

	if v, ok := sess.Values[sessionModuleSize].(int); ok {
		settings.ModuleSize = v
	}
	if v, ok := sess.Values[sessionBorder].(int); ok {
		settings.Border = v
	}
	if v, ok := sess.Values[sessionForeground].(string); ok {
		settings.Foreground = v
	}
	if v, ok := sess.Values[sessionBackground].(string); ok {
		settings.Background = v
	}
	if v, ok := sess.Values[sessionFormat].(string); ok {
		settings.Format = v
	}

	var flashes []string
	if raw := sess.Flashes(); len(raw) > 0 {
		for _, f := range raw {
			if msg, ok := f.(string); ok {
				flashes = append(flashes, msg)
			}
		}
		if err := sess.Save(r, w); err != nil {
			s.Log.Warn("save session", "error", err)
		}
	}
	return settings, flashes
}

// saveSettings remembers settings in the session along with a flash message.
func (s *Server) saveSettings(w http.ResponseWriter, r *http.Request, settings formSettings, flash string) {
	sess, _ := s.Sessions.Get(r, sessionName)
	if sess == nil {
		return
	}
	sess.Values[sessionModuleSize] = settings.ModuleSize
	sess.Values[sessionBorder] = settings.Border
	sess.Values[sessionForeground] = settings.Foreground
	sess.Values[sessionBackground] = settings.Background
	sess.Values[sessionFormat] = settings.Format
	if flash != "" {
		sess.AddFlash(flash)
	}
	if err := sess.Save(r, w); err != nil {
		s.Log.Warn("save session", "error", err)
	}
}
