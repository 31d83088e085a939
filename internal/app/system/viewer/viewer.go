// Package viewer tracks anonymous dashboard viewers. There is no login: a
// signed cookie gives each browser a stable viewer id and remembers which
// comparison workspace that browser owns, so a reload lands back on the same
// in-memory workspace while it is still alive.
package viewer

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

type contextKey int

const viewerKey contextKey = iota

// Session value keys inside the cookie.
const (
	viewerIDKey    = "viewer_id"
	workspaceIDKey = "workspace_id"
)

// Viewer is the per-browser identity carried in the request context.
type Viewer struct {
	ID          string
	WorkspaceID string // "" until a workspace has been bound
}

// Manager encapsulates the viewer cookie store and configuration.
type Manager struct {
	store  *sessions.CookieStore
	logger *zap.Logger
	name   string
}

// ConfigError is returned when the viewer cookie configuration is invalid.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// NewManager creates a viewer cookie manager.
//
//   - cookieKey: signing key for the cookie (>=32 random chars in production)
//   - name: cookie name (defaults to "epivigil-viewer" if empty)
//   - domain: cookie domain (empty means current host)
//   - maxAge: cookie lifetime
//   - secure: Secure cookies for HTTPS production mode
func NewManager(cookieKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*Manager, error) {
	if cookieKey == "" {
		return nil, &ConfigError{Message: "viewer cookie key is empty; provide >=32 random chars"}
	}
	if len(cookieKey) < 32 {
		if secure {
			return nil, &ConfigError{Message: "viewer cookie key is too weak for production; provide >=32 random chars"}
		}
		logger.Warn("viewer cookie key is weak; 32+ random chars required in production",
			zap.Int("length", len(cookieKey)))
	}

	if name == "" {
		name = "epivigil-viewer"
	}

	store := sessions.NewCookieStore([]byte(cookieKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("viewer cookie manager initialized",
		zap.Bool("secure", secure),
		zap.String("name", name))

	return &Manager{store: store, logger: logger, name: name}, nil
}

// Load is middleware that attaches the request's Viewer to the context,
// minting a fresh viewer id when the cookie is absent or undecodable. A
// cookie signed with a rotated key decodes as a securecookie error and is
// replaced rather than rejected.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, m.name)
		if err != nil {
			if _, ok := err.(securecookie.Error); ok {
				m.logger.Debug("resetting undecodable viewer cookie")
				sess, _ = m.store.New(r, m.name)
				sess.Values = map[any]any{}
			} else {
				m.logger.Warn("viewer cookie load failed", zap.Error(err))
			}
		}

		v := Viewer{
			ID:          getString(sess, viewerIDKey),
			WorkspaceID: getString(sess, workspaceIDKey),
		}
		if v.ID == "" {
			v.ID = uuid.NewString()
			sess.Values[viewerIDKey] = v.ID
			if err := sess.Save(r, w); err != nil {
				m.logger.Warn("failed to save viewer cookie", zap.Error(err))
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), viewerKey, &v)))
	})
}

// BindWorkspace records the viewer's workspace id in the cookie so the next
// page load finds the same workspace.
func (m *Manager) BindWorkspace(w http.ResponseWriter, r *http.Request, workspaceID string) error {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		if _, ok := err.(securecookie.Error); !ok {
			return err
		}
		sess, _ = m.store.New(r, m.name)
		sess.Values = map[any]any{}
	}
	if v := FromContext(r.Context()); v != nil {
		sess.Values[viewerIDKey] = v.ID
		v.WorkspaceID = workspaceID
	}
	sess.Values[workspaceIDKey] = workspaceID
	return sess.Save(r, w)
}

// FromContext returns the Viewer attached by Load, or nil.
func FromContext(ctx context.Context) *Viewer {
	v, _ := ctx.Value(viewerKey).(*Viewer)
	return v
}

// WithTestViewer injects a viewer into the request context, bypassing the
// cookie middleware. For handler tests only.
func WithTestViewer(r *http.Request, v *Viewer) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), viewerKey, v))
}

func getString(s *sessions.Session, key string) string {
	if s == nil {
		return ""
	}
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
