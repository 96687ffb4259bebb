package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	sessionName       = "dashboard_session"
	sessionMaxAge     = 3600
	sessionContextKey = "session"

	sessionKeyGameSyncID = "gsid"
	sessionKeyCSRF       = "csrf_token"

	csrfHeader = "X-CSRF-Token"
)

// SessionMiddleware loads the dashboard session and stores it on the gin context.
func SessionMiddleware(cfg Config, store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.Get(c.Request, sessionName)
		if err != nil && session == nil {
			respondError(c, http.StatusInternalServerError, "session error")
			c.Abort()
			return
		}
		// A cookie that no longer decodes yields a fresh session; start over with it.
		applySessionOptions(cfg, session)
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

func currentSession(c *gin.Context) *sessions.Session {
	v, _ := c.Get(sessionContextKey)
	s, _ := v.(*sessions.Session)
	return s
}

// sessionGameSyncID returns the Game Sync ID bound to the dashboard session, if any.
func sessionGameSyncID(c *gin.Context) string {
	s := currentSession(c)
	if s == nil {
		return ""
	}
	gsid, _ := s.Values[sessionKeyGameSyncID].(string)
	return gsid
}

// OriginRefererMiddleware validates Origin/Referer against allowed list and sets CORS headers.
// Requests without either header (game clients, same-origin navigation) pass.
func OriginRefererMiddleware(cfg Config) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.ToLower(strings.TrimSpace(o))] = struct{}{}
	}
	isAllowed := func(origin string) bool {
		if origin == "" {
			return true
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if referer := c.GetHeader("Referer"); origin == "" && referer != "" {
			if u, err := url.Parse(referer); err == nil {
				origin = u.Scheme + "://" + u.Host
			}
		}

		if !isAllowed(origin) {
			respondError(c, http.StatusForbidden, "origin not allowed")
			c.Abort()
			return
		}
		if origin != "" {
			setCORSHeaders(c, origin)
		}
		if c.Request.Method == http.MethodOptions && origin != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func setCORSHeaders(c *gin.Context, origin string) {
	c.Header("Access-Control-Allow-Origin", origin)
	c.Header("Vary", "Origin")
	c.Header("Access-Control-Allow-Credentials", "true")
	c.Header("Access-Control-Allow-Headers", "Content-Type, "+csrfHeader)
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Expose-Headers", csrfHeader)
}

// CSRFMiddleware issues a per-session token and requires it on unsafe dashboard requests.
// Must run after SessionMiddleware.
func CSRFMiddleware(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := currentSession(c)
		if session == nil {
			respondError(c, http.StatusInternalServerError, "session error")
			c.Abort()
			return
		}

		token, _ := session.Values[sessionKeyCSRF].(string)
		if token == "" {
			token = generateCSRFToken()
			session.Values[sessionKeyCSRF] = token
			applySessionOptions(cfg, session)
			if err := session.Save(c.Request, c.Writer); err != nil {
				respondError(c, http.StatusInternalServerError, "failed to persist session")
				c.Abort()
				return
			}
		}

		if !isSafeMethod(c.Request.Method) && !csrfExemptPath(c.Request.URL.Path) {
			header := c.GetHeader(csrfHeader)
			if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(token)) != 1 {
				respondError(c, http.StatusForbidden, "invalid csrf token")
				c.Abort()
				return
			}
		}

		c.Writer.Header().Set(csrfHeader, token)
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// Paths that skip CSRF validation: dashboard login happens before the page has a token.
func csrfExemptPath(path string) bool {
	return path == "/dashboard/login"
}

func generateCSRFToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}

func applySessionOptions(cfg Config, session *sessions.Session) {
	if session.Options == nil {
		session.Options = &sessions.Options{}
	}
	session.Options.Path = "/dashboard"
	session.Options.MaxAge = sessionMaxAge
	session.Options.HttpOnly = true
	session.Options.Secure = cfg.CookieSecure
	session.Options.SameSite = sameSiteFromString(cfg.CookieSameSite)
}

func sameSiteFromString(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
