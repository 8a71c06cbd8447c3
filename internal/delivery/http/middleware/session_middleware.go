package middleware

import (
	"net/http"
	"time"

	"fitsync/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// sessionContextKey is the echo context key the session ID is stored under.
const sessionContextKey = "sessionID"

// SessionMiddleware assigns every browser a stable anonymous session ID via
// a signed cookie. The ID only keys pending OAuth handshakes; it carries no
// identity.
type SessionMiddleware struct {
	cfg *config.Config
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(cfg *config.Config) *SessionMiddleware {
	return &SessionMiddleware{cfg: cfg}
}

// WithSession resolves the session ID from the signed cookie, minting a new
// one when the cookie is absent or its signature does not verify.
func (m *SessionMiddleware) WithSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := ""
		if cookie, err := c.Cookie(m.cfg.Session.CookieName); err == nil {
			sessionID = m.verify(cookie.Value)
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			signed, err := m.sign(sessionID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue session")
			}
			c.SetCookie(&http.Cookie{
				Name:     m.cfg.Session.CookieName,
				Value:    signed,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(sessionContextKey, sessionID)

		return next(c)
	}
}

// SessionID returns the session ID resolved by WithSession, or empty when
// the middleware did not run.
func SessionID(c echo.Context) string {
	sessionID, _ := c.Get(sessionContextKey).(string)

	return sessionID
}

func (m *SessionMiddleware) sign(sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"iat": time.Now().Unix(),
	})

	return token.SignedString([]byte(m.cfg.Session.Secret))
}

func (m *SessionMiddleware) verify(value string) string {
	token, err := jwt.Parse(value, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(m.cfg.Session.Secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sessionID, _ := claims["sid"].(string)

	return sessionID
}
