package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role gates which navigation entries and pages a session can see. The
// gating is cosmetic: the dashboard never treats it as a security boundary,
// real authorization belongs to the backend.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleAdmin    Role = "Admin"
)

// RoleNames lists the selectable roles in display order.
func RoleNames() []string {
	return []string{string(RoleEmployee), string(RoleManager), string(RoleAdmin)}
}

// ParseRole maps a stored role string onto the three-value enum. Anything
// else, including the empty string, degrades to Employee. Every consumer of
// a session goes through this single normalization point.
func ParseRole(value string) Role {
	switch Role(value) {
	case RoleEmployee, RoleManager, RoleAdmin:
		return Role(value)
	default:
		return RoleEmployee
	}
}

// Session is the identity/role pair for the person using the dashboard.
type Session struct {
	DisplayName string
	Role        Role
}

// Default is what Current returns when no valid session cookie exists.
func Default() Session {
	return Session{DisplayName: "User", Role: RoleEmployee}
}

type claims struct {
	DisplayName string `json:"name"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// CookieName is the single fixed key under which the session travels.
const CookieName = "expense_session"

// Manager signs sessions into a browser cookie and reads them back. The
// cookie is tamper-evident but not encrypted and the default secret is a
// published dev value: unsuitable for real credentials.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Issue overwrites any previous session with the given identity.
func (m *Manager) Issue(w http.ResponseWriter, displayName string, role Role) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		DisplayName: displayName,
		Role:        string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl / time.Second),
	})
	return nil
}

// Current returns the session carried by the request, or Default when the
// cookie is absent, expired, or unparseable. A recognizable session with an
// out-of-enum role keeps its display name and degrades the role to Employee.
func (m *Manager) Current(r *http.Request) Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Default()
	}
	parsed, err := m.parse(cookie.Value)
	if err != nil {
		return Default()
	}
	name := parsed.DisplayName
	if name == "" {
		name = Default().DisplayName
	}
	return Session{DisplayName: name, Role: ParseRole(parsed.Role)}
}

// Authenticated reports whether the request carries a valid session cookie,
// as opposed to Current's fallback default.
func (m *Manager) Authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	_, err = m.parse(cookie.Value)
	return err == nil
}

// Clear expires the cookie. Logout is purely local state clearing; the
// backend is not told.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (m *Manager) parse(tokenString string) (*claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	parsed, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return parsed, nil
}
