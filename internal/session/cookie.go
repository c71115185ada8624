package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "lead_session"

// Manager liga o cookie assinado (JWT HS256 com o id da sessão) ao Store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, secret string, ttl time.Duration, secureCookie bool) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, secure: secureCookie}
}

func (m *Manager) Store() Store { return m.store }

// Load devolve a sessão do cookie; cookie ausente, inválido ou expirado gera uma sessão nova.
// Passada metade do TTL o cookie é reemitido, acompanhando o TTL deslizante do Store.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if c, err := r.Cookie(CookieName); err == nil {
		if claims, err := m.verify(c.Value); err == nil {
			s, err := m.store.Get(r.Context(), claims.ID)
			if err == nil {
				if m.stale(claims) {
					if err := m.issue(w, s.ID); err != nil {
						return nil, err
					}
				}
				return s, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
	}

	s := New(uuid.NewString())
	if err := m.issue(w, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) issue(w http.ResponseWriter, id string) error {
	token, err := m.sign(id)
	if err != nil {
		return fmt.Errorf("session: sign token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) stale(c *jwt.RegisteredClaims) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return time.Until(c.ExpiresAt.Time) < m.ttl/2
}

func (m *Manager) Save(ctx context.Context, s *Session) error {
	return m.store.Save(ctx, s)
}

func (m *Manager) sign(id string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) verify(token string) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, errors.New("session: token without id")
	}
	return &claims, nil
}
