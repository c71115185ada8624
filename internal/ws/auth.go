package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const feedSubject = "lead-feed"

// FeedTokenTTL só vale para abrir a conexão; o socket aberto não expira.
const FeedTokenTTL = 5 * time.Minute

var ErrFeedToken = errors.New("ws: invalid feed token")

// SignFeedToken emite o token que a tela de relatório liberada usa para assinar o feed.
func SignFeedToken(secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrFeedToken
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   feedSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func VerifyFeedToken(secret []byte, token string) error {
	if len(secret) == 0 || token == "" {
		return ErrFeedToken
	}
	_, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(feedSubject),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return errors.Join(ErrFeedToken, err)
	}
	return nil
}

// Auth controla quem pode abrir o /ws.
type Auth struct {
	Secret []byte
	// origens aceitas no upgrade; vazio = só a mesma origem
	Origins []string
}

func (a Auth) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if len(a.Origins) == 0 {
		return origin == "" || sameOrigin(r, origin)
	}
	for _, o := range a.Origins {
		if o == origin {
			return true
		}
	}
	return false
}

func sameOrigin(r *http.Request, origin string) bool {
	for _, scheme := range []string{"http://", "https://"} {
		if origin == scheme+r.Host {
			return true
		}
	}
	return false
}
