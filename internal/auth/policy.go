// Package auth определяет личность пользователя по токену сессии и его права.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName — cookie, в которой браузер присылает токен сессии.
const CookieName = "skillhub_session"

const defaultDisplayName = "GitHub User"

// ErrInvalidToken — токен не прошёл проверку.
var ErrInvalidToken = errors.New("invalid session token")

// Identity — пользователь текущего запроса.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsAdmin   bool   `json:"isAdmin"`
}

// DisplayName возвращает имя для карточки автора.
func (i Identity) DisplayName() string {
	if n := strings.TrimSpace(i.Name); n != "" {
		return n
	}
	return defaultDisplayName
}

// Claims — полезная нагрузка JWT сессии.
type Claims struct {
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Policy проверяет токены и знает список администраторов.
type Policy struct {
	secret []byte
	admins map[string]struct{}
}

// NewPolicy создаёт политику; пустые id администраторов отбрасываются.
func NewPolicy(secret string, adminIDs []string) *Policy {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		if id = strings.TrimSpace(id); id != "" {
			admins[id] = struct{}{}
		}
	}
	return &Policy{secret: []byte(secret), admins: admins}
}

// IsAdmin проверяет id по списку администраторов.
func (p *Policy) IsAdmin(userID string) bool {
	_, ok := p.admins[userID]
	return ok
}

// Identify разбирает и проверяет токен.
func (p *Policy) Identify(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}

	avatar := claims.Picture
	if avatar == "" {
		avatar = fmt.Sprintf("https://avatars.githubusercontent.com/u/%s?v=4", claims.Subject)
	}
	return Identity{
		ID:        claims.Subject,
		Name:      claims.Name,
		AvatarURL: avatar,
		IsAdmin:   p.IsAdmin(claims.Subject),
	}, nil
}

// IssueToken подписывает токен для пользователя.
func (p *Policy) IssueToken(id Identity, ttl time.Duration) (string, error) {
	if id.ID == "" {
		return "", errors.New("empty user id")
	}
	now := time.Now()
	claims := Claims{
		Name:    id.Name,
		Picture: id.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
