package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ErrInvalidToken токен отсутствует, подделан, просрочен или не содержит пользователя
var ErrInvalidToken = fmt.Errorf("identity: invalid token: %w", domain.ErrAuthentication)

// Claims полезная нагрузка токена; sub содержит ID пользователя
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Verifier проверяет HS256 токены, выпущенные сервисом авторизации
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify проверяет подпись и срок действия, возвращает пользователя из токена
func (v *Verifier) Verify(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, fmt.Errorf("%w: token expired", ErrInvalidToken)
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: missing subject or unknown role", ErrInvalidToken)
	}

	return domain.Identity{UserID: claims.Subject, Role: role}, nil
}

// Issue подписывает токен для пользователя; используется в тестах и локальной разработке
func (v *Verifier) Issue(identity domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: string(identity.Role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
