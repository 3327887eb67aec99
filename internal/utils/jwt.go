package utils // package utils provides helpers for token creation, signing and hashing

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed JWT access token along with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is a random opaque token returned to the client inside the
// refreshToken cookie.  Only its SHA-256 hash is stored.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// Claims are the fields read back from a verified access token.
type Claims struct {
	UserID uint64
	Role   string
}

// NewAccessToken builds and signs an HS256 JWT carrying sub, role, exp and iat.
func NewAccessToken(secret string, userID uint64, role string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  fmt.Sprint(userID),
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and returns its claims.  Only
// HMAC signing methods are accepted.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	var out Claims
	// sub is a decimal string; older tokens may carry a JSON number
	switch v := mc["sub"].(type) {
	case string:
		if _, err := fmt.Sscan(v, &out.UserID); err != nil {
			return Claims{}, ErrInvalidToken
		}
	case float64:
		out.UserID = uint64(v)
	default:
		return Claims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	if out.UserID == 0 || role == "" {
		return Claims{}, ErrInvalidToken
	}
	out.Role = role
	return out, nil
}

// NewRefreshToken returns a cryptographically secure random token and its
// expiration time.
func NewRefreshToken(ttl time.Duration) (RefreshToken, error) {
	raw, err := randomHex(48) // 96 hex chars
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Raw: raw, Exp: time.Now().UTC().Add(ttl)}, nil
}

// NewResetToken returns a random password-reset token.
func NewResetToken() (string, error) {
	return randomHex(32)
}

// HashRefreshRaw returns the hex SHA-256 of a raw token.  Refresh and
// password-reset tokens are stored this way.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// SignCookieValue appends an HMAC-SHA256 tag of raw: "<raw>.<tag>".
func SignCookieValue(secret, raw string) string {
	return raw + "." + cookieMAC(secret, raw)
}

// OpenCookieValue checks the tag added by SignCookieValue and returns raw.
func OpenCookieValue(secret, value string) (string, error) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", ErrInvalidToken
	}
	raw, tag := value[:i], value[i+1:]
	if !hmac.Equal([]byte(tag), []byte(cookieMAC(secret, raw))) {
		return "", ErrInvalidToken
	}
	return raw, nil
}

func cookieMAC(secret, raw string) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(raw))
	return hex.EncodeToString(m.Sum(nil))
}

// randomHex returns n bytes of secure random data, hex-encoded.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
