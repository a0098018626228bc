package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"channel_feed_backend/config"
	"channel_feed_backend/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenTTL is how long an issued bearer token stays valid.
	TokenTTL = 7 * 24 * time.Hour

	OpenHeader  = "X-User-Id"
	BasicHeader = "X-Auth-Token"
	TokenHeader = "Authorization"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier decides whether a request's headers carry a valid credential.
// Verify never panics and never has side effects.
type Verifier interface {
	Mode() string
	HeaderName() string
	Verify(headers http.Header) bool
}

// Issuer is implemented by verifiers that can mint credentials via login.
type Issuer interface {
	Issue(username, password string) (string, error)
}

// NewVerifier builds the verifier selected by cfg.AuthMode.
func NewVerifier(cfg *config.Config) (Verifier, error) {
	admin := AdminCredentials{
		Username:     cfg.AdminUsername,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}
	switch cfg.AuthMode {
	case config.AuthModeOpen:
		return OpenVerifier{}, nil
	case config.AuthModeBasic:
		return NewBasicVerifier(admin), nil
	case config.AuthModeToken:
		return NewTokenService(admin, []byte(cfg.JWTSecret)), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

// AdminCredentials are the single configured admin identity. When
// PasswordHash is set it takes precedence over Password.
type AdminCredentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Match reports whether the pair equals the configured admin identity.
func (a AdminCredentials) Match(username, password string) bool {
	if a.Username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	var passOK bool
	if a.PasswordHash != "" {
		passOK = VerifyPassword(a.PasswordHash, password)
	} else {
		passOK = a.Password != "" && subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	}
	return userOK && passOK
}

// OpenVerifier authorizes every request.
type OpenVerifier struct{}

func (OpenVerifier) Mode() string              { return config.AuthModeOpen }
func (OpenVerifier) HeaderName() string        { return OpenHeader }
func (OpenVerifier) Verify(_ http.Header) bool { return true }

// BasicVerifier checks "Basic base64(user:pass)" in the X-Auth-Token header.
type BasicVerifier struct {
	admin AdminCredentials
}

func NewBasicVerifier(admin AdminCredentials) *BasicVerifier {
	return &BasicVerifier{admin: admin}
}

func (v *BasicVerifier) Mode() string       { return config.AuthModeBasic }
func (v *BasicVerifier) HeaderName() string { return BasicHeader }

func (v *BasicVerifier) Verify(headers http.Header) bool {
	username, password, ok := ParseBasic(headers.Get(BasicHeader))
	if !ok {
		return false
	}
	return v.admin.Match(username, password)
}

// ParseBasic splits a "Basic <base64(user:pass)>" header value. The scheme is
// matched case-insensitively.
func ParseBasic(value string) (username, password string, ok bool) {
	scheme, encoded, found := strings.Cut(strings.TrimSpace(value), " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}
	username, password, found = strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return username, password, true
}

// TokenService issues and validates HS256 bearer tokens for the admin.
type TokenService struct {
	admin     AdminCredentials
	JWTSecret []byte
	now       func() time.Time
}

func NewTokenService(admin AdminCredentials, jwtSecret []byte) *TokenService {
	return &TokenService{
		admin:     admin,
		JWTSecret: jwtSecret,
		now:       time.Now,
	}
}

func (s *TokenService) Mode() string       { return config.AuthModeToken }
func (s *TokenService) HeaderName() string { return TokenHeader }

// Issue returns a signed token for the admin, valid for TokenTTL.
func (s *TokenService) Issue(username, password string) (string, error) {
	if !s.admin.Match(username, password) {
		return "", ErrInvalidCredentials
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, algorithm and expiry and returns the claims.
func (s *TokenService) Parse(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.JWTSecret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *TokenService) Verify(headers http.Header) bool {
	parts := strings.Split(headers.Get(TokenHeader), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return false
	}
	if _, err := s.Parse(parts[1]); err != nil {
		log.Printf("Token validation error: %v", err)
		return false
	}
	return true
}

// VerifyPassword checks if a password matches the hashed version
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// HashPassword creates a bcrypt hash of a password
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
