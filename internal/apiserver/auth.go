package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthKey is a key in a request's context populated by AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthClient
)

// APIKeyStore holds bcrypt-hashed API keys, keyed by an opaque client id
// (SPEC_FULL §4.11: "API keys are bcrypt-hashed at rest").
type APIKeyStore struct {
	hashes map[string][]byte
}

// NewAPIKeyStore builds an empty store; keys are registered with Register.
func NewAPIKeyStore() *APIKeyStore {
	return &APIKeyStore{hashes: map[string][]byte{}}
}

// Register hashes and stores a new API key for clientID, replacing any
// existing key for that client.
func (s *APIKeyStore) Register(clientID, apiKey string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("apiserver: hashing API key: %w", err)
	}
	s.hashes[clientID] = hash
	return nil
}

// Verify reports whether apiKey matches the stored hash for clientID.
func (s *APIKeyStore) Verify(clientID, apiKey string) bool {
	hash, ok := s.hashes[clientID]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(apiKey)) == nil
}

// generateJWT issues a short-lived bearer token for clientID, mirroring
// server/token.go's generateJWT (HS512, issuer "tqs" in the teacher;
// "greina" here).
func generateJWT(secret []byte, clientID string) (string, error) {
	claims := jwt.MapClaims{
		"iss": "greina",
		"sub": clientID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(strings.TrimSpace(parts[0])) != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

func validateJWT(secret []byte, tok string) (string, error) {
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("greina"), jwt.WithLeeway(time.Minute))
	if err != nil {
		return "", err
	}

	clientID, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("cannot get subject: %w", err)
	}
	return clientID, nil
}

// AuthHandler is middleware extracting and validating the bearer token,
// mirroring server/middle.AuthHandler's optional/required split.
type AuthHandler struct {
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var clientID string

	tok, err := getBearerToken(req)
	if err != nil {
		if ah.required {
			r := Unauthorized("", err.Error())
			time.Sleep(ah.unauthedDelay)
			r.WriteResponse(w)
			return
		}
	} else {
		clientID, err = validateJWT(ah.secret, tok)
		if err != nil {
			if ah.required {
				r := Unauthorized("", err.Error())
				time.Sleep(ah.unauthedDelay)
				r.WriteResponse(w)
				return
			}
		} else {
			loggedIn = true
		}
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthClient, clientID)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(secret []byte, unauthedDelay time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{secret: secret, unauthedDelay: unauthedDelay, required: true, next: next}
	}
}

// OptionalAuth populates AuthLoggedIn/AuthClient when a valid token is
// present but does not reject the request otherwise.
func OptionalAuth(secret []byte, unauthedDelay time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{secret: secret, unauthedDelay: unauthedDelay, required: false, next: next}
	}
}
