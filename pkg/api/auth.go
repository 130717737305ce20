package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	log "github.com/sirupsen/logrus"
)

// GenerateToken signs a bearer token for the API with the shared secret
func GenerateToken(secret, issuer, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("cannot sign a token without a secret")
	}

	now := time.Now()
	claims := jwt.StandardClaims{
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
		Issuer:    issuer,
		Subject:   subject,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// verifyToken checks signature, expiry and issuer of a bearer token and returns its claims
func verifyToken(secret, issuer, raw string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method '%v'", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !claims.VerifyIssuer(issuer, true) {
		return nil, fmt.Errorf("unexpected issuer '%s'", claims.Issuer)
	}
	return claims, nil
}

// requireToken rejects requests without a valid bearer token. With an empty
// secret authentication is disabled and next is returned unchanged.
func requireToken(secret, issuer string, next http.Handler) http.Handler {
	if secret == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if header == "" || raw == header {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := verifyToken(secret, issuer, raw)
		if err != nil {
			log.Debugf("Rejected token for %s: %v", r.URL.Path, err)
			writeError(w, http.StatusUnauthorized, "invalid bearer token")
			return
		}

		log.Debugf("Authenticated request to %s as '%s'", r.URL.Path, claims.Subject)
		next.ServeHTTP(w, r)
	})
}
