package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/membership-service/internal/types"
)

// Claims are the token claims this service relies on.
type Claims struct {
	UserID        string
	Email         string
	WalletAddress string
}

// TokenVerifier validates provider-issued access tokens locally.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for HS256 tokens signed with secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses and validates an access token and extracts its claims.
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, types.NewServiceError(types.CodeNotAuthenticated, "invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, types.NewServiceError(types.CodeNotAuthenticated, "invalid token claims")
	}

	userID, ok := mapClaims["sub"].(string)
	if !ok || userID == "" {
		return nil, types.NewServiceError(types.CodeNotAuthenticated, "token has no subject")
	}

	claims := &Claims{UserID: userID}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if wallet, ok := mapClaims["wallet_address"].(string); ok {
		claims.WalletAddress = wallet
	}

	return claims, nil
}

// IssueToken mints an access token the way the hosted provider does.
// Used by tests and local tooling.
func IssueToken(secret, userID, email string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
