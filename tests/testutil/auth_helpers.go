package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/garment-crm/middleware"
)

// TestIssuer is the issuer stamped on mock claims
const TestIssuer = "https://test.auth0.com/"

// StaffScopes can read and edit orders
var StaffScopes = []string{middleware.ScopeReadOrders, middleware.ScopeWriteOrders}

// ViewerScopes can only read orders
var ViewerScopes = []string{middleware.ScopeReadOrders}

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, userID string, issuer string, scopes []string) {
	claims := MockValidatedClaims(userID, issuer, scopes)
	c.Set("user_id", userID)
	c.Set("validated_claims", claims)
}

// MockAuthMiddleware authenticates every request as userID with the given scopes
func MockAuthMiddleware(userID string, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, TestIssuer, scopes)
		c.Next()
	}
}
