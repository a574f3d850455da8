package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kingrain94/tenant-user-sync/internal/config"
	"github.com/kingrain94/tenant-user-sync/internal/domain"
	"github.com/kingrain94/tenant-user-sync/internal/utils"
)

// AuthMiddleware verifies the HS256 tokens presented by event publishers
// pushing to the event-delivery endpoints.
type AuthMiddleware struct {
	config *config.Config
}

func NewAuthMiddleware(config *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		config: config,
	}
}

// Enabled reports whether a signing secret is configured. Without one the
// event-delivery endpoints are left open.
func (m *AuthMiddleware) Enabled() bool {
	return m.config.EventAuthSecret != ""
}

func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(bearerToken[1], &claims, func(token *jwt.Token) (any, error) {
			return []byte(m.config.EventAuthSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(string(utils.SubjectKey), claims["sub"])
		c.Set(string(utils.ClaimsKey), claims)
		c.Next()
	}
}

// RequireRole lets the request through if the token carries any of roles.
func (m *AuthMiddleware) RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := c.Get(string(utils.ClaimsKey))
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authentication found"})
			return
		}

		claimsMap, ok := claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Invalid claims type"})
			return
		}

		if !domain.HasAnyRole(utils.RolesFromClaims(claimsMap), roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

// GenerateToken signs a token for subject with the configured expiration.
func (m *AuthMiddleware) GenerateToken(subject string, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"roles": roles,
		"exp":   now.Add(time.Duration(m.config.JWTExpirationHours) * time.Hour).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.EventAuthSecret))
}
