package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resource-board/internal/transport/http/response"
)

const ContextUserIDKey = "user_id"

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthJWT rejects the request with 401 unless it carries a valid bearer
// token, and stores the token's user id on the context. It never looks at
// what the caller is trying to do.
func AuthJWT(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "No token, authorization denied")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid authorization scheme")
			return
		}

		userID, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Token is not valid")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// UserID returns the id AuthJWT stored, if any.
func UserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserIDKey)
	return userID, userID != ""
}
