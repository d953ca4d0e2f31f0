package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingHeader = errors.New("authorization header required")
	errBadScheme     = errors.New("authorization header format must be Bearer {token}")
	errNoSubject     = errors.New("token has no subject")
)

// AuthMiddleware verifies HS256 bearer tokens. The token subject becomes the
// acting user id recorded on documents and journal entries.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			logger.Warn("Rejected request without bearer token", slog.String("error", err.Error()))
			abortUnauthorized(c, err.Error())
			return
		}

		userID, err := subjectFromToken(parser, tokenString, keyFunc)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			abortUnauthorized(c, tokenErrorMessage(err))
			return
		}

		ctx := WithLogger(WithUserID(c.Request.Context(), userID), logger.With(slog.String("user_id", userID)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return "", errBadScheme
	}
	return token, nil
}

func subjectFromToken(parser *jwt.Parser, tokenString string, keyFunc jwt.Keyfunc) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, keyFunc); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errNoSubject
	}
	return claims.Subject, nil
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "token not valid yet"
	case errors.Is(err, errNoSubject):
		return "invalid token claims"
	}
	return "invalid token"
}

// abortUnauthorized writes the same error envelope the API handlers use.
func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"errors": []gin.H{{"type": "unauthorized", "code": 0, "message": message}},
	})
}
