package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var parseClaimsFn = jwt.ParseWithClaims

// JWTMiddleware guards a route group. Tokens carry the user's id as the
// "id" claim; the authenticated id is exposed as the "user_id" local that
// the post, reaction, user and image handlers read.
func JWTMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "bearer token required")
		}

		parsed, err := parseClaimsFn(raw, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "token invalid or expired")
		}
		claims, ok := parsed.Claims.(*Claims)
		if !ok || !parsed.Valid || claims.UserID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token invalid or expired")
		}

		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
