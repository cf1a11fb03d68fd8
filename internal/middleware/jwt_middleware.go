package middleware

import (
	"fmt"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
)

// OwnerIDKey is the locals key under which the authenticated owner id is
// stored for downstream handlers.
const OwnerIDKey = "owner_id"

// AuthRequired is a Fiber middleware that validates the bearer token and
// extracts the owner id from its user_id claim. Token issuance lives outside
// this service; the token is only consumed as the current owner identifier.
func AuthRequired(jwtSecret string) fiber.Handler {
	secret := []byte(jwtSecret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token claims",
			})
		}
		ownerID, _ := claims["user_id"].(string)
		if ownerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token is missing the user_id claim",
			})
		}

		c.Locals(OwnerIDKey, ownerID)
		return c.Next()
	}
}

// OwnerID returns the owner id stored by AuthRequired, or "".
func OwnerID(c *fiber.Ctx) string {
	ownerID, _ := c.Locals(OwnerIDKey).(string)
	return ownerID
}
