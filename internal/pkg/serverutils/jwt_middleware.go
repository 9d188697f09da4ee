package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	LocalUserID   = "user_id"
	LocalUserName = "username"
	LocalEmail    = "email"
)

// JwtMiddleware checks the bearer token signed by the host application and
// exposes the user claims as locals.
func JwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		tokenStr := ""
		if len(authHeader) >= 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		} else if ctx.Query("token") != "" {
			// Browsers cannot set headers on websocket upgrades.
			tokenStr = ctx.Query("token")
		}
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Missing token"))
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Invalid token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Invalid claims"))
		}
		userID, _ := claims["user_id"].(string)
		if userID == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Invalid claims"))
		}
		userName, _ := claims["username"].(string)
		email, _ := claims["email"].(string)

		ctx.Locals(LocalUserID, userID)
		ctx.Locals(LocalUserName, userName)
		ctx.Locals(LocalEmail, email)
		return ctx.Next()
	}
}
