package middleware

import (
	"strings"

	"jibal-shipping/apperror"
	"jibal-shipping/config"
	"jibal-shipping/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware checks the bearer token when auth is enabled and stores the caller's
// user_id claim under the "userID" local. With auth disabled every request passes.
func AuthMiddleware(ctx *fiber.Ctx) error {
	if !config.AuthEnabled {
		return ctx.Next()
	}

	// Ambil token dari "Bearer <token>"
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		return apperror.NewUnauthorized("Missing Authorization header")
	}
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return apperror.NewUnauthorized("Invalid Authorization header format")
	}

	token, err := jwt.Parse(tokenParts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: Invalid signing method")
		}
		return []byte(config.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		logger.Debugw("token rejected", "error", err)
		return apperror.NewUnauthorized("Unauthorized: Invalid token").WithCause(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return apperror.NewUnauthorized("Unauthorized: Invalid token")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return apperror.NewUnauthorized("Unauthorized: Invalid user ID")
	}

	ctx.Locals("userID", int(userID))
	ctx.Locals("userData", claims)
	return ctx.Next()
}

// UserID returns the authenticated caller, or 0 for anonymous requests.
func UserID(ctx *fiber.Ctx) int {
	if id, ok := ctx.Locals("userID").(int); ok {
		return id
	}
	return 0
}
