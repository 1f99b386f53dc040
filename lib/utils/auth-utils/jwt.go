package authutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"hr-portal-backend/config"
)

func GetToken(email, name string, isAdmin bool) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"sub":   email,
		"name":  name,
		"admin": isAdmin,
		"exp":   time.Now().Add(time.Hour * time.Duration(config.Conf.Auth.TokenTTLHours)).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecretKey))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	return token.Claims.(jwt.MapClaims)
}

// GetUserEmail returns the authenticated email or "" for anonymous requests.
func GetUserEmail(ctx *fiber.Ctx) string {
	claims := GetClaims(ctx)
	email, _ := claims["sub"].(string)
	return email
}

// IsAdmin reports whether the token carries the admin claim. The claim is
// issued from the admin allow-list at login time.
func IsAdmin(ctx *fiber.Ctx) bool {
	claims := GetClaims(ctx)
	isAdmin, _ := claims["admin"].(bool)
	return isAdmin
}
