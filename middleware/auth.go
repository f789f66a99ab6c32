package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/utils"
	"go.uber.org/zap"
)

// Locals keys set by Protected.
const (
	LocalUserID    = "userID"
	LocalRole      = "role"
	LocalTokenID   = "tokenID"
	LocalExpiresAt = "tokenExpiresAt"
)

// RevocationChecker reports whether a token id was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Protected validates the bearer token and stores the caller's id and role
// in locals. Refresh tokens and revoked tokens are rejected.
func Protected(secret string, revoked RevocationChecker, log *zap.Logger) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Debug("jwt rejected", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c, "Invalid or expired token")
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "Invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "Invalid token claims")
			}
			if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
				return unauthorized(c, "Access token required")
			}

			userID, err := extractUserID(claims)
			if err != nil {
				return unauthorized(c, "Invalid user ID in token")
			}
			role, err := extractRole(claims)
			if err != nil {
				return unauthorized(c, "Invalid role in token")
			}

			jti, _ := claims["jti"].(string)
			if jti != "" && revoked != nil {
				isRevoked, err := revoked.IsRevoked(c.UserContext(), jti)
				if err != nil {
					log.Error("revocation lookup failed", zap.Error(err))
					return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{Message: "Internal server error"})
				}
				if isRevoked {
					return unauthorized(c, "Token has been revoked")
				}
			}

			c.Locals(LocalUserID, userID)
			c.Locals(LocalRole, role)
			c.Locals(LocalTokenID, jti)
			if exp, ok := claims["exp"].(float64); ok {
				c.Locals(LocalExpiresAt, time.Unix(int64(exp), 0))
			}
			return c.Next()
		},
	})
}

// extractUserID handles the numeric and string forms of the id claim.
func extractUserID(claims jwt.MapClaims) (uint, error) {
	switch v := claims["id"].(type) {
	case float64:
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %w", err)
		}
		return uint(parsed), nil
	case nil:
		return 0, fmt.Errorf("no ID found in claims")
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

func extractRole(claims jwt.MapClaims) (models.Role, error) {
	raw, ok := claims["role"].(string)
	if !ok {
		return "", fmt.Errorf("no role found in claims")
	}
	role, ok := models.ParseRole(raw)
	if !ok {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// UserID returns the authenticated caller's id.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

// Role returns the authenticated caller's role.
func Role(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(LocalRole).(models.Role)
	return role
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{Message: msg, Error: "Unauthorized"})
}
