package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/pkg/jwt"
)

// Locals keys que deja el middleware de auth en Fiber.
const (
	LocalUserID      = "user_id"
	LocalRole        = "role"
	LocalEmail       = "email"
	LocalAccessToken = "access_token"
)

// ProfileLookup resuelve el perfil (y su rol) del subject del token. Lo implementa repository.UserRepository.
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token (HS256, mismo secreto que el BaaS), carga el perfil
// y deja UserID, rol y email en c.Locals. El rol siempre sale del perfil, nunca del token.
func AuthMiddleware(jwtSecret string, profiles ProfileLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fail(c, fiber.StatusUnauthorized, CodeAuthRequired, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fail(c, fiber.StatusUnauthorized, CodeInvalidToken, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return fail(c, fiber.StatusUnauthorized, CodeAuthRequired, "token vacío")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || claims.IsRefresh() {
			return fail(c, fiber.StatusUnauthorized, CodeInvalidToken, "token inválido o expirado")
		}

		profile, err := profiles.GetByID(c.Context(), claims.UserID())
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, CodeInternal, "no se pudo cargar el perfil")
		}
		if profile == nil || profile.Role == "" {
			return fail(c, fiber.StatusForbidden, CodePermissionDenied, "usuario sin perfil o sin rol")
		}
		if !profile.IsActive {
			return fail(c, fiber.StatusForbidden, CodePermissionDenied, "usuario inactivo")
		}

		c.Locals(LocalUserID, profile.ID)
		c.Locals(LocalRole, profile.Role)
		c.Locals(LocalEmail, profile.Email)
		c.Locals(LocalAccessToken, tokenString)
		return c.Next()
	}
}

// RequireRole deja pasar solo si el rol del perfil está en la lista. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return fail(c, fiber.StatusUnauthorized, CodeAuthRequired, "autenticación requerida")
		}
		if _, ok := allowed[strings.ToUpper(role)]; !ok {
			return fail(c, fiber.StatusForbidden, CodePermissionDenied, "el rol "+role+" no tiene permiso")
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetRole devuelve el rol del perfil autenticado.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

func getAccessToken(c *fiber.Ctx) string { return localString(c, LocalAccessToken) }

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
