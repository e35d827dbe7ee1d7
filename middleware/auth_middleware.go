package middleware

import (
	"net/http"
	"strings"

	"reservas-api/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware valida el JWT token en cada request
// Si el token es válido, permite continuar
// Si no, devuelve error 401 (Unauthorized)
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Obtener el header "Authorization"
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "authorization header required",
			})
			c.Abort() // Detiene la ejecución
			return
		}

		// Formato esperado: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization header format",
			})
			c.Abort()
			return
		}

		// Extraer y validar el token
		tokenString := parts[1]

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			c.Abort()
			return
		}

		// Guardar la info del usuario en el contexto
		// Así los endpoints pueden saber quién hizo la request
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next() // Continúa con el endpoint
	}
}

// HostOrAdminMiddleware valida que el usuario sea host o admin.
// Se usa DESPUÉS de AuthMiddleware, para las transiciones que maneja
// el hotel (confirmar, completar, marcar no show).
func HostOrAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "role not found",
			})
			c.Abort()
			return
		}

		if role != utils.RoleHost && role != utils.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "host or admin privileges required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
