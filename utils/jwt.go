package utils

import (
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// La llave para verificar los tokens que emite el servicio de identidad.
// Este servicio NO emite tokens: solo los valida para saber qué usuario
// y qué rol están detrás de cada request.
var jwtSecret = []byte(getJWTSecret())

// Roles que asigna el servicio de identidad
const (
	RoleGuest = "guest"
	RoleHost  = "host"
	RoleAdmin = "admin"
)

// Claims es la estructura de los datos que vienen EN el token
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// getJWTSecret obtiene el secret desde variables de entorno
// Si no existe, usa uno por defecto (solo para desarrollo)
func getJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-change-in-production"
	}
	return secret
}

// ValidateToken valida un JWT token y retorna los claims
// Se usa en el middleware para saber quién hizo la request
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	// Parseamos el token y verificamos la firma
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
