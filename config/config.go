package config

import (
	"os"
	"strconv"
	"time"
)

// Config contiene la configuración de la aplicación
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	MemcachedHost string
	RabbitMQURL   string
	Port          string

	// PendingHold es cuánto tiempo puede quedar una reserva en "pending"
	// esperando el pago antes de que el barrido la cancele solo
	PendingHold time.Duration
}

// LoadConfig carga la configuración desde variables de entorno con valores por defecto
func LoadConfig() *Config {
	cfg := &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "reservas_user"),
		DBPassword:    getEnv("DB_PASSWORD", "reservas_password"),
		DBName:        getEnv("DB_NAME", "reservas_db"),
		MemcachedHost: getEnv("MEMCACHED_HOST", "localhost:11211"),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		Port:          getEnv("SERVER_PORT", "8080"),
		PendingHold:   time.Duration(getEnvInt("PENDING_HOLD_MINUTES", 30)) * time.Minute,
	}
	return cfg
}

// getEnv obtiene una variable de entorno o retorna un valor por defecto
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt obtiene una variable de entorno numérica o el valor por defecto
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
