package utils

import (
	"strings"

	"github.com/google/uuid"
)

// Prefijo de los códigos de reserva que ve el huésped
const reservationCodePrefix = "RES"

// GenerateReservationCode genera un código único legible para una reserva.
// Formato: RES-XXXXXXXX (8 caracteres de un UUID, en mayúsculas).
func GenerateReservationCode() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return reservationCodePrefix + "-" + strings.ToUpper(id[:8])
}
