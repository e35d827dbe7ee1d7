package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de negocio comunes a todo el sistema
var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponInvalid       = errors.New("coupon not valid or expired")
	ErrInvalidTransition   = errors.New("invalid reservation state transition")

	// ErrTxConflict lo devuelve la capa de storage cuando una transacción
	// serializable pierde contra otra (deadlock / lock timeout). Es el único
	// error que la admisión reintenta.
	ErrTxConflict = errors.New("transaction serialization conflict")

	// ErrBusy se devuelve cuando se agotaron los reintentos de la admisión
	ErrBusy = errors.New("storage busy, admission retries exhausted")
)

// AdmissionCode identifica la regla que rechazó una admisión
type AdmissionCode string

const (
	AdmissionInvalidRequest   AdmissionCode = "invalid_request"
	AdmissionCapacityExceeded AdmissionCode = "capacity_exceeded"
	AdmissionRoomUnavailable  AdmissionCode = "room_unavailable"
	AdmissionDateConflict     AdmissionCode = "date_conflict"
)

// AdmissionError es el rechazo estructurado de una admisión de reserva.
// Lleva la regla que falló y el contexto (habitación y rango pedido) para
// que la capa HTTP pueda armar el mensaje sin recalcular nada.
type AdmissionError struct {
	Code    AdmissionCode
	RoomID  uint
	From    time.Time
	To      time.Time
	Message string
}

func (e *AdmissionError) Error() string {
	if e.RoomID == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (room %d, %s to %s)",
		e.Code, e.Message, e.RoomID,
		e.From.Format("2006-01-02"), e.To.Format("2006-01-02"))
}

// NewAdmissionError crea un rechazo de admisión con contexto
func NewAdmissionError(code AdmissionCode, roomID uint, from, to time.Time, msg string) *AdmissionError {
	return &AdmissionError{
		Code:    code,
		RoomID:  roomID,
		From:    from,
		To:      to,
		Message: msg,
	}
}

// IsAdmissionError extrae el AdmissionError de un error, o nil si no lo es
func IsAdmissionError(err error) *AdmissionError {
	if err == nil {
		return nil
	}

	var admissionErr *AdmissionError
	if errors.As(err, &admissionErr) {
		return admissionErr
	}

	return nil
}
