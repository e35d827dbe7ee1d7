package domain

import (
	"fmt"
	"time"
)

// IntervalKind distingue los dos tipos de reserva que soportamos
type IntervalKind string

const (
	IntervalNightly IntervalKind = "nightly" // Reserva por noches (check-in / check-out)
	IntervalDayUse  IntervalKind = "day_use" // Reserva por horas dentro de un mismo día
)

// Límites de duración para reservas por horas (day use)
const (
	MinDayUseHours = 3
	MaxDayUseHours = 12
)

// BookingInterval representa el rango de tiempo que ocupa una reserva.
// Es un valor inmutable: los invariantes de forma se validan únicamente
// en los constructores NewNightly / NewDayUse, después de eso el valor
// siempre es coherente.
type BookingInterval struct {
	kind     IntervalKind
	checkin  time.Time // fecha (medianoche UTC)
	checkout time.Time // fecha (medianoche UTC); igual a checkin para day use
	start    time.Time // solo day use: hora de inicio sobre la fecha
	end      time.Time // solo day use: hora de fin sobre la fecha
}

// DateOf normaliza un instante a su fecha (medianoche UTC).
// Todas las comparaciones de fechas del dominio pasan por acá.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewNightly construye un intervalo por noches.
// Invariante: checkout estrictamente posterior a checkin.
func NewNightly(checkin, checkout time.Time) (BookingInterval, error) {
	ci := DateOf(checkin)
	co := DateOf(checkout)

	if !co.After(ci) {
		return BookingInterval{}, fmt.Errorf("checkout date must be after checkin date")
	}

	return BookingInterval{
		kind:     IntervalNightly,
		checkin:  ci,
		checkout: co,
	}, nil
}

// NewDayUse construye un intervalo por horas dentro de un mismo día.
// Invariantes: fin posterior al inicio, y duración entre 3 y 12 horas
// (contando horas completas, igual que el sistema original).
func NewDayUse(date time.Time, start, end time.Time) (BookingInterval, error) {
	day := DateOf(date)
	s := time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC)
	e := time.Date(day.Year(), day.Month(), day.Day(), end.Hour(), end.Minute(), 0, 0, time.UTC)

	if !e.After(s) {
		return BookingInterval{}, fmt.Errorf("checkout time must be after checkin time")
	}

	// Se cuentan solo horas completas: 2h59m son 2 horas
	hours := int(e.Sub(s).Hours())
	if hours < MinDayUseHours || hours > MaxDayUseHours {
		return BookingInterval{}, fmt.Errorf("day use bookings must be between %d and %d hours", MinDayUseHours, MaxDayUseHours)
	}

	return BookingInterval{
		kind:     IntervalDayUse,
		checkin:  day,
		checkout: day,
		start:    s,
		end:      e,
	}, nil
}

// Kind devuelve el tipo de intervalo
func (i BookingInterval) Kind() IntervalKind {
	return i.kind
}

// IsDayUse indica si es una reserva por horas
func (i BookingInterval) IsDayUse() bool {
	return i.kind == IntervalDayUse
}

// Checkin devuelve la fecha de entrada
func (i BookingInterval) Checkin() time.Time {
	return i.checkin
}

// Checkout devuelve la fecha de salida.
// Para day use es la misma fecha de entrada.
func (i BookingInterval) Checkout() time.Time {
	return i.checkout
}

// StartTime devuelve la hora de inicio (solo day use)
func (i BookingInterval) StartTime() time.Time {
	return i.start
}

// EndTime devuelve la hora de fin (solo day use)
func (i BookingInterval) EndTime() time.Time {
	return i.end
}

// Nights calcula la cantidad de noches. Para day use es 0.
func (i BookingInterval) Nights() int {
	if i.kind == IntervalDayUse {
		return 0
	}
	return int(i.checkout.Sub(i.checkin).Hours() / 24)
}

// Hours calcula la cantidad de horas completas. Para noches es 0.
func (i BookingInterval) Hours() int {
	if i.kind != IntervalDayUse {
		return 0
	}
	return int(i.end.Sub(i.start).Hours())
}

// OccupiedDays devuelve las fechas que el intervalo ocupa en el calendario.
// Para noches es [checkin, checkout): el día de salida queda libre.
// Para day use es el único día de la reserva.
func (i BookingInterval) OccupiedDays() []time.Time {
	if i.kind == IntervalDayUse {
		return []time.Time{i.checkin}
	}

	var days []time.Time
	for d := i.checkin; d.Before(i.checkout); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// containsDate indica si un intervalo por noches ocupa la fecha dada.
// El rango es semiabierto: el día de checkout no cuenta.
func (i BookingInterval) containsDate(date time.Time) bool {
	return !date.Before(i.checkin) && date.Before(i.checkout)
}

// Overlaps es el predicado de solapamiento entre dos intervalos de la
// misma habitación. El match es exhaustivo sobre los tipos:
//   - noches vs noches:   A.checkin < B.checkout && A.checkout > B.checkin
//   - horas vs horas:     mismo día && A.start < B.end && A.end > B.start
//   - mixto:              el day use ocupa su fecha; conflicto si el rango
//     [checkin, checkout) del otro la contiene
func (i BookingInterval) Overlaps(other BookingInterval) bool {
	switch {
	case i.kind == IntervalNightly && other.kind == IntervalNightly:
		return i.checkin.Before(other.checkout) && i.checkout.After(other.checkin)

	case i.kind == IntervalDayUse && other.kind == IntervalDayUse:
		if !i.checkin.Equal(other.checkin) {
			return false
		}
		return i.start.Before(other.end) && i.end.After(other.start)

	case i.kind == IntervalNightly && other.kind == IntervalDayUse:
		return i.containsDate(other.checkin)

	default: // day use vs noches
		return other.containsDate(i.checkin)
	}
}

// EndedBy indica si el intervalo ya terminó al instante dado.
// Se usa para habilitar la transición a "completed".
func (i BookingInterval) EndedBy(now time.Time) bool {
	if i.kind == IntervalDayUse {
		return !now.Before(i.end)
	}
	return !DateOf(now).Before(i.checkout)
}
