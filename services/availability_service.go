package services

import (
	"fmt"
	"time"

	"reservas-api/domain"
	"reservas-api/repositories"

	"github.com/shopspring/decimal"
)

// AvailabilityService es la cara de lectura del calendario de
// disponibilidad. Sus respuestas son HINTS cacheados para que el frontend
// pinte el calendario rápido: nunca son la puerta de entrada de una
// admisión, porque pueden estar viejas respecto de transacciones en vuelo.
type AvailabilityService interface {
	IsAvailable(roomID uint, from, to time.Time) (bool, error)
	PricesForRange(roomID uint, from, to time.Time) (map[string]decimal.Decimal, error)
}

type availabilityService struct {
	availability repositories.AvailabilityRepository
	rooms        repositories.RoomRepository
	cache        repositories.HintCacheRepository
}

// NewAvailabilityService crea una nueva instancia del servicio
func NewAvailabilityService(
	availability repositories.AvailabilityRepository,
	rooms repositories.RoomRepository,
	cache repositories.HintCacheRepository,
) AvailabilityService {
	return &availabilityService{
		availability: availability,
		rooms:        rooms,
		cache:        cache,
	}
}

func hintKey(kind string, roomID uint, from, to time.Time) string {
	return fmt.Sprintf("%s:%d:%s:%s", kind, roomID,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// IsAvailable responde si el rango [from, to] no tiene días bloqueados ni
// en mantenimiento. Primero intenta el caché de dos niveles.
func (s *availabilityService) IsAvailable(roomID uint, from, to time.Time) (bool, error) {
	key := hintKey("avail", roomID, from, to)

	if hint, ok := s.cache.Get(key); ok {
		return hint.Available, nil
	}

	blocked, err := s.availability.FindRangeWithState(roomID, from, to, domain.DayBlocked)
	if err != nil {
		return false, err
	}

	available := len(blocked) == 0
	if available {
		maintenance, err := s.availability.FindRangeWithState(roomID, from, to, domain.DayMaintenance)
		if err != nil {
			return false, err
		}
		available = len(maintenance) == 0
	}

	s.cache.Set(key, &repositories.AvailabilityHint{Available: available}, time.Minute)

	return available, nil
}

// PricesForRange devuelve el precio de cada día del rango [from, to]:
// el precio especial del día si la fila del calendario lo tiene, si no
// el precio base de la habitación.
func (s *availabilityService) PricesForRange(roomID uint, from, to time.Time) (map[string]decimal.Decimal, error) {
	key := hintKey("prices", roomID, from, to)

	if hint, ok := s.cache.Get(key); ok && hint.Prices != nil {
		return hint.Prices, nil
	}

	room, err := s.rooms.GetByID(roomID)
	if err != nil {
		return nil, err
	}

	days, err := s.availability.FindRange(roomID, from, to)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]*domain.AvailabilityDay, len(days))
	for i := range days {
		overrides[days[i].Date.Format("2006-01-02")] = &days[i]
	}

	prices := make(map[string]decimal.Decimal)
	for d := domain.DateOf(from); !d.After(domain.DateOf(to)); d = d.AddDate(0, 0, 1) {
		iso := d.Format("2006-01-02")

		price := room.BasePrice
		if day, ok := overrides[iso]; ok && day.DayPrice != nil {
			price = *day.DayPrice
		}

		prices[iso] = price
	}

	s.cache.Set(key, &repositories.AvailabilityHint{Available: true, Prices: prices}, time.Minute)

	return prices, nil
}

// BlockDays marca como bloqueado cada día de [from, to) en el calendario.
// Upsert día por día, idempotente. Corre adentro de la transacción de
// admisión, por eso recibe el repositorio atado a la transacción.
func BlockDays(repo repositories.AvailabilityRepository, roomID uint, from, to time.Time) error {
	for d := domain.DateOf(from); d.Before(domain.DateOf(to)); d = d.AddDate(0, 0, 1) {
		if err := repo.SetDayState(roomID, d, domain.DayBlocked); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseDays libera cada día de [from, to) bloqueado por una reserva.
// Los días en mantenimiento no se tocan: esos los administra el catálogo.
func ReleaseDays(repo repositories.AvailabilityRepository, roomID uint, from, to time.Time) error {
	for d := domain.DateOf(from); d.Before(domain.DateOf(to)); d = d.AddDate(0, 0, 1) {
		day, err := repo.GetDay(roomID, d)
		if err != nil {
			return err
		}
		if day == nil || day.State != domain.DayBlocked {
			continue
		}
		if err := repo.SetDayState(roomID, d, domain.DayFree); err != nil {
			return err
		}
	}
	return nil
}

// HasMaintenanceDay indica si algún día de [from, to) está en
// mantenimiento: en ese caso la habitación no se puede reservar.
func HasMaintenanceDay(repo repositories.AvailabilityRepository, roomID uint, from, to time.Time) (bool, error) {
	days, err := repo.FindRangeWithState(roomID, from, to.AddDate(0, 0, -1), domain.DayMaintenance)
	if err != nil {
		return false, err
	}
	return len(days) > 0, nil
}
