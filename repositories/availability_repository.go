package repositories

import (
	"errors"
	"time"

	"reservas-api/domain"

	"gorm.io/gorm"
)

// AvailabilityRepository define las operaciones sobre el calendario de
// disponibilidad (una fila por habitación y fecha, creada de forma lazy)
type AvailabilityRepository interface {
	GetDay(roomID uint, date time.Time) (*domain.AvailabilityDay, error)
	FindRange(roomID uint, from, to time.Time) ([]domain.AvailabilityDay, error)
	FindRangeWithState(roomID uint, from, to time.Time, state string) ([]domain.AvailabilityDay, error)

	// SetDayState crea o actualiza la fila del día con el estado dado.
	// Es idempotente: repetir la misma marca no cambia nada.
	SetDayState(roomID uint, date time.Time, state string) error
}

type availabilityRepository struct {
	db *gorm.DB
}

// NewAvailabilityRepository crea una nueva instancia del repositorio
func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

// GetDay busca la fila de un día puntual. Si no existe devuelve nil sin
// error: un día sin fila es un día libre con precio base.
func (r *availabilityRepository) GetDay(roomID uint, date time.Time) (*domain.AvailabilityDay, error) {
	var day domain.AvailabilityDay
	err := r.db.
		Where("room_id = ? AND date = ?", roomID, domain.DateOf(date)).
		First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &day, nil
}

// FindRange devuelve las filas existentes del rango [from, to] inclusive
func (r *availabilityRepository) FindRange(roomID uint, from, to time.Time) ([]domain.AvailabilityDay, error) {
	var days []domain.AvailabilityDay
	err := r.db.
		Where("room_id = ? AND date >= ? AND date <= ?",
			roomID, domain.DateOf(from), domain.DateOf(to)).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

// FindRangeWithState devuelve las filas del rango con un estado puntual
func (r *availabilityRepository) FindRangeWithState(roomID uint, from, to time.Time, state string) ([]domain.AvailabilityDay, error) {
	var days []domain.AvailabilityDay
	err := r.db.
		Where("room_id = ? AND date >= ? AND date <= ? AND state = ?",
			roomID, domain.DateOf(from), domain.DateOf(to), state).
		Find(&days).Error
	return days, err
}

// SetDayState hace el upsert de un día: busca la fila, si no existe la
// crea y si existe le cambia el estado. Corre siempre adentro de la
// transacción de admisión/cancelación, así que no necesita lock propio.
func (r *availabilityRepository) SetDayState(roomID uint, date time.Time, state string) error {
	day := domain.DateOf(date)

	var existing domain.AvailabilityDay
	err := r.db.Where("room_id = ? AND date = ?", roomID, day).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(&domain.AvailabilityDay{
				RoomID: roomID,
				Date:   day,
				State:  state,
			}).Error
		}
		return err
	}

	if existing.State == state {
		return nil
	}

	return r.db.Model(&existing).Update("state", state).Error
}
