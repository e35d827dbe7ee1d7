package repositories

import (
	"errors"
	"time"

	"reservas-api/domain"

	"gorm.io/gorm"
)

// ReservationRepository define las operaciones de persistencia de reservas
type ReservationRepository interface {
	Create(reservation *domain.Reservation) error
	GetByID(id uint) (*domain.Reservation, error)
	GetByCode(code string) (*domain.Reservation, error)
	ListByUser(userID uint) ([]domain.Reservation, error)
	ListActiveByUser(userID uint) ([]domain.Reservation, error)

	// FindOverlapCandidates devuelve las reservas activas de la habitación
	// cuyo rango de fechas TOCA el rango pedido (bordes inclusive). Es un
	// prefiltro por fechas: el predicado exacto de solapamiento lo aplica
	// el servicio con BookingInterval.Overlaps, porque las reservas por
	// horas comparten fecha sin necesariamente pisarse.
	FindOverlapCandidates(roomID uint, from, to time.Time) ([]domain.Reservation, error)

	UpdateState(id uint, state domain.ReservationState) error
	Cancel(id uint, at time.Time, reason string, actorID uint) error
	FindExpiredPending(createdBefore time.Time) ([]domain.Reservation, error)
}

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository crea una nueva instancia del repositorio
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create inserta una reserva nueva
func (r *reservationRepository) Create(reservation *domain.Reservation) error {
	return r.db.Create(reservation).Error
}

// GetByID busca una reserva por su ID
func (r *reservationRepository) GetByID(id uint) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := r.db.First(&reservation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// GetByCode busca una reserva por su código único (RES-XXXXXXXX)
func (r *reservationRepository) GetByCode(code string) (*domain.Reservation, error) {
	var reservation domain.Reservation
	err := r.db.Where("code = ?", code).First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// ListByUser devuelve todas las reservas de un usuario, las más nuevas primero
func (r *reservationRepository) ListByUser(userID uint) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

// ListActiveByUser devuelve las reservas pendientes y confirmadas de un
// usuario, ordenadas por fecha de entrada
func (r *reservationRepository) ListActiveByUser(userID uint) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := r.db.
		Where("user_id = ? AND state IN ?", userID,
			[]domain.ReservationState{domain.ReservationPending, domain.ReservationConfirmed}).
		Order("checkin_date ASC").
		Find(&reservations).Error
	return reservations, err
}

// FindOverlapCandidates busca las reservas activas que tocan el rango.
// La ventana es inclusiva en los bordes a propósito: una reserva day use
// tiene checkin_date == checkout_date, y con una ventana semiabierta
// quedaría afuera del candidato que sí conflictúa.
func (r *reservationRepository) FindOverlapCandidates(roomID uint, from, to time.Time) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := r.db.
		Where("room_id = ? AND state IN ? AND checkin_date <= ? AND checkout_date >= ?",
			roomID,
			[]domain.ReservationState{domain.ReservationPending, domain.ReservationConfirmed},
			to, from).
		Find(&reservations).Error
	return reservations, err
}

// UpdateState cambia el estado de una reserva
func (r *reservationRepository) UpdateState(id uint, state domain.ReservationState) error {
	result := r.db.Model(&domain.Reservation{}).
		Where("id = ?", id).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// Cancel marca una reserva como cancelada con su metadata
func (r *reservationRepository) Cancel(id uint, at time.Time, reason string, actorID uint) error {
	result := r.db.Model(&domain.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":         domain.ReservationCancelled,
			"cancelled_at":  at,
			"cancel_reason": reason,
			"cancelled_by":  actorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// FindExpiredPending busca reservas pendientes creadas antes del límite.
// Se usa para liberar reservas cuyo pago nunca llegó.
func (r *reservationRepository) FindExpiredPending(createdBefore time.Time) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := r.db.
		Where("state = ? AND created_at < ?", domain.ReservationPending, createdBefore).
		Order("created_at ASC").
		Find(&reservations).Error
	return reservations, err
}
