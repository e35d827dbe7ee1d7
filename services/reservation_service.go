package services

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"reservas-api/domain"
	"reservas-api/dto"
	"reservas-api/publishers"
	"reservas-api/repositories"
	"reservas-api/utils"

	"github.com/shopspring/decimal"
)

// Reintentos de la transacción de admisión cuando pierde contra otra.
// Solo se reintentan conflictos de serialización: los rechazos de negocio
// (capacidad, fechas tomadas) se devuelven tal cual.
const (
	admissionMaxRetries  = 3
	admissionBaseBackoff = 50 * time.Millisecond
)

// Actor del sistema para cancelaciones automáticas (barrido de pendientes)
const systemActorID uint = 0

// ReservationService es el coordinador de admisión y la máquina de
// estados de las reservas. La autorización de quién puede llamar cada
// transición la resuelve la capa HTTP; acá solo se cuida el grafo de
// estados y sus guardas temporales.
type ReservationService interface {
	Admit(ctx context.Context, req dto.CreateReservationRequest, userID uint) (*domain.Reservation, error)

	GetByID(id uint) (*domain.Reservation, error)
	GetByCode(code string) (*domain.Reservation, error)
	ListByUser(userID uint, activeOnly bool) ([]domain.Reservation, error)

	Confirm(ctx context.Context, id uint) (*domain.Reservation, error)
	Cancel(ctx context.Context, id uint, reason string, actorID uint) (*domain.Reservation, error)
	Complete(ctx context.Context, id uint) (*domain.Reservation, error)
	MarkNoShow(ctx context.Context, id uint) (*domain.Reservation, error)

	ReleaseExpiredPending(ctx context.Context, holdWindow time.Duration) (int, error)
}

type reservationService struct {
	uow          repositories.UnitOfWork
	reservations repositories.ReservationRepository // lecturas fuera de transacción
	publisher    publishers.ReservationPublisher
}

// NewReservationService crea una nueva instancia del servicio
func NewReservationService(
	uow repositories.UnitOfWork,
	reservations repositories.ReservationRepository,
	publisher publishers.ReservationPublisher,
) ReservationService {
	return &reservationService{
		uow:          uow,
		reservations: reservations,
		publisher:    publisher,
	}
}

// Admit procesa una solicitud de reserva de punta a punta:
//  1. valida la forma del intervalo (puro, sin I/O)
//  2. re-chequea estado y capacidad de la habitación
//  3. prueba el solapamiento contra las reservas persistidas
//  4. calcula el precio (aplicando cupón si vino uno válido)
//  5. bloquea el calendario (solo reservas por noches)
//  6. persiste la reserva en estado pending
//
// Los pasos 2-6 corren adentro de UNA transacción serializable: dos
// admisiones concurrentes que se pisan no pueden confirmar las dos.
func (s *reservationService) Admit(ctx context.Context, req dto.CreateReservationRequest, userID uint) (*domain.Reservation, error) {
	// 1. Validación de forma, sin tocar storage
	interval, err := s.buildInterval(req)
	if err != nil {
		return nil, err
	}

	if req.GuestCount < 1 {
		return nil, domain.NewAdmissionError(domain.AdmissionInvalidRequest,
			req.RoomID, interval.Checkin(), interval.Checkout(),
			"guest count must be at least 1")
	}

	// Se permite reservar desde HOY, nunca hacia atrás
	if interval.Checkin().Before(domain.DateOf(time.Now())) {
		return nil, domain.NewAdmissionError(domain.AdmissionInvalidRequest,
			req.RoomID, interval.Checkin(), interval.Checkout(),
			"checkin date cannot be in the past")
	}

	var reservation *domain.Reservation

	err = s.runWithRetry(ctx, func(repos repositories.RepoSet) error {
		created, err := s.admit(repos, req, userID, interval)
		if err != nil {
			return err
		}
		reservation = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	// El evento sale DESPUÉS del commit: el pago y el indexador solo
	// tienen que enterarse de reservas que existen de verdad
	s.publish(publishers.ActionCreated, reservation)

	return reservation, nil
}

// admit son los pasos transaccionales de la admisión. Recibe los
// repositorios atados a la transacción serializable en curso.
func (s *reservationService) admit(
	repos repositories.RepoSet,
	req dto.CreateReservationRequest,
	userID uint,
	interval domain.BookingInterval,
) (*domain.Reservation, error) {
	// 2. Habitación: existencia, estado y capacidad
	room, err := repos.Rooms.GetByID(req.RoomID)
	if err != nil {
		return nil, err
	}

	if !room.IsBookable() {
		return nil, domain.NewAdmissionError(domain.AdmissionRoomUnavailable,
			room.ID, interval.Checkin(), interval.Checkout(),
			"room is not accepting reservations")
	}

	if req.GuestCount > room.Capacity {
		return nil, domain.NewAdmissionError(domain.AdmissionCapacityExceeded,
			room.ID, interval.Checkin(), interval.Checkout(),
			"room capacity exceeded")
	}

	// Días en mantenimiento bloquean las reservas por noches
	if !interval.IsDayUse() {
		maintenance, err := HasMaintenanceDay(repos.Availability, room.ID, interval.Checkin(), interval.Checkout())
		if err != nil {
			return nil, err
		}
		if maintenance {
			return nil, domain.NewAdmissionError(domain.AdmissionRoomUnavailable,
				room.ID, interval.Checkin(), interval.Checkout(),
				"room has maintenance days in the requested range")
		}
	}

	// 3. Chequeo autoritativo de solapamiento: contra las reservas
	// persistidas, NUNCA contra el calendario (que es solo un hint)
	candidates, err := repos.Reservations.FindOverlapCandidates(room.ID, interval.Checkin(), interval.Checkout())
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		if interval.Overlaps(candidates[i].Interval()) {
			return nil, domain.NewAdmissionError(domain.AdmissionDateConflict,
				room.ID, interval.Checkin(), interval.Checkout(),
				"room already reserved for the requested dates")
		}
	}

	// 4. Precio. El cupón se aplica sobre el subtotal; un cupón inválido
	// NO voltea la admisión: se ignora y la reserva sigue a precio
	// completo (comportamiento heredado del sistema original).
	subtotal := CalculatePrice(room, interval, decimal.Zero).Subtotal

	discount := decimal.Zero
	if req.CouponCode != "" {
		discount, err = applyCoupon(repos.Coupons, req.CouponCode, subtotal)
		if err != nil {
			log.Printf("Coupon %s ignored for room %d: %v", req.CouponCode, room.ID, err)
			discount = decimal.Zero
		}
	}

	breakdown := CalculatePrice(room, interval, discount)

	// 5. Bloquear el calendario, solo por noches: el day use no ocupa
	// días enteros y sus conflictos los gobierna la tabla de reservas
	if !interval.IsDayUse() {
		if err := BlockDays(repos.Availability, room.ID, interval.Checkin(), interval.Checkout()); err != nil {
			return nil, err
		}
	}

	// 6. Persistir en estado pending con código legible
	reservation := &domain.Reservation{
		Code:          utils.GenerateReservationCode(),
		UserID:        userID,
		RoomID:        room.ID,
		CheckinDate:   interval.Checkin(),
		CheckoutDate:  interval.Checkout(),
		HourlyUse:     interval.IsDayUse(),
		GuestCount:    req.GuestCount,
		GuestName:     req.GuestName,
		GuestSurname:  req.GuestSurname,
		GuestDocument: req.GuestDocument,
		GuestPhone:    req.GuestPhone,
		SpecialNotes:  req.SpecialNotes,
		Subtotal:      breakdown.Subtotal,
		Taxes:         breakdown.Taxes,
		Discount:      breakdown.Discount,
		Total:         breakdown.Total,
		State:         domain.ReservationPending,
	}

	if interval.IsDayUse() {
		start := interval.StartTime()
		end := interval.EndTime()
		reservation.CheckinTime = &start
		reservation.CheckoutTime = &end
	}

	if err := repos.Reservations.Create(reservation); err != nil {
		return nil, err
	}

	return reservation, nil
}

// buildInterval arma el BookingInterval validado a partir del request
func (s *reservationService) buildInterval(req dto.CreateReservationRequest) (domain.BookingInterval, error) {
	invalid := func(msg string) error {
		return domain.NewAdmissionError(domain.AdmissionInvalidRequest,
			req.RoomID, time.Time{}, time.Time{}, msg)
	}

	checkin, err := time.Parse(dto.DateLayout, req.CheckinDate)
	if err != nil {
		return domain.BookingInterval{}, invalid("invalid checkin_date, expected YYYY-MM-DD")
	}

	checkout, err := time.Parse(dto.DateLayout, req.CheckoutDate)
	if err != nil {
		return domain.BookingInterval{}, invalid("invalid checkout_date, expected YYYY-MM-DD")
	}

	if req.HourlyUse {
		// Day use: misma fecha, horas obligatorias
		if !domain.DateOf(checkin).Equal(domain.DateOf(checkout)) {
			return domain.BookingInterval{}, invalid("day use reservations must start and end on the same date")
		}

		if req.CheckinTime == "" || req.CheckoutTime == "" {
			return domain.BookingInterval{}, invalid("checkin_time and checkout_time are required for day use")
		}

		start, err := time.Parse(dto.TimeLayout, req.CheckinTime)
		if err != nil {
			return domain.BookingInterval{}, invalid("invalid checkin_time, expected HH:MM")
		}

		end, err := time.Parse(dto.TimeLayout, req.CheckoutTime)
		if err != nil {
			return domain.BookingInterval{}, invalid("invalid checkout_time, expected HH:MM")
		}

		interval, err := domain.NewDayUse(checkin, start, end)
		if err != nil {
			return domain.BookingInterval{}, invalid(err.Error())
		}
		return interval, nil
	}

	interval, err := domain.NewNightly(checkin, checkout)
	if err != nil {
		return domain.BookingInterval{}, invalid(err.Error())
	}
	return interval, nil
}

// applyCoupon valida el cupón, calcula el descuento y consume un uso.
// El consumo es un incremento condicional atómico: si el cupón llegó a su
// tope entre la validación y el consumo, devuelve error y la reserva
// sigue a precio completo.
func applyCoupon(coupons repositories.CouponRepository, code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	coupon, err := coupons.GetByCode(code)
	if err != nil {
		return decimal.Zero, err
	}

	if !coupon.IsValid(time.Now()) {
		return decimal.Zero, domain.ErrCouponInvalid
	}

	discount := coupon.ComputeDiscount(subtotal)
	if !discount.IsPositive() {
		return decimal.Zero, nil
	}

	if err := coupons.ConsumeUse(coupon.ID); err != nil {
		return decimal.Zero, err
	}

	return discount, nil
}

// GetByID busca una reserva por ID
func (s *reservationService) GetByID(id uint) (*domain.Reservation, error) {
	return s.reservations.GetByID(id)
}

// GetByCode busca una reserva por su código
func (s *reservationService) GetByCode(code string) (*domain.Reservation, error) {
	return s.reservations.GetByCode(code)
}

// ListByUser devuelve las reservas de un usuario
func (s *reservationService) ListByUser(userID uint, activeOnly bool) ([]domain.Reservation, error) {
	if activeOnly {
		return s.reservations.ListActiveByUser(userID)
	}
	return s.reservations.ListByUser(userID)
}

// Confirm pasa una reserva de pending a confirmed.
// Lo dispara el pago acreditado o una acción manual del hotel.
func (s *reservationService) Confirm(ctx context.Context, id uint) (*domain.Reservation, error) {
	var confirmed *domain.Reservation

	err := s.runWithRetry(ctx, func(repos repositories.RepoSet) error {
		reservation, err := repos.Reservations.GetByID(id)
		if err != nil {
			return err
		}

		if !reservation.CanBeConfirmed() {
			return domain.ErrInvalidTransition
		}

		if err := repos.Reservations.UpdateState(id, domain.ReservationConfirmed); err != nil {
			return err
		}

		reservation.State = domain.ReservationConfirmed
		confirmed = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(publishers.ActionConfirmed, confirmed)

	return confirmed, nil
}

// Cancel cancela una reserva si la ventana lo permite: estado activo y
// hoy estrictamente antes del check-in. Libera los días bloqueados del
// calendario (solo por noches) en la misma transacción.
func (s *reservationService) Cancel(ctx context.Context, id uint, reason string, actorID uint) (*domain.Reservation, error) {
	var cancelled *domain.Reservation

	err := s.runWithRetry(ctx, func(repos repositories.RepoSet) error {
		reservation, err := repos.Reservations.GetByID(id)
		if err != nil {
			return err
		}

		now := time.Now()

		if !reservation.CanBeCancelled(now) {
			return domain.ErrInvalidTransition
		}

		if err := repos.Reservations.Cancel(id, now, reason, actorID); err != nil {
			return err
		}

		if !reservation.HourlyUse {
			if err := ReleaseDays(repos.Availability, reservation.RoomID,
				reservation.CheckinDate, reservation.CheckoutDate); err != nil {
				return err
			}
		}

		reservation.State = domain.ReservationCancelled
		reservation.CancelledAt = &now
		reservation.CancelReason = reason
		reservation.CancelledBy = &actorID
		cancelled = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(publishers.ActionCancelled, cancelled)

	return cancelled, nil
}

// Complete pasa una reserva confirmada a completada, solo cuando su
// intervalo ya terminó (pasó el checkout, o la hora de fin del day use)
func (s *reservationService) Complete(ctx context.Context, id uint) (*domain.Reservation, error) {
	var completed *domain.Reservation

	err := s.runWithRetry(ctx, func(repos repositories.RepoSet) error {
		reservation, err := repos.Reservations.GetByID(id)
		if err != nil {
			return err
		}

		if !reservation.CanBeCompleted(time.Now()) {
			return domain.ErrInvalidTransition
		}

		if err := repos.Reservations.UpdateState(id, domain.ReservationCompleted); err != nil {
			return err
		}

		reservation.State = domain.ReservationCompleted
		completed = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(publishers.ActionCompleted, completed)

	return completed, nil
}

// MarkNoShow marca como no presentada una reserva confirmada cuyo
// check-in ya llegó y el huésped nunca apareció
func (s *reservationService) MarkNoShow(ctx context.Context, id uint) (*domain.Reservation, error) {
	var marked *domain.Reservation

	err := s.runWithRetry(ctx, func(repos repositories.RepoSet) error {
		reservation, err := repos.Reservations.GetByID(id)
		if err != nil {
			return err
		}

		if !reservation.CanBeMarkedNoShow(time.Now()) {
			return domain.ErrInvalidTransition
		}

		if err := repos.Reservations.UpdateState(id, domain.ReservationNoShow); err != nil {
			return err
		}

		reservation.State = domain.ReservationNoShow
		marked = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(publishers.ActionNoShow, marked)

	return marked, nil
}

// ReleaseExpiredPending cancela las reservas que quedaron en pending más
// tiempo que la ventana de retención (el pago nunca llegó) y libera sus
// días. Lo llama el barrido periódico de main.
func (s *reservationService) ReleaseExpiredPending(ctx context.Context, holdWindow time.Duration) (int, error) {
	expired, err := s.reservations.FindExpiredPending(time.Now().Add(-holdWindow))
	if err != nil {
		return 0, err
	}

	released := 0
	for i := range expired {
		id := expired[i].ID

		var cancelled *domain.Reservation

		err := s.runWithRetry(ctx, func(repos repositories.RepoSet) error {
			cancelled = nil

			reservation, err := repos.Reservations.GetByID(id)
			if err != nil {
				return err
			}

			// Otro proceso pudo confirmarla mientras corría el barrido
			if reservation.State != domain.ReservationPending {
				return nil
			}

			now := time.Now()
			if err := repos.Reservations.Cancel(id, now, "payment hold expired", systemActorID); err != nil {
				return err
			}

			if !reservation.HourlyUse {
				if err := ReleaseDays(repos.Availability, reservation.RoomID,
					reservation.CheckinDate, reservation.CheckoutDate); err != nil {
					return err
				}
			}

			reservation.State = domain.ReservationCancelled
			cancelled = reservation
			return nil
		})
		if err != nil {
			log.Printf("Failed to release expired reservation %d: %v", id, err)
			continue
		}

		if cancelled != nil {
			s.publish(publishers.ActionCancelled, cancelled)
			released++
		}
	}

	return released, nil
}

// runWithRetry ejecuta fn en la transacción serializable, reintentando
// con backoff y jitter solo los conflictos de serialización. Reintentar
// es seguro: si la transacción perdió, no persistió nada.
func (s *reservationService) runWithRetry(ctx context.Context, fn func(repos repositories.RepoSet) error) error {
	var err error

	for attempt := 0; attempt <= admissionMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := admissionBaseBackoff * time.Duration(1<<(attempt-1))
			jitter := time.Duration(rand.Int63n(int64(admissionBaseBackoff)))

			select {
			case <-time.After(backoff + jitter):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err = s.uow.RunSerializable(ctx, fn)
		if !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
	}

	return domain.ErrBusy
}

// publish manda el evento del ciclo de vida, logueando los fallos:
// un broker caído no voltea una operación ya confirmada
func (s *reservationService) publish(action string, reservation *domain.Reservation) {
	if reservation == nil {
		return
	}
	if err := s.publisher.Publish(action, reservation); err != nil {
		log.Printf("Failed to publish reservation event %s for %s: %v", action, reservation.Code, err)
	}
}
