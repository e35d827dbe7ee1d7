package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"reservas-api/domain"
	"reservas-api/repositories"
)

// ============================================
// MOCKS de storage para los tests
// ============================================
// Un mockStore comparte los mapas entre todos los repositorios, y el
// mockUnitOfWork serializa las "transacciones" con un mutex: a efectos
// de los tests de concurrencia equivale a la transacción serializable
// real, dos transacciones nunca se intercalan.

type mockStore struct {
	mu sync.Mutex

	rooms        map[uint]*domain.Room
	reservations map[uint]*domain.Reservation
	days         map[string]*domain.AvailabilityDay
	coupons      map[uint]*domain.Coupon

	nextReservationID uint
	nextDayID         uint
}

func newMockStore() *mockStore {
	return &mockStore{
		rooms:        make(map[uint]*domain.Room),
		reservations: make(map[uint]*domain.Reservation),
		days:         make(map[string]*domain.AvailabilityDay),
		coupons:      make(map[uint]*domain.Coupon),
	}
}

func dayKey(roomID uint, date time.Time) string {
	return fmt.Sprintf("%d_%s", roomID, domain.DateOf(date).Format("2006-01-02"))
}

// ---- unit of work ----

type mockUnitOfWork struct {
	store *mockStore
}

func (u *mockUnitOfWork) RunSerializable(ctx context.Context, fn func(repos repositories.RepoSet) error) error {
	// El mutex serializa las transacciones completas: dos admisiones
	// concurrentes nunca se intercalan, igual que con SERIALIZABLE
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	return fn(repositories.RepoSet{
		Reservations: &mockReservationRepo{store: u.store},
		Rooms:        &mockRoomRepo{store: u.store},
		Availability: &mockAvailabilityRepo{store: u.store},
		Coupons:      &mockCouponRepo{store: u.store},
	})
}

// ---- rooms ----

type mockRoomRepo struct {
	store *mockStore
}

func (m *mockRoomRepo) GetByID(id uint) (*domain.Room, error) {
	room, exists := m.store.rooms[id]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// ---- reservations ----

type mockReservationRepo struct {
	store *mockStore
}

func (m *mockReservationRepo) Create(r *domain.Reservation) error {
	m.store.nextReservationID++
	r.ID = m.store.nextReservationID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.store.reservations[r.ID] = r
	return nil
}

func (m *mockReservationRepo) GetByID(id uint) (*domain.Reservation, error) {
	r, exists := m.store.reservations[id]
	if !exists {
		return nil, domain.ErrReservationNotFound
	}
	return r, nil
}

func (m *mockReservationRepo) GetByCode(code string) (*domain.Reservation, error) {
	for _, r := range m.store.reservations {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, domain.ErrReservationNotFound
}

func (m *mockReservationRepo) ListByUser(userID uint) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range m.store.reservations {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReservationRepo) ListActiveByUser(userID uint) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range m.store.reservations {
		if r.UserID == userID && r.IsActive() {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReservationRepo) FindOverlapCandidates(roomID uint, from, to time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range m.store.reservations {
		if r.RoomID != roomID || !r.IsActive() {
			continue
		}
		// Bordes inclusive, igual que el repositorio real
		if !r.CheckinDate.After(domain.DateOf(to)) && !r.CheckoutDate.Before(domain.DateOf(from)) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReservationRepo) UpdateState(id uint, state domain.ReservationState) error {
	r, exists := m.store.reservations[id]
	if !exists {
		return domain.ErrReservationNotFound
	}
	r.State = state
	r.UpdatedAt = time.Now()
	return nil
}

func (m *mockReservationRepo) Cancel(id uint, at time.Time, reason string, actorID uint) error {
	r, exists := m.store.reservations[id]
	if !exists {
		return domain.ErrReservationNotFound
	}
	r.State = domain.ReservationCancelled
	r.CancelledAt = &at
	r.CancelReason = reason
	r.CancelledBy = &actorID
	r.UpdatedAt = at
	return nil
}

func (m *mockReservationRepo) FindExpiredPending(createdBefore time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range m.store.reservations {
		if r.State == domain.ReservationPending && r.CreatedAt.Before(createdBefore) {
			out = append(out, *r)
		}
	}
	return out, nil
}

// ---- availability ----

type mockAvailabilityRepo struct {
	store *mockStore
}

func (m *mockAvailabilityRepo) GetDay(roomID uint, date time.Time) (*domain.AvailabilityDay, error) {
	day, exists := m.store.days[dayKey(roomID, date)]
	if !exists {
		return nil, nil
	}
	return day, nil
}

func (m *mockAvailabilityRepo) FindRange(roomID uint, from, to time.Time) ([]domain.AvailabilityDay, error) {
	var out []domain.AvailabilityDay
	for _, day := range m.store.days {
		if day.RoomID == roomID && !day.Date.Before(domain.DateOf(from)) && !day.Date.After(domain.DateOf(to)) {
			out = append(out, *day)
		}
	}
	return out, nil
}

func (m *mockAvailabilityRepo) FindRangeWithState(roomID uint, from, to time.Time, state string) ([]domain.AvailabilityDay, error) {
	days, _ := m.FindRange(roomID, from, to)
	var out []domain.AvailabilityDay
	for _, day := range days {
		if day.State == state {
			out = append(out, day)
		}
	}
	return out, nil
}

func (m *mockAvailabilityRepo) SetDayState(roomID uint, date time.Time, state string) error {
	key := dayKey(roomID, date)
	if day, exists := m.store.days[key]; exists {
		day.State = state
		return nil
	}
	m.store.nextDayID++
	m.store.days[key] = &domain.AvailabilityDay{
		ID:     m.store.nextDayID,
		RoomID: roomID,
		Date:   domain.DateOf(date),
		State:  state,
	}
	return nil
}

// ---- coupons ----

type mockCouponRepo struct {
	store *mockStore
}

func (m *mockCouponRepo) GetByCode(code string) (*domain.Coupon, error) {
	for _, c := range m.store.coupons {
		if c.Code == strings.ToUpper(code) {
			return c, nil
		}
	}
	return nil, domain.ErrCouponNotFound
}

func (m *mockCouponRepo) ConsumeUse(id uint) error {
	c, exists := m.store.coupons[id]
	if !exists {
		return domain.ErrCouponNotFound
	}
	if c.MaxUses > 0 && c.CurrentUses >= c.MaxUses {
		return domain.ErrCouponInvalid
	}
	c.CurrentUses++
	return nil
}

// ---- publisher ----

type mockPublisher struct {
	mu      sync.Mutex
	actions []string
}

func (p *mockPublisher) Publish(action string, _ *domain.Reservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, action)
	return nil
}

func (p *mockPublisher) Close() {}

// ---- cache ----

type mockHintCache struct {
	data map[string]*repositories.AvailabilityHint
}

func newMockHintCache() *mockHintCache {
	return &mockHintCache{data: make(map[string]*repositories.AvailabilityHint)}
}

func (c *mockHintCache) Get(key string) (*repositories.AvailabilityHint, bool) {
	hint, ok := c.data[key]
	return hint, ok
}

func (c *mockHintCache) Set(key string, hint *repositories.AvailabilityHint, _ time.Duration) {
	c.data[key] = hint
}

func (c *mockHintCache) Delete(key string) {
	delete(c.data, key)
}
