package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationState define el ciclo de vida de una reserva
type ReservationState string

const (
	ReservationPending   ReservationState = "pending"
	ReservationConfirmed ReservationState = "confirmed"
	ReservationCancelled ReservationState = "cancelled"
	ReservationCompleted ReservationState = "completed"
	ReservationNoShow    ReservationState = "no_show"
)

// Reservation representa una reserva de habitación. Las reservas nunca se
// borran físicamente: solo cambian de estado. La habitación se referencia
// por id, sin punteros de vuelta (las filas de disponibilidad tampoco
// apuntan a la reserva).
type Reservation struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Code   string `gorm:"size:20;unique;not null;index:ix_reservation_code" json:"code"`
	UserID uint   `gorm:"not null;index:ix_reservation_user" json:"user_id"`
	RoomID uint   `gorm:"not null;index:ix_reservation_room_dates,priority:1" json:"room_id"`

	// Intervalo aplanado a columnas. La lógica de dominio nunca usa estos
	// campos directamente: siempre reconstruye el BookingInterval con
	// Interval(), que es el valor validado.
	CheckinDate  time.Time  `gorm:"type:date;not null;index:ix_reservation_room_dates,priority:2" json:"checkin_date"`
	CheckoutDate time.Time  `gorm:"type:date;not null" json:"checkout_date"`
	CheckinTime  *time.Time `json:"checkin_time,omitempty"`
	CheckoutTime *time.Time `json:"checkout_time,omitempty"`
	HourlyUse    bool       `gorm:"default:false" json:"hourly_use"`

	GuestCount    int    `gorm:"not null;default:1" json:"guest_count"`
	GuestName     string `gorm:"size:100;not null" json:"guest_name"`
	GuestSurname  string `gorm:"size:100;not null" json:"guest_surname"`
	GuestDocument string `gorm:"size:20;not null" json:"guest_document"`
	GuestPhone    string `gorm:"size:20;not null" json:"guest_phone"`
	SpecialNotes  string `gorm:"size:1000" json:"special_notes,omitempty"`

	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Taxes    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"taxes"`
	Discount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	State ReservationState `gorm:"size:30;not null;index" json:"state"`

	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `gorm:"size:500" json:"cancel_reason,omitempty"`
	CancelledBy  *uint      `json:"cancelled_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName especifica el nombre de la tabla en MySQL
func (Reservation) TableName() string {
	return "reservations"
}

// Interval reconstruye el BookingInterval de la reserva.
// Las filas persistidas siempre pasaron por la admisión, así que acá
// los invariantes ya se cumplen y se arma el valor directo.
func (r *Reservation) Interval() BookingInterval {
	if r.HourlyUse && r.CheckinTime != nil && r.CheckoutTime != nil {
		return BookingInterval{
			kind:     IntervalDayUse,
			checkin:  DateOf(r.CheckinDate),
			checkout: DateOf(r.CheckinDate),
			start:    *r.CheckinTime,
			end:      *r.CheckoutTime,
		}
	}

	return BookingInterval{
		kind:     IntervalNightly,
		checkin:  DateOf(r.CheckinDate),
		checkout: DateOf(r.CheckoutDate),
	}
}

// IsActive indica si la reserva ocupa la habitación
// (solo pending y confirmed cuentan para el solapamiento)
func (r *Reservation) IsActive() bool {
	return r.State == ReservationPending || r.State == ReservationConfirmed
}

// CanBeCancelled indica si la reserva se puede cancelar: tiene que estar
// activa y hoy tiene que ser estrictamente anterior a la fecha de entrada.
// El mismo día del check-in ya no se cancela.
func (r *Reservation) CanBeCancelled(now time.Time) bool {
	return r.IsActive() && DateOf(now).Before(DateOf(r.CheckinDate))
}

// CanBeConfirmed indica si la reserva puede pasar a confirmada
func (r *Reservation) CanBeConfirmed() bool {
	return r.State == ReservationPending
}

// CanBeCompleted indica si la reserva puede pasar a completada:
// debe estar confirmada y su intervalo ya tiene que haber terminado.
func (r *Reservation) CanBeCompleted(now time.Time) bool {
	return r.State == ReservationConfirmed && r.Interval().EndedBy(now)
}

// CanBeMarkedNoShow indica si se puede marcar como no presentada:
// confirmada y con el check-in ya alcanzado.
func (r *Reservation) CanBeMarkedNoShow(now time.Time) bool {
	return r.State == ReservationConfirmed && !DateOf(now).Before(DateOf(r.CheckinDate))
}
