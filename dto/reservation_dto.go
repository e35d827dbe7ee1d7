package dto

import (
	"time"

	"reservas-api/domain"

	"github.com/shopspring/decimal"
)

// Formatos de fecha/hora que acepta la API
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// CreateReservationRequest representa el request para crear una reserva.
// Esto es lo que el frontend envía cuando un huésped reserva una habitación.
// Las fechas van como "2006-01-02" y las horas (solo day use) como "15:04".
type CreateReservationRequest struct {
	RoomID       uint   `json:"room_id" binding:"required"`
	CheckinDate  string `json:"checkin_date" binding:"required"`
	CheckoutDate string `json:"checkout_date" binding:"required"`

	// Reserva por horas (day use): misma fecha y horas obligatorias
	HourlyUse    bool   `json:"hourly_use"`
	CheckinTime  string `json:"checkin_time,omitempty"`
	CheckoutTime string `json:"checkout_time,omitempty"`

	GuestCount    int    `json:"guest_count" binding:"required,min=1"`
	GuestName     string `json:"guest_name" binding:"required,min=2,max=100"`
	GuestSurname  string `json:"guest_surname" binding:"required,min=2,max=100"`
	GuestDocument string `json:"guest_document" binding:"required,min=8,max=20"`
	GuestPhone    string `json:"guest_phone" binding:"required,min=9,max=20"`

	CouponCode   string `json:"coupon_code,omitempty"`
	SpecialNotes string `json:"special_notes,omitempty"`
}

// CancelReservationRequest representa el request para cancelar una reserva
type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ValidateCouponRequest representa el request de validación de cupón
type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required,max=50"`
}

// CouponResponse es la respuesta de la validación standalone de cupón
type CouponResponse struct {
	Code          string          `json:"code"`
	Description   string          `json:"description,omitempty"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinimumAmount decimal.Decimal `json:"minimum_amount"`
	EndDate       string          `json:"end_date,omitempty"`
}

// ReservationResponse representa una reserva hacia afuera
type ReservationResponse struct {
	ID           uint   `json:"id"`
	Code         string `json:"code"`
	UserID       uint   `json:"user_id"`
	RoomID       uint   `json:"room_id"`
	CheckinDate  string `json:"checkin_date"`
	CheckoutDate string `json:"checkout_date"`
	CheckinTime  string `json:"checkin_time,omitempty"`
	CheckoutTime string `json:"checkout_time,omitempty"`
	HourlyUse    bool   `json:"hourly_use"`
	Nights       int    `json:"nights"`
	Hours        int    `json:"hours"`

	GuestCount    int    `json:"guest_count"`
	GuestName     string `json:"guest_name"`
	GuestSurname  string `json:"guest_surname"`
	GuestDocument string `json:"guest_document"`
	GuestPhone    string `json:"guest_phone"`
	SpecialNotes  string `json:"special_notes,omitempty"`

	Subtotal decimal.Decimal `json:"subtotal"`
	Taxes    decimal.Decimal `json:"taxes"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`

	State          string `json:"state"`
	CanBeCancelled bool   `json:"can_be_cancelled"`
	CancelledAt    string `json:"cancelled_at,omitempty"`
	CancelReason   string `json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReservationResponse arma la respuesta a partir de la entidad
func NewReservationResponse(r *domain.Reservation) ReservationResponse {
	interval := r.Interval()

	resp := ReservationResponse{
		ID:            r.ID,
		Code:          r.Code,
		UserID:        r.UserID,
		RoomID:        r.RoomID,
		CheckinDate:   r.CheckinDate.Format(DateLayout),
		CheckoutDate:  r.CheckoutDate.Format(DateLayout),
		HourlyUse:     r.HourlyUse,
		Nights:        interval.Nights(),
		Hours:         interval.Hours(),
		GuestCount:    r.GuestCount,
		GuestName:     r.GuestName,
		GuestSurname:  r.GuestSurname,
		GuestDocument: r.GuestDocument,
		GuestPhone:    r.GuestPhone,
		SpecialNotes:  r.SpecialNotes,
		Subtotal:      r.Subtotal,
		Taxes:         r.Taxes,
		Discount:      r.Discount,
		Total:         r.Total,
		State:         string(r.State),
		CancelReason:  r.CancelReason,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}

	resp.CanBeCancelled = r.CanBeCancelled(time.Now())

	if r.CheckinTime != nil {
		resp.CheckinTime = r.CheckinTime.Format(TimeLayout)
	}
	if r.CheckoutTime != nil {
		resp.CheckoutTime = r.CheckoutTime.Format(TimeLayout)
	}
	if r.CancelledAt != nil {
		resp.CancelledAt = r.CancelledAt.Format(time.RFC3339)
	}

	return resp
}

// AvailabilityResponse es la respuesta del hint de disponibilidad.
// Ojo: es solo un hint (puede estar cacheado), la verdad la tiene la
// admisión, que recién ahí chequea contra las reservas reales.
type AvailabilityResponse struct {
	RoomID    uint   `json:"room_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Available bool   `json:"available"`
}

// PricesResponse devuelve el precio por día de un rango
type PricesResponse struct {
	RoomID uint                       `json:"room_id"`
	Prices map[string]decimal.Decimal `json:"prices"` // fecha ISO -> precio del día
}

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse representa una respuesta exitosa
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
