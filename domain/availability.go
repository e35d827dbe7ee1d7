package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del calendario de disponibilidad
const (
	DayFree        = "free"
	DayBlocked     = "blocked"
	DayMaintenance = "maintenance"
)

// AvailabilityDay es una fila del calendario de ocupación: una habitación
// en una fecha. Es una proyección consultable de la ocupación, NO la fuente
// de verdad: el chequeo autoritativo de conflictos siempre va contra las
// reservas persistidas, porque esta tabla se crea de forma lazy y una fila
// ausente no distingue "libre" de "todavía no materializada".
type AvailabilityDay struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	RoomID    uint             `gorm:"not null;uniqueIndex:ux_availability_room_date,priority:1" json:"room_id"`
	Date      time.Time        `gorm:"type:date;not null;uniqueIndex:ux_availability_room_date,priority:2" json:"date"`
	State     string           `gorm:"size:30;not null;default:'free';index" json:"state"`
	DayPrice  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"day_price,omitempty"` // precio especial del día, nil = precio base
	Note      string           `gorm:"size:500" json:"note,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName especifica el nombre de la tabla en MySQL
func (AvailabilityDay) TableName() string {
	return "availability_days"
}

// IsFree indica si el día admite reserva
func (d *AvailabilityDay) IsFree() bool {
	return d.State == DayFree
}
