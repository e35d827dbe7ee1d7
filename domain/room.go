package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de habitación (los administra el catálogo, acá solo se leen)
const (
	RoomAvailable   = "available"
	RoomMaintenance = "maintenance"
	RoomInactive    = "inactive"
)

// Room representa una habitación del catálogo. Este servicio NO la
// administra: el alta/baja y los precios base son del catálogo de hoteles,
// nosotros solo leemos capacidad, precio y estado para admitir reservas.
type Room struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	HotelID   uint            `gorm:"not null;index" json:"hotel_id"`
	Number    string          `gorm:"size:20" json:"number"`
	Capacity  int             `gorm:"not null" json:"capacity"`
	BasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	State     string          `gorm:"size:30;default:'available'" json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName especifica el nombre de la tabla en MySQL
func (Room) TableName() string {
	return "rooms"
}

// IsBookable indica si la habitación acepta reservas nuevas
func (r *Room) IsBookable() bool {
	return r.State == RoomAvailable
}
