package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de descuento de cupón
const (
	DiscountPercentage  = "percentage"
	DiscountFixedAmount = "fixed_amount"
)

// Coupon representa un cupón de descuento. El campo CurrentUses solo se
// modifica con el incremento atómico del repositorio (ConsumeUse), nunca
// con un read-modify-write, para que redenciones concurrentes no pasen
// el tope de usos.
type Coupon struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Code          string           `gorm:"size:50;unique;not null" json:"code"`
	Description   string           `gorm:"size:500" json:"description,omitempty"`
	DiscountType  string           `gorm:"size:20;not null" json:"discount_type"`
	DiscountValue decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	MinimumAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"minimum_amount,omitempty"`
	StartDate     *time.Time       `gorm:"type:date" json:"start_date,omitempty"`
	EndDate       *time.Time       `gorm:"type:date" json:"end_date,omitempty"`
	MaxUses       int              `gorm:"default:0" json:"max_uses"` // 0 = sin tope
	CurrentUses   int              `gorm:"default:0" json:"current_uses"`
	Active        bool             `gorm:"default:true" json:"active"`
	HotelID       *uint            `json:"hotel_id,omitempty"` // nil = aplica a todos
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TableName especifica el nombre de la tabla en MySQL
func (Coupon) TableName() string {
	return "coupons"
}

// IsValid verifica que el cupón esté activo, dentro de su ventana de
// vigencia y con usos disponibles.
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.Active {
		return false
	}

	today := DateOf(now)
	if c.StartDate != nil && today.Before(DateOf(*c.StartDate)) {
		return false
	}
	if c.EndDate != nil && today.After(DateOf(*c.EndDate)) {
		return false
	}

	if c.MaxUses > 0 && c.CurrentUses >= c.MaxUses {
		return false
	}

	return true
}

// ComputeDiscount calcula el descuento sobre un subtotal.
// Devuelve cero si el subtotal no llega al monto mínimo del cupón.
func (c *Coupon) ComputeDiscount(subtotal decimal.Decimal) decimal.Decimal {
	if c.MinimumAmount != nil && subtotal.LessThan(*c.MinimumAmount) {
		return decimal.Zero
	}

	if c.DiscountType == DiscountPercentage {
		return subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	}

	return c.DiscountValue
}
