package services

import (
	"reservas-api/domain"

	"github.com/shopspring/decimal"
)

// Constantes de precios del negocio. Toda la aritmética monetaria usa
// decimales de punto fijo: nunca float binario, para que los totales
// sean exactos y auditables.
var (
	// TaxRate es el impuesto sobre el subtotal (18% IGV)
	TaxRate = decimal.RequireFromString("0.18")

	// DayUseRate es la fracción del precio por noche que se cobra por
	// hora en las reservas day use (40%)
	DayUseRate = decimal.RequireFromString("0.40")
)

// PriceBreakdown es el desglose monetario de una reserva
type PriceBreakdown struct {
	Subtotal decimal.Decimal
	Taxes    decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// CalculatePrice calcula el desglose de una reserva candidata:
//   - por noches:  subtotal = precio base x noches
//   - day use:     subtotal = precio base x 0.40 x horas
//   - impuestos = subtotal x 0.18
//   - total = subtotal + impuestos - descuento, nunca menor que cero
func CalculatePrice(room *domain.Room, interval domain.BookingInterval, discount decimal.Decimal) PriceBreakdown {
	var subtotal decimal.Decimal

	if interval.IsDayUse() {
		hourlyPrice := room.BasePrice.Mul(DayUseRate)
		subtotal = hourlyPrice.Mul(decimal.NewFromInt(int64(interval.Hours())))
	} else {
		subtotal = room.BasePrice.Mul(decimal.NewFromInt(int64(interval.Nights())))
	}

	subtotal = subtotal.Round(2)
	taxes := subtotal.Mul(TaxRate).Round(2)

	total := subtotal.Add(taxes).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return PriceBreakdown{
		Subtotal: subtotal,
		Taxes:    taxes,
		Discount: discount,
		Total:    total,
	}
}
