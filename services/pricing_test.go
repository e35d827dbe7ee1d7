package services

import (
	"testing"
	"time"

	"reservas-api/domain"

	"github.com/shopspring/decimal"
)

func testRoom(basePrice string) *domain.Room {
	return &domain.Room{
		ID:        1,
		Capacity:  4,
		BasePrice: decimal.RequireFromString(basePrice),
		State:     domain.RoomAvailable,
	}
}

func testNightly(t *testing.T, nights int) domain.BookingInterval {
	t.Helper()
	checkin := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	interval, err := domain.NewNightly(checkin, checkin.AddDate(0, 0, nights))
	if err != nil {
		t.Fatalf("NewNightly failed: %v", err)
	}
	return interval
}

func testDayUse(t *testing.T, hours int) domain.BookingInterval {
	t.Helper()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	interval, err := domain.NewDayUse(date, start, start.Add(time.Duration(hours)*time.Hour))
	if err != nil {
		t.Fatalf("NewDayUse failed: %v", err)
	}
	return interval
}

// Test: desglose por noches
// 3 noches a 100.00 -> subtotal 300.00, 18% de impuestos, total 354.00
func TestCalculatePrice_Nightly(t *testing.T) {
	breakdown := CalculatePrice(testRoom("100.00"), testNightly(t, 3), decimal.Zero)

	if !breakdown.Subtotal.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("Expected subtotal 300.00, got %s", breakdown.Subtotal)
	}
	if !breakdown.Taxes.Equal(decimal.RequireFromString("54.00")) {
		t.Errorf("Expected taxes 54.00, got %s", breakdown.Taxes)
	}
	if !breakdown.Total.Equal(decimal.RequireFromString("354.00")) {
		t.Errorf("Expected total 354.00, got %s", breakdown.Total)
	}
}

// Test: el day use cobra por hora el 40% del precio por noche
// 4 horas a base 150.00 -> 60.00/hora -> subtotal 240.00, total 283.20
func TestCalculatePrice_DayUse(t *testing.T) {
	breakdown := CalculatePrice(testRoom("150.00"), testDayUse(t, 4), decimal.Zero)

	if !breakdown.Subtotal.Equal(decimal.RequireFromString("240.00")) {
		t.Errorf("Expected subtotal 240.00, got %s", breakdown.Subtotal)
	}
	if !breakdown.Taxes.Equal(decimal.RequireFromString("43.20")) {
		t.Errorf("Expected taxes 43.20, got %s", breakdown.Taxes)
	}
	if !breakdown.Total.Equal(decimal.RequireFromString("283.20")) {
		t.Errorf("Expected total 283.20, got %s", breakdown.Total)
	}
}

// Test: el descuento se resta del total
func TestCalculatePrice_Discount(t *testing.T) {
	discount := decimal.RequireFromString("30.00")
	breakdown := CalculatePrice(testRoom("100.00"), testNightly(t, 3), discount)

	if !breakdown.Discount.Equal(discount) {
		t.Errorf("Expected discount 30.00, got %s", breakdown.Discount)
	}
	if !breakdown.Total.Equal(decimal.RequireFromString("324.00")) {
		t.Errorf("Expected total 324.00, got %s", breakdown.Total)
	}
}

// Test: un descuento mayor al monto no deja el total negativo
func TestCalculatePrice_TotalNeverNegative(t *testing.T) {
	discount := decimal.RequireFromString("500.00")
	breakdown := CalculatePrice(testRoom("100.00"), testNightly(t, 1), discount)

	if !breakdown.Total.Equal(decimal.Zero) {
		t.Errorf("Expected total clamped to 0, got %s", breakdown.Total)
	}
}

// Test: sin redondeos binarios, centavos exactos
// 7 noches a 99.99 -> 699.93, impuestos 125.99 (125.9874 redondeado), total 825.92
func TestCalculatePrice_ExactCents(t *testing.T) {
	breakdown := CalculatePrice(testRoom("99.99"), testNightly(t, 7), decimal.Zero)

	if !breakdown.Subtotal.Equal(decimal.RequireFromString("699.93")) {
		t.Errorf("Expected subtotal 699.93, got %s", breakdown.Subtotal)
	}
	if !breakdown.Taxes.Equal(decimal.RequireFromString("125.99")) {
		t.Errorf("Expected taxes 125.99, got %s", breakdown.Taxes)
	}
	if !breakdown.Total.Equal(decimal.RequireFromString("825.92")) {
		t.Errorf("Expected total 825.92, got %s", breakdown.Total)
	}
}
