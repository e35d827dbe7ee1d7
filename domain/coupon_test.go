package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func datePtr(t time.Time) *time.Time { return &t }

// Test: vigencia del cupón (activo, ventana de fechas, tope de usos)
func TestCoupon_IsValid(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		coupon Coupon
		want   bool
	}{
		{"active without constraints", Coupon{Active: true}, true},
		{"inactive", Coupon{Active: false}, false},
		{"before start date", Coupon{
			Active:    true,
			StartDate: datePtr(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
		}, false},
		{"after end date", Coupon{
			Active:  true,
			EndDate: datePtr(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)),
		}, false},
		{"on end date", Coupon{
			Active:  true,
			EndDate: datePtr(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)),
		}, true},
		{"within window", Coupon{
			Active:    true,
			StartDate: datePtr(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)),
			EndDate:   datePtr(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)),
		}, true},
		{"uses exhausted", Coupon{Active: true, MaxUses: 5, CurrentUses: 5}, false},
		{"uses remaining", Coupon{Active: true, MaxUses: 5, CurrentUses: 4}, true},
		{"zero max uses means uncapped", Coupon{Active: true, MaxUses: 0, CurrentUses: 1000}, true},
	}

	for _, tc := range cases {
		if got := tc.coupon.IsValid(now); got != tc.want {
			t.Errorf("%s: IsValid = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// Test: cálculo del descuento (porcentual, fijo, monto mínimo)
func TestCoupon_ComputeDiscount(t *testing.T) {
	minimum := decimal.RequireFromString("200")

	cases := []struct {
		name     string
		coupon   Coupon
		subtotal string
		want     string
	}{
		{"percentage", Coupon{
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.RequireFromString("10"),
		}, "300.00", "30.00"},
		{"percentage rounds to cents", Coupon{
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.RequireFromString("15"),
		}, "99.99", "15.00"},
		{"fixed amount", Coupon{
			DiscountType:  DiscountFixedAmount,
			DiscountValue: decimal.RequireFromString("50"),
		}, "300.00", "50"},
		{"below minimum amount", Coupon{
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.RequireFromString("10"),
			MinimumAmount: &minimum,
		}, "150.00", "0"},
		{"at minimum amount", Coupon{
			DiscountType:  DiscountPercentage,
			DiscountValue: decimal.RequireFromString("10"),
			MinimumAmount: &minimum,
		}, "200.00", "20.00"},
	}

	for _, tc := range cases {
		got := tc.coupon.ComputeDiscount(decimal.RequireFromString(tc.subtotal))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("%s: ComputeDiscount = %s, want %s", tc.name, got, tc.want)
		}
	}
}
