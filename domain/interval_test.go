package domain

import (
	"testing"
	"time"
)

func day(offset int) time.Time {
	return DateOf(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset))
}

func hour(h int) time.Time {
	return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
}

func mustNightly(t *testing.T, checkinOffset, checkoutOffset int) BookingInterval {
	t.Helper()
	interval, err := NewNightly(day(checkinOffset), day(checkoutOffset))
	if err != nil {
		t.Fatalf("NewNightly failed: %v", err)
	}
	return interval
}

func mustDayUse(t *testing.T, dateOffset, startHour, endHour int) BookingInterval {
	t.Helper()
	interval, err := NewDayUse(day(dateOffset), hour(startHour), hour(endHour))
	if err != nil {
		t.Fatalf("NewDayUse failed: %v", err)
	}
	return interval
}

// Test: el checkout tiene que ser posterior al checkin
func TestNewNightly_Bounds(t *testing.T) {
	if _, err := NewNightly(day(0), day(0)); err == nil {
		t.Error("Expected error for zero nights")
	}

	if _, err := NewNightly(day(2), day(1)); err == nil {
		t.Error("Expected error for inverted dates")
	}

	interval, err := NewNightly(day(0), day(3))
	if err != nil {
		t.Fatalf("Expected valid interval, got %v", err)
	}
	if interval.Nights() != 3 {
		t.Errorf("Expected 3 nights, got %d", interval.Nights())
	}
}

// Test: duración del day use entre 3 y 12 horas completas
func TestNewDayUse_Bounds(t *testing.T) {
	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
		hours   int
	}{
		{"inverted", hour(14), hour(10), true, 0},
		{"zero length", hour(10), hour(10), true, 0},
		{"too short", hour(10), hour(12), true, 0},
		{"minimum", hour(10), hour(13), false, 3},
		{"maximum", hour(8), hour(20), false, 12},
		{"too long", hour(8), hour(21), true, 0},
	}

	for _, tc := range cases {
		interval, err := NewDayUse(day(0), tc.start, tc.end)

		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tc.name)
			}
			continue
		}

		if err != nil {
			t.Errorf("%s: expected valid interval, got %v", tc.name, err)
			continue
		}
		if interval.Hours() != tc.hours {
			t.Errorf("%s: expected %d hours, got %d", tc.name, tc.hours, interval.Hours())
		}
	}
}

// Test: solo cuentan las horas completas, 2h59m son 2 horas
func TestNewDayUse_WholeHoursOnly(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 12, 59, 0, 0, time.UTC)

	if _, err := NewDayUse(day(0), start, end); err == nil {
		t.Error("Expected rejection: 2h59m truncates to 2 hours")
	}

	// 3h30m son 3 horas, dentro del rango
	end = time.Date(2026, 9, 1, 13, 30, 0, 0, time.UTC)
	interval, err := NewDayUse(day(0), start, end)
	if err != nil {
		t.Fatalf("Expected valid interval, got %v", err)
	}
	if interval.Hours() != 3 {
		t.Errorf("Expected 3 whole hours, got %d", interval.Hours())
	}
}

// Test: tabla de solapamiento entre los dos tipos de intervalo
func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a    BookingInterval
		b    BookingInterval
		want bool
	}{
		{"nightly overlapping", mustNightly(t, 0, 3), mustNightly(t, 2, 5), true},
		{"nightly contained", mustNightly(t, 0, 5), mustNightly(t, 1, 3), true},
		{"nightly back to back", mustNightly(t, 0, 3), mustNightly(t, 3, 5), false},
		{"nightly disjoint", mustNightly(t, 0, 2), mustNightly(t, 4, 6), false},

		{"day use same day overlapping", mustDayUse(t, 0, 10, 14), mustDayUse(t, 0, 12, 16), true},
		{"day use same day back to back", mustDayUse(t, 0, 8, 11), mustDayUse(t, 0, 11, 14), false},
		{"day use different days", mustDayUse(t, 0, 10, 14), mustDayUse(t, 1, 10, 14), false},

		{"day use inside nightly range", mustNightly(t, 0, 3), mustDayUse(t, 1, 10, 14), true},
		{"day use on checkin day", mustNightly(t, 0, 3), mustDayUse(t, 0, 10, 14), true},
		{"day use on checkout day", mustNightly(t, 0, 3), mustDayUse(t, 3, 10, 14), false},
	}

	for _, tc := range cases {
		if got := tc.a.Overlaps(tc.b); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
		// El predicado es simétrico
		if got := tc.b.Overlaps(tc.a); got != tc.want {
			t.Errorf("%s (reversed): Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// Test: el intervalo por noches ocupa [checkin, checkout)
func TestOccupiedDays(t *testing.T) {
	nightly := mustNightly(t, 0, 3)

	occupied := nightly.OccupiedDays()
	if len(occupied) != 3 {
		t.Fatalf("Expected 3 occupied days, got %d", len(occupied))
	}
	if !occupied[0].Equal(day(0)) || !occupied[2].Equal(day(2)) {
		t.Errorf("Expected days [%s..%s], got [%s..%s]", day(0), day(2), occupied[0], occupied[2])
	}

	dayUse := mustDayUse(t, 1, 10, 14)
	occupied = dayUse.OccupiedDays()
	if len(occupied) != 1 || !occupied[0].Equal(day(1)) {
		t.Errorf("Expected single day %s, got %v", day(1), occupied)
	}
}

// Test: fin del intervalo para la transición a completada
func TestEndedBy(t *testing.T) {
	nightly := mustNightly(t, 0, 3)

	if nightly.EndedBy(day(2)) {
		t.Error("Nightly must not be ended before checkout date")
	}
	if !nightly.EndedBy(day(3)) {
		t.Error("Nightly must be ended on checkout date")
	}

	dayUse := mustDayUse(t, 0, 10, 14)

	if dayUse.EndedBy(hour(13)) {
		t.Error("Day use must not be ended before its end time")
	}
	if !dayUse.EndedBy(hour(14)) {
		t.Error("Day use must be ended at its end time")
	}
}
