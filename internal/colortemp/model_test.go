package colortemp

import (
	"math"
	"testing"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		elevation  float64
		wantTemp   int
		wantPeriod Period
	}{
		{"deep_night", -40, 3700, PeriodNight},
		{"just_below_low", -6.0001, 3700, PeriodNight},
		{"at_low", -6, 3700, PeriodTransition},
		{"midpoint", -3, 4300, PeriodTransition},
		{"horizon", 0, 4900, PeriodTransition},
		{"just_below_high", 2.9999, 5500, PeriodTransition},
		{"at_high", 3, 5500, PeriodDay},
		{"noon", 57, 5500, PeriodDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.elevation, 5500, 3700)
			if got.Temperature != tt.wantTemp {
				t.Errorf("Calculate(%v).Temperature = %d, want %d", tt.elevation, got.Temperature, tt.wantTemp)
			}
			if got.Period != tt.wantPeriod {
				t.Errorf("Calculate(%v).Period = %v, want %v", tt.elevation, got.Period, tt.wantPeriod)
			}
		})
	}
}

func TestCalculate_ClampsOutsideBand(t *testing.T) {
	for e := TransitionHigh; e <= 90; e += 0.5 {
		if got := Calculate(e, 6200, 2000).Temperature; got != 6200 {
			t.Fatalf("elevation %.1f: temperature = %d, want day 6200", e, got)
		}
	}
	for e := -90.0; e < TransitionLow; e += 0.5 {
		if got := Calculate(e, 6200, 2000).Temperature; got != 2000 {
			t.Fatalf("elevation %.1f: temperature = %d, want night 2000", e, got)
		}
	}
}

func TestCalculate_NightWarmerThanDayNotRequired(t *testing.T) {
	// No ordering is enforced between day and night
	got := Calculate(-3, 3000, 6000)
	if got.Temperature != 5000 {
		t.Errorf("inverted temperatures: got %d, want 5000", got.Temperature)
	}
}

func TestDayFraction_Endpoints(t *testing.T) {
	if a := DayFraction(TransitionHigh, TransitionLow, TransitionHigh); a != 1 {
		t.Errorf("DayFraction(high) = %v, want 1", a)
	}
	if a := DayFraction(TransitionLow, TransitionLow, TransitionHigh); a != 0 {
		t.Errorf("DayFraction(low) = %v, want 0", a)
	}
	if a := DayFraction(-3, TransitionLow, TransitionHigh); math.Abs(a-1.0/3.0) > 1e-12 {
		t.Errorf("DayFraction(-3) = %v, want 1/3", a)
	}
}

func TestDayFraction_MonotonicAndContinuous(t *testing.T) {
	prev := DayFraction(TransitionLow, TransitionLow, TransitionHigh)
	step := 0.01
	for e := TransitionLow + step; e <= TransitionHigh; e += step {
		a := DayFraction(e, TransitionLow, TransitionHigh)
		if a < prev {
			t.Fatalf("DayFraction decreased at %.2f: %v < %v", e, a, prev)
		}
		if a-prev > step/(TransitionHigh-TransitionLow)+1e-9 {
			t.Fatalf("DayFraction jumped at %.2f: %v -> %v", e, prev, a)
		}
		prev = a
	}
}

func TestStatic_Validate(t *testing.T) {
	tests := []struct {
		name    string
		model   *Static
		wantErr bool
	}{
		{"defaults", NewStatic(DefaultDayTemperature, DefaultNightTemperature), false},
		{"min_bound", NewStatic(1000, 1000), false},
		{"max_is_exclusive", NewStatic(10000, 3700), true},
		{"too_cold", NewStatic(5500, 999), true},
		{"inverted_thresholds", &Static{Day: 5500, Night: 3700, Low: 3, High: -6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPeriod_String(t *testing.T) {
	if PeriodNight.String() != "Night" || PeriodTransition.String() != "Transition" || PeriodDay.String() != "Daytime" {
		t.Error("unexpected period names")
	}
	if Period(42).String() != "unknown" {
		t.Errorf("Period(42).String() = %q, want unknown", Period(42).String())
	}
}
