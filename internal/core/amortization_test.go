package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestAmortizePayoff(t *testing.T) {
	tests := []struct {
		name         string
		balance      float64
		payment      float64
		monthlyRate  float64
		wantMonths   int
		wantInterest float64
		wantInfinite bool
	}{
		{
			name:         "zero rate divides evenly",
			balance:      1200,
			payment:      100,
			monthlyRate:  0,
			wantMonths:   12,
			wantInterest: 0,
		},
		{
			name:         "zero rate rounds partial month up",
			balance:      1250,
			payment:      100,
			monthlyRate:  0,
			wantMonths:   13,
			wantInterest: 0,
		},
		{
			name:         "standard credit card payoff",
			balance:      5000,
			payment:      250,
			monthlyRate:  0.20 / 12,
			wantMonths:   25,
			wantInterest: 1250,
		},
		{
			name:         "payment equals accruing interest",
			balance:      5000,
			payment:      100,
			monthlyRate:  0.02,
			wantInfinite: true,
		},
		{
			name:         "payment below accruing interest",
			balance:      10000,
			payment:      50,
			monthlyRate:  0.015,
			wantInfinite: true,
		},
		{
			name:         "zero payment",
			balance:      1000,
			payment:      0,
			monthlyRate:  0.01,
			wantInfinite: true,
		},
		{
			name:         "negative payment",
			balance:      1000,
			payment:      -50,
			monthlyRate:  0.01,
			wantInfinite: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmortizePayoff(tt.balance, tt.payment, tt.monthlyRate)

			if got.Unbounded() != tt.wantInfinite {
				t.Fatalf("Unbounded() = %v, want %v", got.Unbounded(), tt.wantInfinite)
			}
			if tt.wantInfinite {
				if got.TotalInterest != 0 {
					t.Errorf("TotalInterest = %v, want 0 for unbounded payoff", got.TotalInterest)
				}
				return
			}
			if got.Term.Count() != tt.wantMonths {
				t.Errorf("Term = %d months, want %d", got.Term.Count(), tt.wantMonths)
			}
			if math.Abs(got.TotalInterest-tt.wantInterest) > 0.01 {
				t.Errorf("TotalInterest = %v, want %v", got.TotalInterest, tt.wantInterest)
			}
		})
	}
}

func TestAmortizePayoff_InterestNeverNegative(t *testing.T) {
	// A payment large enough to clear the balance in one month must not
	// report negative interest.
	got := AmortizePayoff(100, 5000, 0.01)
	if got.Unbounded() {
		t.Fatal("expected bounded payoff")
	}
	if got.TotalInterest < 0 {
		t.Errorf("TotalInterest = %v, want >= 0", got.TotalInterest)
	}
}

func TestMonths_JSON(t *testing.T) {
	tests := []struct {
		name   string
		months Months
		want   string
	}{
		{"bounded", MonthsOf(24), "24"},
		{"zero", MonthsOf(0), "0"},
		{"unbounded", UnboundedMonths(), `"infinite"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.months)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}

			var back Months
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if back != tt.months {
				t.Errorf("round trip = %+v, want %+v", back, tt.months)
			}
		})
	}
}
