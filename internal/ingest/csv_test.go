package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseTransactionsCSV(t *testing.T) {
	csv := `date,description,amount
2026-07-01,Starbucks Coffee,8.50
2026-07-02,"Whole Foods, Market",120.00
2026-07-03,Refund,-30.25
`
	result, err := ParseTransactionsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseTransactionsCSV() error = %v", err)
	}

	if len(result.Transactions) != 3 {
		t.Fatalf("got %d transactions, want 3", len(result.Transactions))
	}
	first := result.Transactions[0]
	if first.Description != "Starbucks Coffee" {
		t.Errorf("description = %q", first.Description)
	}
	if first.Amount != 8.50 {
		t.Errorf("amount = %v, want 8.50", first.Amount)
	}
	if !first.Date.Equal(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", first.Date)
	}
	if result.Transactions[2].Amount != -30.25 {
		t.Errorf("refund amount = %v, want -30.25", result.Transactions[2].Amount)
	}
}

func TestParseTransactionsCSV_ColumnOrderAndExtras(t *testing.T) {
	csv := `amount,category,Description,DATE
42.00,ignored,Uber ride,2026-07-04
`
	result, err := ParseTransactionsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseTransactionsCSV() error = %v", err)
	}
	if len(result.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(result.Transactions))
	}
	if result.Transactions[0].Description != "Uber ride" {
		t.Errorf("description = %q", result.Transactions[0].Description)
	}
	if result.Transactions[0].Amount != 42 {
		t.Errorf("amount = %v, want 42", result.Transactions[0].Amount)
	}
}

func TestParseTransactionsCSV_CurrencyFormatting(t *testing.T) {
	csv := `date,description,amount
2026-07-01,Rent - July,"$1,500.00"
`
	result, err := ParseTransactionsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseTransactionsCSV() error = %v", err)
	}
	if result.Transactions[0].Amount != 1500 {
		t.Errorf("amount = %v, want 1500", result.Transactions[0].Amount)
	}
}

func TestParseTransactionsCSV_SkipsBadRows(t *testing.T) {
	csv := `date,description,amount
2026-07-01,Good Row,10
not-a-date,Bad Date,10
2026-07-03,Bad Amount,abc
2026-07-04,Missing Amount,
`
	result, err := ParseTransactionsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseTransactionsCSV() error = %v", err)
	}

	if len(result.Transactions) != 1 {
		t.Errorf("got %d transactions, want 1", len(result.Transactions))
	}
	if len(result.Skipped) != 3 {
		t.Fatalf("skipped %d rows, want 3", len(result.Skipped))
	}
	if result.Skipped[0].Line != 3 {
		t.Errorf("first skipped line = %d, want 3", result.Skipped[0].Line)
	}
}

func TestParseTransactionsCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
	}{
		{
			name:    "missing required column",
			csv:     "date,amount\n2026-07-01,10\n",
			wantErr: ErrMissingColumns,
		},
		{
			name:    "empty file",
			csv:     "",
			wantErr: ErrNoValidRows,
		},
		{
			name:    "header only",
			csv:     "date,description,amount\n",
			wantErr: ErrNoValidRows,
		},
		{
			name:    "all rows invalid",
			csv:     "date,description,amount\nbad,Row,abc\n",
			wantErr: ErrNoValidRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTransactionsCSV(strings.NewReader(tt.csv))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
