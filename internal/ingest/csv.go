// Package ingest parses uploaded transaction files into domain
// transactions.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finadvisor/internal/core"
)

var (
	// ErrMissingColumns reports a CSV header without the required columns.
	ErrMissingColumns = errors.New("csv must contain columns: date, description, amount")

	// ErrNoValidRows reports a file with no parseable transaction rows.
	ErrNoValidRows = errors.New("no valid transactions found in file")
)

// requiredColumns, matched case-insensitively against the header row.
var requiredColumns = []string{"date", "description", "amount"}

// dateLayouts accepted for the date column, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// SkippedRow describes one CSV row that could not be converted.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is the outcome of parsing one CSV upload.
type Result struct {
	Transactions []core.Transaction
	Skipped      []SkippedRow
}

// ParseTransactionsCSV reads a CSV stream with date, description, and
// amount columns into transactions. Column order is free and extra columns
// are ignored. Rows whose date or amount cannot be parsed are skipped with
// a per-line reason; a file where every row fails is ErrNoValidRows.
func ParseTransactionsCSV(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return Result{}, ErrNoValidRows
		}
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return Result{}, err
	}

	var result Result
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRow{Line: line, Reason: "malformed row"})
			continue
		}

		txn, reason := parseRow(record, index)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedRow{Line: line, Reason: reason})
			continue
		}
		result.Transactions = append(result.Transactions, txn)
	}

	if len(result.Transactions) == 0 {
		return result, ErrNoValidRows
	}
	return result, nil
}

// columnIndex maps required column names to their header positions.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(requiredColumns))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, ErrMissingColumns
		}
	}
	return index, nil
}

func parseRow(record []string, index map[string]int) (core.Transaction, string) {
	get := func(col string) (string, bool) {
		i := index[col]
		if i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	rawDate, ok := get("date")
	if !ok || rawDate == "" {
		return core.Transaction{}, "missing date"
	}
	date, err := ParseDate(rawDate)
	if err != nil {
		return core.Transaction{}, fmt.Sprintf("invalid date %q", rawDate)
	}

	rawAmount, ok := get("amount")
	if !ok || rawAmount == "" {
		return core.Transaction{}, "missing amount"
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return core.Transaction{}, fmt.Sprintf("invalid amount %q", rawAmount)
	}

	description, _ := get("description")

	return core.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
	}, ""
}

// ParseDate parses a transaction date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// parseAmount parses a monetary string exactly before converting to a
// float for the analyzer. Currency symbols and thousands separators from
// bank exports are tolerated.
func parseAmount(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
