// Package csvimport parses fill batches from the canonical CSV layout.
// Parsing is tolerant: bad rows are collected as row errors and good
// rows still import.
package csvimport

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"trading-journal/internal/domain"
)

// Columns is the required header, in order.
var Columns = []string{
	"ts", "symbol", "marketType", "side", "qty", "price",
	"fee", "feeType", "orderType", "txRef", "tags",
}

// RowError describes one rejected CSV row.
type RowError struct {
	Line  int    `json:"line"` // 1-based, counting the header
	Field string `json:"field,omitempty"`
	Msg   string `json:"msg"`
}

func (e RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Msg)
}

// Result is the outcome of parsing one CSV document.
type Result struct {
	Fills     []domain.FillInsert `json:"-"`
	RowErrors []RowError          `json:"rowErrors,omitempty"`
}

// Parse reads the whole document, validating the header and every row.
// A malformed header fails the document; a malformed row only fails
// that row.
func Parse(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return Result{}, err
	}

	var res Result
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			res.RowErrors = append(res.RowErrors, RowError{Line: line, Msg: err.Error()})
			continue
		}

		fill, rowErr := parseRow(line, record)
		if rowErr != nil {
			res.RowErrors = append(res.RowErrors, *rowErr)
			continue
		}
		res.Fills = append(res.Fills, fill)
	}

	return res, nil
}

func checkHeader(header []string) error {
	if len(header) != len(Columns) {
		return fmt.Errorf("csv header has %d columns, want %d", len(header), len(Columns))
	}
	for i, want := range Columns {
		if strings.TrimSpace(header[i]) != want {
			return fmt.Errorf("csv header column %d is %q, want %q", i+1, header[i], want)
		}
	}
	return nil
}

func parseRow(line int, record []string) (domain.FillInsert, *RowError) {
	fail := func(field, msg string) (domain.FillInsert, *RowError) {
		return domain.FillInsert{}, &RowError{Line: line, Field: field, Msg: msg}
	}
	if len(record) != len(Columns) {
		return fail("", fmt.Sprintf("row has %d columns, want %d", len(record), len(Columns)))
	}

	ts, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return fail("ts", "not an RFC 3339 timestamp")
	}

	symbol := strings.TrimSpace(record[1])
	if symbol == "" {
		return fail("symbol", "required")
	}

	marketType := domain.MarketType(record[2])
	if !marketType.Valid() {
		return fail("marketType", fmt.Sprintf("unknown value %q", record[2]))
	}

	side := domain.Side(record[3])
	if !side.Valid() {
		return fail("side", fmt.Sprintf("unknown value %q", record[3]))
	}

	qty, err := strconv.ParseFloat(record[4], 64)
	if err != nil || qty <= 0 {
		return fail("qty", "must be a positive number")
	}

	price, err := strconv.ParseFloat(record[5], 64)
	if err != nil || price <= 0 {
		return fail("price", "must be a positive number")
	}

	fee := 0.0
	if record[6] != "" {
		fee, err = strconv.ParseFloat(record[6], 64)
		if err != nil || fee < 0 {
			return fail("fee", "must be a non-negative number")
		}
	}

	feeType := domain.FeeOther
	if record[7] != "" {
		feeType = domain.FeeType(record[7])
		if !feeType.Valid() {
			return fail("feeType", fmt.Sprintf("unknown value %q", record[7]))
		}
	}

	orderType := domain.OrderOther
	if record[8] != "" {
		orderType = domain.OrderType(record[8])
		if !orderType.Valid() {
			return fail("orderType", fmt.Sprintf("unknown value %q", record[8]))
		}
	}

	var tags []string
	if record[10] != "" {
		for _, tag := range strings.Split(record[10], "|") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	return domain.FillInsert{
		Time:       ts,
		Symbol:     symbol,
		MarketType: marketType,
		Side:       side,
		Quantity:   qty,
		Price:      price,
		Fee:        fee,
		FeeType:    feeType,
		OrderType:  orderType,
		TxRef:      strings.TrimSpace(record[9]),
		Tags:       tags,
	}, nil
}

// Template returns a ready-to-edit CSV document with the canonical
// header and one example row.
func Template() string {
	var b strings.Builder
	b.WriteString(strings.Join(Columns, ","))
	b.WriteString("\n")
	b.WriteString("2026-01-15T10:00:00Z,SOL/USDC,perp,long,10,1.50,0.05,taker,market,5KtP3kExampleSig,breakout|a-plus\n")
	return b.String()
}

// FileHash fingerprints a CSV document for import provenance.
func FileHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
