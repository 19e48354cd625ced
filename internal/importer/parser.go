package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/avandenberg/tally/internal/encoding"
	"github.com/avandenberg/tally/internal/ledger"
)

// colIndex maps lower-cased header names to their position in the row.
type colIndex map[string]int

// readRows decodes the input to UTF-8, sniffs the delimiter, and returns the
// header index plus the data rows.
func readRows(r io.Reader) (colIndex, [][]string, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	head, err := br.Peek(1024)
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("peek header: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(head)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty csv")
	}

	cols := make(colIndex)

	for i, cell := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name != "" {
			cols[name] = i
		}
	}

	return cols, rows[1:], nil
}

// sniffDelimiter picks the field separator from the first line. Exports come
// in both comma- and semicolon-separated flavors.
func sniffDelimiter(head []byte) rune {
	line, _, _ := strings.Cut(string(head), "\n")
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}

	return ','
}

// index returns the position of the first matching column name, or -1.
func (c colIndex) index(names ...string) int {
	for _, name := range names {
		if i, ok := c[name]; ok {
			return i
		}
	}

	return -1
}

func (c colIndex) require(names ...string) error {
	var missing []string

	for _, name := range names {
		if _, ok := c[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

var dateLayouts = []string{"2006-01-02", "02-01-2006", "2006-01-02 15:04:05"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseAmount accepts plain decimal notation ("1234.56") and the European
// form ("1.234,56").
func parseAmount(s string) (decimal.Decimal, error) {
	if d, err := decimal.NewFromString(s); err == nil {
		return d, nil
	}

	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparseable amount %q", s)
	}

	return d, nil
}

func parseStatus(s string) *ledger.MatchStatus {
	if s == "" {
		return nil
	}

	st := ledger.MatchStatus(s)

	return &st
}

func parseMatchID(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
