package market

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// barRow is the on-disk layout of a daily bar.
type barRow struct {
	Date   string  `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
	VWAP   float64 `csv:"vwap"`
	Trades int     `csv:"trades"`
}

// WriteBarsCSV writes the series with a header row.
func WriteBarsCSV(w io.Writer, s Series) error {
	rows := make([]*barRow, 0, len(s))
	for _, b := range s {
		rows = append(rows, &barRow{
			Date:   b.Time.UTC().Format(DateLayout),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
			VWAP:   b.VWAP,
			Trades: b.Trades,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write bars csv: %w", err)
	}
	return nil
}

// requiredColumns must appear in the header of a bar CSV.
var requiredColumns = []string{"date", "close"}

// ReadBarsCSV reads bars written by WriteBarsCSV. Only the date and close
// columns are required; the rest default to zero.
func ReadBarsCSV(r io.Reader) (Series, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read bars csv: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, fmt.Errorf("read bars csv: %w", err)
	}

	var rows []*barRow
	if err := gocsv.Unmarshal(io.MultiReader(strings.NewReader(header), br), &rows); err != nil {
		return nil, fmt.Errorf("read bars csv: %w", err)
	}

	s := make(Series, 0, len(rows))
	for i, row := range rows {
		t, err := ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		s = append(s, Bar{
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
			VWAP:   row.VWAP,
			Trades: row.Trades,
			Time:   t,
		})
	}
	return s, nil
}

func checkHeader(line string) error {
	cols, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))] = true
	}
	for _, c := range requiredColumns {
		if !have[c] {
			return fmt.Errorf("missing %q column", c)
		}
	}
	return nil
}
