package provider

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"marketscanner-backtest/internal/model"
)

// LoadCSV reads a series from a date,open,high,low,close,volume file.
// Dates accept both date-only and date+time keys. Used by cmd/backtest for
// runs against exported data without a bar database.
func LoadCSV(path, symbol string, tfMinutes int) (model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Series{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return model.Series{}, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return model.Series{}, fmt.Errorf("csv %s: no data rows", path)
	}

	bars := make([]model.Bar, 0, len(rows)-1)
	for i, row := range rows[1:] { // skip header
		if len(row) < 6 {
			return model.Series{}, fmt.Errorf("csv %s row %d: want 6 columns, got %d", path, i+2, len(row))
		}

		ts, err := parseBarKey(row[0])
		if err != nil {
			return model.Series{}, fmt.Errorf("csv %s row %d: %w", path, i+2, err)
		}

		vals := make([]float64, 5)
		for j := 0; j < 5; j++ {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return model.Series{}, fmt.Errorf("csv %s row %d col %d: %w", path, i+2, j+2, err)
			}
			vals[j] = v
		}

		bars = append(bars, model.Bar{
			TS: ts, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4],
		})
	}

	return model.Series{
		Symbol: symbol,
		Bars:   bars,
		Meta: model.SeriesMeta{
			Source:            "csv",
			ResolutionMinutes: tfMinutes,
			VolumeUnavailable: allZeroVolume(bars),
			CloseType:         "raw",
		},
	}, nil
}

func parseBarKey(s string) (time.Time, error) {
	if t, err := time.Parse(model.DateTimeLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
