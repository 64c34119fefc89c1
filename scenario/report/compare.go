package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/scenfire/scenfire/scenario"
)

// BinRow is one row of a target-versus-selected histogram comparison, with
// bounds in magnitude units. It is the input a plotting tool needs.
type BinRow struct {
	Lower           float64 `yaml:"lower"`
	Upper           float64 `yaml:"upper"`
	TargetDensity   float64 `yaml:"target_density"`
	SelectedDensity float64 `yaml:"selected_density"`
}

var comparisonColumns = []string{"bin", "lower", "upper", "target_density", "selected_density"}

// CompareHistograms pairs the target density with a selected density over
// the same bins.
func CompareHistograms(target *scenario.Histogram, selected []float64) ([]BinRow, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target histogram", scenario.ErrInvalidInput)
	}
	if len(selected) != len(target.Density) {
		return nil, fmt.Errorf("%w: target has %d bins, selected has %d", scenario.ErrShapeMismatch, len(target.Density), len(selected))
	}
	bounds := target.Bins.Bounds()
	rows := make([]BinRow, len(selected))
	for i := range rows {
		rows[i] = BinRow{
			Lower:           bounds[i],
			Upper:           bounds[i+1],
			TargetDensity:   target.Density[i],
			SelectedDensity: selected[i],
		}
	}
	return rows, nil
}

// WriteComparisonCSV writes comparison rows as CSV.
func WriteComparisonCSV(w io.Writer, rows []BinRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(comparisonColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range rows {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(r.Lower, 'g', -1, 64),
			strconv.FormatFloat(r.Upper, 'g', -1, 64),
			strconv.FormatFloat(r.TargetDensity, 'g', -1, 64),
			strconv.FormatFloat(r.SelectedDensity, 'g', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
