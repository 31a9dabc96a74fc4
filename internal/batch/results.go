package batch

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/mstgis/radio-coverage/internal/naming"
)

const resultsSheet = "Results"

// Result is one computed profile. Field order defines the column
// order of the exported table.
type Result struct {
	Index             int      `csv:"index"`
	TxID              string   `csv:"tx_id"`
	Azimuth           float64  `csv:"azimuth"`
	DistanceRing      *float64 `csv:"distance_ring"`
	DistanceKm        float64  `csv:"distance_km"`
	NumDistancePoints int      `csv:"num_distance_points"`
	FrequencyGHz      float64  `csv:"frequency_ghz"`
	TimePercentage    int      `csv:"time_percentage"`
	Polarization      int      `csv:"polarization"`
	TxAntennaHeightM  float64  `csv:"antenna_height_tx_m"`
	RxAntennaHeightM  float64  `csv:"antenna_height_rx_m"`
	TxLat             float64  `csv:"tx_lat"`
	TxLon             float64  `csv:"tx_lon"`
	RxLat             float64  `csv:"rx_lat"`
	RxLon             float64  `csv:"rx_lon"`
	Lb                float64  `csv:"Lb"`
	Ep                float64  `csv:"Ep"`
	ElapsedS          float64  `csv:"elapsed_s"`
}

// Summary aggregates a batch run for reporting.
type Summary struct {
	Processed     int
	Skipped       int
	TotalElapsedS float64
	MeanElapsedS  float64
	LbMin         float64
	LbMean        float64
	LbMax         float64
	EpMean        float64
}

func summarize(results []Result, skipped []Skip) Summary {
	s := Summary{Processed: len(results), Skipped: len(skipped)}
	if len(results) == 0 {
		return s
	}

	lb := make([]float64, len(results))
	ep := make([]float64, len(results))
	for i, r := range results {
		lb[i] = r.Lb
		ep[i] = r.Ep
		s.TotalElapsedS += r.ElapsedS
	}

	s.MeanElapsedS = s.TotalElapsedS / float64(len(results))
	s.LbMean = stat.Mean(lb, nil)
	s.EpMean = stat.Mean(ep, nil)
	s.LbMin, s.LbMax = math.Inf(1), math.Inf(-1)
	for _, v := range lb {
		s.LbMin = math.Min(s.LbMin, v)
		s.LbMax = math.Max(s.LbMax, v)
	}

	return s
}

// OutputMetadata derives the metadata tokens for the results files
// from the input profile filename. When the input name does not match
// the smart-name layout, fresh metadata is generated instead of
// failing: current timestamp, hash of the result rows and zero
// azimuth/distance placeholder tokens.
func OutputMetadata(inputPath string, results []Result) naming.Metadata {
	if _, meta, err := naming.Parse(filepath.Base(inputPath)); err == nil {
		return meta
	}

	meta := naming.Metadata{
		TxID:      "TX0",
		Profiles:  len(results),
		Timestamp: time.Now(),
		Hash:      naming.HashBytes(resultsDigest(results)),
	}
	if len(results) > 0 {
		meta.TxID = results[0].TxID
	}
	return meta
}

func resultsDigest(results []Result) []byte {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%d;%s;%g;%g;%g\n", r.Index, r.TxID, r.Azimuth, r.Lb, r.Ep)
	}
	return []byte(b.String())
}

// WriteCSV writes the results table to dir as a comma-delimited CSV
// named after meta. A run with zero results still writes the header
// row. Returns the written path.
func WriteCSV(results []Result, dir string, meta naming.Metadata) (string, error) {
	path := filepath.Join(dir, meta.Filename(naming.KindResults, "csv"))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating results CSV: %w", err)
	}

	if err := encodeCSV(f, results); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing results CSV: %w", err)
	}
	return path, nil
}

func encodeCSV(f *os.File, results []Result) error {
	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)

	if err := enc.EncodeHeader(Result{}); err != nil {
		return fmt.Errorf("writing results header: %w", err)
	}
	for i := range results {
		if err := enc.Encode(&results[i]); err != nil {
			return fmt.Errorf("writing result %d: %w", results[i].Index, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing results CSV: %w", err)
	}
	return nil
}

// WriteXLSX writes the same results table as a single-sheet
// spreadsheet with auto-sized columns. Returns the written path.
func WriteXLSX(results []Result, dir string, meta naming.Metadata) (string, error) {
	path := filepath.Join(dir, meta.Filename(naming.KindResults, "xlsx"))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return "", fmt.Errorf("naming results sheet: %w", err)
	}

	rows := make([][]any, 0, len(results)+1)
	rows = append(rows, headerCells())
	for i := range results {
		rows = append(rows, resultCells(&results[i]))
	}

	widths := make([]int, len(rows[0]))
	for rowIdx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
		if err != nil {
			return "", fmt.Errorf("addressing row %d: %w", rowIdx+1, err)
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return "", fmt.Errorf("writing row %d: %w", rowIdx+1, err)
		}

		for colIdx, v := range row {
			if l := len(fmt.Sprint(v)); l > widths[colIdx] {
				widths[colIdx] = l
			}
		}
	}

	for colIdx, width := range widths {
		col, err := excelize.ColumnNumberToName(colIdx + 1)
		if err != nil {
			return "", fmt.Errorf("addressing column %d: %w", colIdx+1, err)
		}
		if err := f.SetColWidth(resultsSheet, col, col, math.Min(float64(width+2), 50)); err != nil {
			return "", fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving results spreadsheet: %w", err)
	}
	return path, nil
}

func headerCells() []any {
	return []any{
		"index", "tx_id", "azimuth", "distance_ring", "distance_km",
		"num_distance_points", "frequency_ghz", "time_percentage",
		"polarization", "antenna_height_tx_m", "antenna_height_rx_m",
		"tx_lat", "tx_lon", "rx_lat", "rx_lon", "Lb", "Ep", "elapsed_s",
	}
}

func resultCells(r *Result) []any {
	var ring any
	if r.DistanceRing != nil {
		ring = *r.DistanceRing
	}

	return []any{
		r.Index, r.TxID, r.Azimuth, ring, r.DistanceKm,
		r.NumDistancePoints, r.FrequencyGHz, r.TimePercentage,
		r.Polarization, r.TxAntennaHeightM, r.RxAntennaHeightM,
		r.TxLat, r.TxLon, r.RxLat, r.RxLon, r.Lb, r.Ep, r.ElapsedS,
	}
}
