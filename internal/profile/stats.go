package profile

import "github.com/mstgis/radio-coverage/internal/propagation"

// Stats summarizes the rows of a loaded profile file before any of
// them is processed, so an operator can see upfront how much of the
// file is usable.
type Stats struct {
	Rows      int // data rows in the file
	Usable    int // rows with enough points for the model
	Short     int // rows that will be skipped for insufficient points
	Malformed int // rows the decoder will reject
	MinPoints int // smallest point count across well-formed rows
	MaxPoints int // largest point count across well-formed rows
}

// FileStats scans raw profile rows and classifies each by field count
// and distance-array length. It never fails; malformed rows are
// counted, not rejected.
func FileStats(rows [][]string) Stats {
	s := Stats{Rows: len(rows)}

	for _, row := range rows {
		if len(row) < fieldCount {
			s.Malformed++
			continue
		}

		elems, err := splitList("d", row[2])
		if err != nil {
			s.Malformed++
			continue
		}

		n := len(elems)
		if s.MinPoints == 0 || n < s.MinPoints {
			s.MinPoints = n
		}
		if n > s.MaxPoints {
			s.MaxPoints = n
		}

		if n < propagation.MinProfilePoints {
			s.Short++
		} else {
			s.Usable++
		}
	}

	return s
}
