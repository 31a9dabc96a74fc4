package profile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"
)

// ReadPoints loads an enriched receiver points table from a
// comma-delimited CSV produced by the extraction stage. Columns are
// matched by header name (see the csv tags on Point).
func ReadPoints(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening points file: %w", err)
	}
	defer f.Close()

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("reading points header: %w", err)
	}

	var points []Point
	for {
		var p Point
		if err := dec.Decode(&p); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding point %d: %w", len(points)+1, err)
		}
		points = append(points, p)
	}

	return points, nil
}
