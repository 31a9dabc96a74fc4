package profile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoProfileFile is returned by LoadLatest when the directory holds
// no profile file. Callers treat it as a reportable empty-input
// condition, not a crash.
var ErrNoProfileFile = errors.New("no profile file found")

// LoadLatest finds the most recently modified profile file in dir and
// returns its data rows (header excluded) along with the file path.
func LoadLatest(dir string) (rows [][]string, path string, err error) {
	matches, err := filepath.Glob(filepath.Join(dir, "profiles_*.csv"))
	if err != nil {
		return nil, "", fmt.Errorf("scanning %s: %w", dir, err)
	}

	var latest string
	var latestMod int64
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if mod := info.ModTime().UnixNano(); latest == "" || mod > latestMod {
			latest, latestMod = m, mod
		}
	}
	if latest == "" {
		return nil, "", fmt.Errorf("%w in %s", ErrNoProfileFile, dir)
	}

	f, err := os.Open(latest)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", latest, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1 // trailing metadata columns are optional

	records, err := r.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", latest, err)
	}
	if len(records) <= 1 {
		return nil, latest, nil
	}

	return records[1:], latest, nil
}
