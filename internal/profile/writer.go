package profile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/mstgis/radio-coverage/internal/naming"
)

// Export serializes profiles to a semicolon-delimited CSV in dir. The
// filename embeds row count, distinct azimuth count, the largest
// distance across all profiles, an export timestamp and an 8-character
// hash of the file body; downstream stages parse these tokens to label
// their own artifacts. Returns the full path of the written file.
func Export(profiles []Profile, dir string) (string, error) {
	if len(profiles) == 0 {
		return "", &ValidationError{Field: "profiles", Value: 0, Reason: "nothing to export"}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(Header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for i := range profiles {
		if err := w.Write(SerializeRow(&profiles[i])); err != nil {
			return "", fmt.Errorf("writing profile %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("serializing profiles: %w", err)
	}

	meta := exportMetadata(profiles)
	meta.Hash = naming.HashBytes(buf.Bytes())
	meta.Timestamp = time.Now()

	path := filepath.Join(dir, meta.Filename(naming.KindProfiles, "csv"))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing profile file: %w", err)
	}

	return path, nil
}

func exportMetadata(profiles []Profile) naming.Metadata {
	azimuths := make(map[float64]struct{})
	var maxDistance float64
	for i := range profiles {
		azimuths[profiles[i].AzimuthDeg] = struct{}{}
		maxDistance = math.Max(maxDistance, profiles[i].MaxDistanceKm())
	}

	return naming.Metadata{
		TxID:       profiles[0].TxID,
		Profiles:   len(profiles),
		Azimuths:   len(azimuths),
		DistanceKm: int(math.Round(maxDistance)),
	}
}
