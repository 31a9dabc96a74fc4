// Package naming implements the smart-filename convention shared by the
// profile exporter and the batch processor. Counts, maximum distance,
// a version timestamp and a short content hash are embedded into the
// filename itself, so a downstream stage can label its own artifacts
// without re-reading the file:
//
//	profiles_{tx_id}_{N}p_{M}az_{D}km_v{YYYYMMDD}_{HHMMSS}_{hash8}.csv
//	results_{tx_id}_{N}p_{M}az_{D}km_v{YYYYMMDD}_{HHMMSS}_{hash8}.xlsx
//
// The token layout is a wire contract, not cosmetics. Parse is the
// inverse of Metadata.Filename for every name the exporter can emit.
package naming

import (
	"crypto/md5"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// KindProfiles prefixes files produced by the profile formatter.
	KindProfiles = "profiles"

	// KindResults prefixes files produced by the batch processor.
	KindResults = "results"

	timestampLayout = "20060102_150405"
)

// Metadata is the set of tokens embedded into a smart filename.
type Metadata struct {
	TxID       string    // Transmitter identifier, may contain underscores
	Profiles   int       // Number of profile/result rows
	Azimuths   int       // Number of distinct azimuths
	DistanceKm int       // Largest distance value, rounded to whole km
	Timestamp  time.Time // Export time, second resolution
	Hash       string    // 8 hex chars of the content hash
}

// filenameRe anchors the fixed trailing tokens so that transmitter
// identifiers containing underscores (e.g. TX_0001) parse correctly.
var filenameRe = regexp.MustCompile(
	`^(profiles|results)_(.+)_(\d+)p_(\d+)az_(\d+)km_v(\d{8}_\d{6})_([0-9a-f]{8})\.([A-Za-z0-9]+)$`)

// Filename renders the metadata as a smart filename of the given kind
// (KindProfiles or KindResults) and extension (without a leading dot).
func (m Metadata) Filename(kind, ext string) string {
	return fmt.Sprintf("%s_%s_%dp_%daz_%dkm_v%s_%s.%s",
		kind, m.TxID, m.Profiles, m.Azimuths, m.DistanceKm,
		m.Timestamp.Format(timestampLayout), m.Hash, ext)
}

// Parse decodes a smart filename back into its metadata tokens. It
// returns the kind of the file along with the metadata, and an error
// if the name does not match the token layout.
func Parse(name string) (kind string, m Metadata, err error) {
	groups := filenameRe.FindStringSubmatch(name)
	if groups == nil {
		return "", Metadata{}, fmt.Errorf("filename %q does not match the smart-name layout", name)
	}

	m.TxID = groups[2]
	if m.Profiles, err = strconv.Atoi(groups[3]); err != nil {
		return "", Metadata{}, fmt.Errorf("parsing profile count: %w", err)
	}
	if m.Azimuths, err = strconv.Atoi(groups[4]); err != nil {
		return "", Metadata{}, fmt.Errorf("parsing azimuth count: %w", err)
	}
	if m.DistanceKm, err = strconv.Atoi(groups[5]); err != nil {
		return "", Metadata{}, fmt.Errorf("parsing distance: %w", err)
	}
	if m.Timestamp, err = time.ParseInLocation(timestampLayout, groups[6], time.Local); err != nil {
		return "", Metadata{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	m.Hash = groups[7]

	return groups[1], m, nil
}

// HashBytes returns the 8-hex-character content hash used in smart
// filenames.
func HashBytes(b []byte) string {
	return fmt.Sprintf("%x", md5.Sum(b))[:8]
}
