package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// Header is the column layout of a serialized profile file. The reader
// is positional for fields 0-14; the header row is written for human
// consumption only. Columns 15 (distance_ring) and 16 (tx_id) are
// trailing metadata the reader tolerates missing.
var Header = []string{
	"f", "p", "d", "h", "R", "Ct", "zone", "htg", "hrg", "pol",
	"phi_t", "phi_r", "lam_t", "lam_r", "azimuth", "distance_ring", "tx_id",
}

// fieldCount is the number of mandatory literal-encoded fields (0-14).
const fieldCount = 15

// SerializeRow renders a profile as the 17 literal-encoded fields of
// its CSV row. Decoding a serialized row reproduces every numeric
// value exactly; floats are written in shortest round-trip form.
func SerializeRow(p *Profile) []string {
	return []string{
		formatFloat(p.FrequencyGHz),
		strconv.Itoa(p.TimePercentage),
		formatFloatList(p.Distances),
		formatFloatList(p.Heights),
		formatFloatList(p.Resistances),
		formatIntList(p.Clutter),
		formatIntList(p.Zones),
		formatFloat(p.TxHeightM),
		formatFloat(p.RxHeightM),
		strconv.Itoa(p.Polarization),
		formatFloat(p.TxLat),
		formatFloat(p.RxLat),
		formatFloat(p.TxLon),
		formatFloat(p.RxLon),
		formatFloat(p.AzimuthDeg),
		formatFloat(p.RingKm),
		p.TxID,
	}
}

// DecodeRow parses a serialized profile row into the model's ordered
// parameter set plus trailing metadata. Fields 0-14 are mandatory and
// positional; a malformed literal or ragged parallel arrays fail the
// decode. The tx_id column falls back to defaultTxID when absent,
// empty or the literal string "None".
func DecodeRow(fields []string, defaultTxID string) (*Decoded, error) {
	if len(fields) < fieldCount {
		return nil, fmt.Errorf("profile row has %d fields, need at least %d", len(fields), fieldCount)
	}

	var d Decoded
	var err error

	scalars := []struct {
		name string
		dst  *float64
	}{
		{"f", &d.Params.FrequencyGHz},
		{"p", &d.Params.TimePercentage},
		{"htg", &d.Params.TxHeightM},
		{"hrg", &d.Params.RxHeightM},
		{"phi_t", &d.Params.TxLat},
		{"phi_r", &d.Params.RxLat},
		{"lam_t", &d.Params.TxLon},
		{"lam_r", &d.Params.RxLon},
		{"azimuth", &d.AzimuthDeg},
	}
	indices := []int{0, 1, 7, 8, 10, 11, 12, 13, 14}
	for i, s := range scalars {
		if *s.dst, err = parseFloatField(s.name, fields[indices[i]]); err != nil {
			return nil, err
		}
	}

	if d.Params.Distances, err = parseFloatListField("d", fields[2]); err != nil {
		return nil, err
	}
	if d.Params.Heights, err = parseFloatListField("h", fields[3]); err != nil {
		return nil, err
	}
	if d.Params.Resistances, err = parseFloatListField("R", fields[4]); err != nil {
		return nil, err
	}
	if d.Params.Clutter, err = parseIntListField("Ct", fields[5]); err != nil {
		return nil, err
	}
	if d.Params.Zones, err = parseIntListField("zone", fields[6]); err != nil {
		return nil, err
	}

	pol, err := parseFloatField("pol", fields[9])
	if err != nil {
		return nil, err
	}
	d.Params.Polarization = int(pol)

	n := len(d.Params.Distances)
	if len(d.Params.Heights) != n || len(d.Params.Resistances) != n ||
		len(d.Params.Clutter) != n || len(d.Params.Zones) != n {
		return nil, fmt.Errorf("profile arrays are not parallel: d=%d h=%d R=%d Ct=%d zone=%d",
			n, len(d.Params.Heights), len(d.Params.Resistances), len(d.Params.Clutter), len(d.Params.Zones))
	}

	// Trailing metadata, tolerated missing.
	if len(fields) > 15 && strings.TrimSpace(fields[15]) != "" {
		if ring, err := strconv.ParseFloat(strings.TrimSpace(fields[15]), 64); err == nil {
			d.RingKm = &ring
		}
	}

	d.TxID = defaultTxID
	if len(fields) > 16 {
		if txID := strings.TrimSpace(fields[16]); txID != "" && txID != "None" {
			d.TxID = txID
		}
	}

	return &d, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatFloatList renders a Python-style list literal, the format the
// reference pipeline wrote and its parser consumed.
func formatFloatList(values []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatFloat(v))
	}
	b.WriteByte(']')
	return b.String()
}

func formatIntList(values []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte(']')
	return b.String()
}

func parseFloatField(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: malformed literal %q", name, s)
	}
	return v, nil
}

// splitList splits a bracketed list literal into its raw elements.
func splitList(name, s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("field %s: malformed list literal %q", name, s)
	}

	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, nil
	}
	return strings.Split(inner, ","), nil
}

func parseFloatListField(name, s string) ([]float64, error) {
	parts, err := splitList(name, s)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(parts))
	for i, p := range parts {
		if values[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return nil, fmt.Errorf("field %s: malformed list element %q", name, strings.TrimSpace(p))
		}
	}
	return values, nil
}

func parseIntListField(name, s string) ([]int, error) {
	parts, err := splitList(name, s)
	if err != nil {
		return nil, err
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		// Elements may be written as floats (e.g. "2.0"); truncate the
		// way the reference parser did.
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("field %s: malformed list element %q", name, strings.TrimSpace(p))
		}
		values[i] = int(f)
	}
	return values, nil
}
