package storage

import "time"

// Run is one recorded batch invocation: which profile file was
// processed, with which model, and how it went.
type Run struct {
	ID             int64
	CreatedAt      time.Time
	InputFile      string
	Model          string
	Processed      int
	Skipped        int
	FrequencyGHz   *float64
	TimePercentage *int
	Polarization   *int
}
