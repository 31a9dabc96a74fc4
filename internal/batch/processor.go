// Package batch drives the propagation model over every profile of
// the most recent profile file, aggregates results and writes the
// results artifacts. Profiles are processed strictly sequentially:
// per-profile elapsed time is itself a reported metric, and result
// order mirrors input order.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mstgis/radio-coverage/internal/profile"
	"github.com/mstgis/radio-coverage/internal/propagation"
)

// Skip records a profile that was not computed, with its 1-based row
// index and the reason.
type Skip struct {
	Index  int
	Reason string
}

// Outcome is the aggregate of one batch run.
type Outcome struct {
	InputPath string
	Results   []Result
	Skipped   []Skip
	Summary   Summary
}

// Processor runs the model over parsed profiles. Decode errors and
// model errors abort the run; the only recoverable per-profile
// condition is a profile too short for the model, which is skipped
// and reported.
type Processor struct {
	model  propagation.Model
	logger *slog.Logger
}

// NewProcessor creates a processor backed by the given model.
func NewProcessor(model propagation.Model, logger *slog.Logger) *Processor {
	return &Processor{model: model, logger: logger}
}

// Run loads the most recent profile file in profilesDir and processes
// every row. A directory without a profile file is a fatal error; a
// profile file with zero usable rows is a successful run with an
// empty result set.
func (p *Processor) Run(ctx context.Context, profilesDir string) (*Outcome, error) {
	rows, inputPath, err := profile.LoadLatest(profilesDir)
	if err != nil {
		return nil, err
	}

	stats := profile.FileStats(rows)
	p.logger.Info("processing profiles",
		slog.String("input", inputPath),
		slog.Int("rows", stats.Rows),
		slog.Int("usable", stats.Usable),
		slog.Int("short", stats.Short),
		slog.Int("malformed", stats.Malformed),
		slog.Int("minPoints", stats.MinPoints),
		slog.Int("maxPoints", stats.MaxPoints))

	outcome := Outcome{InputPath: inputPath}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		index := i + 1

		decoded, err := profile.DecodeRow(row, profile.UnknownTxID)
		if err != nil {
			return nil, fmt.Errorf("decoding profile %d: %w", index, err)
		}

		numPoints := decoded.Params.NumPoints()
		if numPoints < propagation.MinProfilePoints {
			reason := fmt.Sprintf("insufficient points: %d (need > %d)", numPoints, propagation.MinProfilePoints-1)
			outcome.Skipped = append(outcome.Skipped, Skip{Index: index, Reason: reason})
			p.logger.Warn("skipping profile",
				slog.Int("index", index),
				slog.String("reason", reason))
			continue
		}

		start := time.Now()
		lb, ep, err := p.model.BtLoss(decoded.Params)
		elapsed := time.Since(start)
		if err != nil {
			return nil, fmt.Errorf("computing profile %d (azimuth %.1f): %w", index, decoded.AzimuthDeg, err)
		}

		result := newResult(index, decoded, lb, ep, elapsed)
		outcome.Results = append(outcome.Results, result)

		p.logger.Debug("profile computed",
			slog.Int("index", index),
			slog.String("txID", result.TxID),
			slog.Float64("azimuth", result.Azimuth),
			slog.Float64("distanceKm", result.DistanceKm),
			slog.Float64("lb", lb),
			slog.Float64("ep", ep),
			slog.Duration("elapsed", elapsed))
	}

	outcome.Summary = summarize(outcome.Results, outcome.Skipped)
	return &outcome, nil
}

func newResult(index int, d *profile.Decoded, lb, ep float64, elapsed time.Duration) Result {
	return Result{
		Index:             index,
		TxID:              d.TxID,
		Azimuth:           d.AzimuthDeg,
		DistanceRing:      d.RingKm,
		DistanceKm:        d.Params.PathLengthKm(),
		NumDistancePoints: d.Params.NumPoints(),
		FrequencyGHz:      d.Params.FrequencyGHz,
		TimePercentage:    int(d.Params.TimePercentage),
		Polarization:      d.Params.Polarization,
		TxAntennaHeightM:  d.Params.TxHeightM,
		RxAntennaHeightM:  d.Params.RxHeightM,
		TxLat:             d.Params.TxLat,
		TxLon:             d.Params.TxLon,
		RxLat:             d.Params.RxLat,
		RxLon:             d.Params.RxLon,
		Lb:                lb,
		Ep:                ep,
		ElapsedS:          elapsed.Seconds(),
	}
}
