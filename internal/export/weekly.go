// Package export writes weekly progression snapshots as parquet files for
// offline analysis.
package export

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/2beens/gymprogress/internal/progression/aggregator"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

const writerParallelism = 4

type weeklyReader interface {
	ListWeeks(ctx context.Context, weekIDs []string) ([]aggregator.WeeklyProgression, error)
}

type WeeklyRow struct {
	UserID          int64   `parquet:"name=user_id, type=INT64"`
	WeekID          string  `parquet:"name=week_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	XP              int64   `parquet:"name=xp, type=INT64"`
	Workouts        int32   `parquet:"name=workouts, type=INT32"`
	VolumeKg        float64 `parquet:"name=volume_kg, type=DOUBLE"`
	PersonalRecords int32   `parquet:"name=personal_records, type=INT32"`
	ActiveDays      int32   `parquet:"name=active_days, type=INT32"`
	GymCode         *string `parquet:"name=gym_code, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	UpdatedAtMillis int64   `parquet:"name=updated_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

func toRow(w aggregator.WeeklyProgression) WeeklyRow {
	return WeeklyRow{
		UserID:          w.UserID,
		WeekID:          w.WeekID,
		XP:              w.XP,
		Workouts:        int32(w.Workouts),
		VolumeKg:        w.VolumeKg,
		PersonalRecords: int32(w.PersonalRecords),
		ActiveDays:      int32(w.ActiveDays),
		GymCode:         w.GymCode,
		UpdatedAtMillis: w.UpdatedAt.UnixMilli(),
	}
}

type Exporter struct {
	weekly weeklyReader
}

func NewExporter(weekly weeklyReader) *Exporter {
	return &Exporter{
		weekly: weekly,
	}
}

// WriteFile exports the rows of the given weeks to a local parquet file.
func (e *Exporter) WriteFile(ctx context.Context, weekIDs []string, path string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "export.writefile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := e.weekly.ListWeeks(ctx, weekIDs)
	if err != nil {
		return 0, fmt.Errorf("list weekly rows: %w", err)
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(fw, rows); err != nil {
		_ = fw.Close()
		return 0, err
	}
	if err := fw.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", path, err)
	}

	log.Infof("exported %d weekly rows of %v to %s", len(rows), weekIDs, path)
	return len(rows), nil
}

// Marshal encodes the rows as an in-memory parquet file.
func Marshal(rows []aggregator.WeeklyProgression) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	if err := write(fw, rows); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func write(fw source.ParquetFile, rows []aggregator.WeeklyProgression) error {
	pw, err := writer.NewParquetWriter(fw, new(WeeklyRow), writerParallelism)
	if err != nil {
		return fmt.Errorf("parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		if err := pw.Write(toRow(r)); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("write user %d: %w", r.UserID, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finish parquet file: %w", err)
	}
	return nil
}
