package repository

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"tidegauge-server/internal/modules/tide/types"
)

//go:embed sql/insert-fetch.sql
var insertFetchSQL string

//go:embed sql/get-recent-fetches.sql
var getRecentFetchesSQL string

//go:embed sql/get-fetches-for-day.sql
var getFetchesForDaySQL string

// FetchLogRepository stores one row per upstream fetch. Sensor readings
// themselves are never persisted.
type FetchLogRepository interface {
	InsertFetch(rec types.FetchRecord) (int64, error)
	GetRecentFetches(limit int) ([]types.FetchRecord, error)
	GetFetchesForDay(day string, limit int) ([]types.FetchRecord, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) FetchLogRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) InsertFetch(rec types.FetchRecord) (int64, error) {
	var httpStatus any
	if rec.HTTPStatus != 0 {
		httpStatus = rec.HTTPStatus
	}
	var errText any
	if rec.Error != "" {
		errText = rec.Error
	}

	res, err := r.db.Exec(insertFetchSQL,
		rec.Day,
		formatTime(rec.WindowStart),
		formatTime(rec.WindowEnd),
		rec.QueryGT,
		rec.QueryLT,
		rec.Outcome,
		httpStatus,
		rec.Points,
		rec.DurationMs,
		errText,
		formatTime(rec.FetchedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert fetch: %w", err)
	}
	return res.LastInsertId()
}

func (r *repositoryImpl) GetRecentFetches(limit int) ([]types.FetchRecord, error) {
	rows, err := r.db.Query(getRecentFetchesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close recent fetches rows", "error", err)
		}
	}()
	return scanFetches(rows)
}

func (r *repositoryImpl) GetFetchesForDay(day string, limit int) ([]types.FetchRecord, error) {
	rows, err := r.db.Query(getFetchesForDaySQL, day, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close day fetches rows", "error", err)
		}
	}()
	return scanFetches(rows)
}

func scanFetches(rows *sql.Rows) ([]types.FetchRecord, error) {
	out := []types.FetchRecord{}
	for rows.Next() {
		var (
			rec                   types.FetchRecord
			start, end, fetchedAt string
			httpStatus            sql.NullInt64
			errText               sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.Day, &start, &end, &rec.QueryGT, &rec.QueryLT,
			&rec.Outcome, &httpStatus, &rec.Points, &rec.DurationMs, &errText, &fetchedAt,
		); err != nil {
			return nil, err
		}
		var err error
		if rec.WindowStart, err = parseTime(start); err != nil {
			return nil, err
		}
		if rec.WindowEnd, err = parseTime(end); err != nil {
			return nil, err
		}
		if rec.FetchedAt, err = parseTime(fetchedAt); err != nil {
			return nil, err
		}
		rec.HTTPStatus = int(httpStatus.Int64)
		rec.Error = errText.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// timeLayout is fixed width so text ordering in SQLite matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
