package repository

import (
	"context"
	"time"

	"github.com/tabletop-club/table-scheduler/internal/domain"
)

func (r *Repository) GetScheduleRecord(date string) (*domain.ScheduleRecord, error) {
	query := `
		SELECT day, body, is_open, created_at, updated_at, version
		FROM schedule_records WHERE date = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	record := &domain.ScheduleRecord{
		Date: date,
	}

	dst := []any{&record.Day, &record.Body, &record.IsOpen, &record.CreatedAt, &record.UpdatedAt, &record.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, date).Scan(dst...); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *Repository) GetAllScheduleRecords() ([]*domain.ScheduleRecord, error) {
	query := `
		SELECT date, day, body, is_open, created_at, updated_at, version
		FROM schedule_records ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.ScheduleRecord, 0)
	for rows.Next() {
		record := &domain.ScheduleRecord{}
		dst := []any{&record.Date, &record.Day, &record.Body, &record.IsOpen, &record.CreatedAt, &record.UpdatedAt, &record.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *Repository) CreateScheduleRecord(record *domain.ScheduleRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO schedule_records (date, day, body, is_open)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at, version
	`

	args := []any{record.Date, record.Day, record.Body, record.IsOpen}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&record.CreatedAt, &record.UpdatedAt, &record.Version); err != nil {
		return err
	}

	return nil
}

// UpdateScheduleRecord writes the body back under the optimistic version
// check; sql.ErrNoRows here means the record changed underneath the caller.
func (r *Repository) UpdateScheduleRecord(record *domain.ScheduleRecord) error {
	query := `
		UPDATE schedule_records
		SET
			body = $1,
			is_open = $2,
			updated_at = now(),
			version = version + 1
		WHERE date = $3 AND version = $4
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{record.Body, record.IsOpen, record.Date, record.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&record.UpdatedAt, &record.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteScheduleRecord(date string) error {
	query := `
		DELETE FROM schedule_records WHERE date = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, date)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckScheduleRecordIfExists(date string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM schedule_records WHERE date = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, date).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
