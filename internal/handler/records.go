package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tabletop-club/table-scheduler/internal/calendar"
	"github.com/tabletop-club/table-scheduler/internal/domain"
	"github.com/tabletop-club/table-scheduler/internal/schedule"
)

// A bound record is the persisted text row paired with its parsed schedule.
// Every mutation runs read -> parse -> validate -> mutate -> serialize ->
// write on one of these, under the date's writer lock.
type boundRecord struct {
	record   *domain.ScheduleRecord
	schedule *schedule.Schedule
}

// LifecycleReport lists the dates a lifecycle operation touched, by outcome.
type LifecycleReport struct {
	Opened  []string `json:"opened"`
	Closed  []string `json:"closed"`
	Cleaned []string `json:"cleaned"`
	Skipped []string `json:"skipped"`
}

func (rep *LifecycleReport) empty() bool {
	return len(rep.Opened) == 0 && len(rep.Closed) == 0 && len(rep.Cleaned) == 0
}

// withDateLock runs fn while holding the per-date writer lock, keeping two
// mutations of the same record from interleaving between read and write.
func (h *Handler) withDateLock(ctx context.Context, date string, fn func() error) error {
	acquired, token, err := h.cache.TryLockDate(ctx, date)
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("schedule for %s is busy, try again", date)
	}
	defer func() {
		if err := h.cache.UnlockDate(ctx, date, token); err != nil {
			slog.Error("failed to release schedule lock", "date", date, "error", err)
		}
	}()

	return fn()
}

// loadBoundRecord reads and parses the record for a date. A missing record
// is sql.ErrNoRows; an unparseable body is a schedule.ErrFormat the caller
// treats as skip-and-log, never fatal.
func (h *Handler) loadBoundRecord(date string) (*boundRecord, error) {
	record, err := h.repository.GetScheduleRecord(date)
	if err != nil {
		return nil, err
	}

	parsed, err := h.codec.Deserialize(record.Body)
	if err != nil {
		return nil, err
	}

	return &boundRecord{record: record, schedule: parsed}, nil
}

// storeBoundRecord serializes the schedule back into the record, writes it
// under the optimistic version check, and refreshes the cache.
func (h *Handler) storeBoundRecord(ctx context.Context, bound *boundRecord) error {
	bound.record.Body = bound.schedule.Serialize()
	bound.record.IsOpen = bound.schedule.Open

	if err := h.repository.UpdateScheduleRecord(bound.record); err != nil {
		return err
	}

	if err := h.cache.SetSchedule(ctx, bound.record.Date, bound.record.Body); err != nil {
		slog.Error("failed to refresh schedule cache", "date", bound.record.Date, "error", err)
	}
	return nil
}

// openGiven opens the schedule for one date. An existing open record is left
// alone unless force is set; force (and reopening a closed record) replaces
// the body with a freshly generated schedule.
func (h *Handler) openGiven(ctx context.Context, date calendar.Date, force bool, report *LifecycleReport) error {
	key := date.String()

	fresh, err := h.codec.Generate(date)
	if err != nil {
		return err
	}

	return h.withDateLock(ctx, key, func() error {
		record, err := h.repository.GetScheduleRecord(key)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			record = &domain.ScheduleRecord{
				Date:   key,
				Day:    fresh.Day,
				Body:   fresh.Serialize(),
				IsOpen: true,
			}
			if err := h.repository.CreateScheduleRecord(record); err != nil {
				return err
			}
			if err := h.cache.SetSchedule(ctx, key, record.Body); err != nil {
				slog.Error("failed to refresh schedule cache", "date", key, "error", err)
			}
			slog.Info("created schedule", "day", fresh.Day, "date", key)
			report.Opened = append(report.Opened, key)
			return nil
		case err != nil:
			return err
		}

		if record.IsOpen && !force {
			report.Skipped = append(report.Skipped, key)
			return nil
		}

		bound := &boundRecord{record: record, schedule: fresh}
		if err := h.storeBoundRecord(ctx, bound); err != nil {
			return err
		}
		slog.Info("reopened schedule", "day", fresh.Day, "date", key, "force", force)
		report.Opened = append(report.Opened, key)
		return nil
	})
}

// openUntil opens every configured day from today through the given date.
// Days without a plan entry are skipped, not errors.
func (h *Handler) openUntil(ctx context.Context, until calendar.Date, force bool, report *LifecycleReport) error {
	for date := h.codec.Translator().Today(); !date.After(until); date = date.AddDays(1) {
		if err := h.openGiven(ctx, date, force, report); err != nil {
			if errors.Is(err, schedule.ErrConfig) {
				report.Skipped = append(report.Skipped, date.String())
				continue
			}
			return err
		}
	}
	return nil
}

// closeGiven closes the record for one date if it exists and is open.
func (h *Handler) closeGiven(ctx context.Context, date calendar.Date, report *LifecycleReport) error {
	key := date.String()

	return h.withDateLock(ctx, key, func() error {
		bound, err := h.loadBoundRecord(key)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			report.Skipped = append(report.Skipped, key)
			return nil
		case errors.Is(err, schedule.ErrFormat):
			slog.Error("skipping unparseable schedule record", "date", key, "error", err)
			report.Skipped = append(report.Skipped, key)
			return nil
		case err != nil:
			return err
		}

		if !bound.schedule.Open {
			report.Skipped = append(report.Skipped, key)
			return nil
		}

		bound.schedule.Close()
		if err := h.storeBoundRecord(ctx, bound); err != nil {
			return err
		}
		slog.Info("closed schedule", "date", key)
		report.Closed = append(report.Closed, key)
		return nil
	})
}

// closeUntil closes every open record dated at or before the given date.
func (h *Handler) closeUntil(ctx context.Context, until calendar.Date, report *LifecycleReport) error {
	records, err := h.repository.GetAllScheduleRecords()
	if err != nil {
		return err
	}

	for _, record := range records {
		date, err := h.codec.Translator().DeserializeDate(record.Date)
		if err != nil {
			slog.Error("skipping record with invalid date", "date", record.Date, "error", err)
			continue
		}
		if !record.IsOpen || date.After(until) {
			continue
		}
		if err := h.closeGiven(ctx, date, report); err != nil {
			return err
		}
	}
	return nil
}

// cleanGiven deletes the record for one date, but only once it is closed.
// A still-open record is reported as skipped.
func (h *Handler) cleanGiven(ctx context.Context, date calendar.Date, report *LifecycleReport) error {
	key := date.String()

	return h.withDateLock(ctx, key, func() error {
		record, err := h.repository.GetScheduleRecord(key)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return err
		}

		if record.IsOpen {
			report.Skipped = append(report.Skipped, key)
			return nil
		}

		if err := h.repository.DeleteScheduleRecord(key); err != nil {
			return err
		}
		if err := h.cache.DropSchedule(ctx, key); err != nil {
			slog.Error("failed to drop cached schedule", "date", key, "error", err)
		}
		slog.Info("cleaned schedule", "date", key)
		report.Cleaned = append(report.Cleaned, key)
		return nil
	})
}

// cleanUntil deletes every closed record dated at or before the given date,
// reporting still-open ones as skipped.
func (h *Handler) cleanUntil(ctx context.Context, until calendar.Date, report *LifecycleReport) error {
	records, err := h.repository.GetAllScheduleRecords()
	if err != nil {
		return err
	}

	for _, record := range records {
		date, err := h.codec.Translator().DeserializeDate(record.Date)
		if err != nil {
			slog.Error("skipping record with invalid date", "date", record.Date, "error", err)
			continue
		}
		if date.After(until) {
			continue
		}
		if err := h.cleanGiven(ctx, date, report); err != nil {
			return err
		}
	}
	return nil
}

// RegenerateCache rewrites the cache entry for every persisted record.
func (h *Handler) RegenerateCache(ctx context.Context) error {
	records, err := h.repository.GetAllScheduleRecords()
	if err != nil {
		return err
	}

	for _, record := range records {
		if err := h.cache.SetSchedule(ctx, record.Date, record.Body); err != nil {
			return err
		}
	}
	return nil
}
