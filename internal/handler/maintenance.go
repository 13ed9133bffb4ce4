package handler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tabletop-club/table-scheduler/internal/calendar"
	"github.com/tabletop-club/table-scheduler/internal/domain"
	"github.com/tabletop-club/table-scheduler/internal/meridiem"
)

// NightlyMaintenance runs one maintenance pass: open schedules ahead of
// today, close them behind it, clean the long-closed ones, and refresh the
// cache.
func (h *Handler) NightlyMaintenance(ctx context.Context) (*LifecycleReport, error) {
	nightly := h.document.Nightly
	today := h.codec.Translator().Today()

	openEnd := today.AddDays(nightly.OpenAhead)
	closeEnd := today.AddDays(-nightly.CloseBehind)
	cleanEnd := today.AddDays(-nightly.CleanBehind)

	slog.Info("starting nightly maintenance",
		"open_until", openEnd.String(), "close_until", closeEnd.String(), "clean_until", cleanEnd.String())

	report := &LifecycleReport{}
	if err := h.openUntil(ctx, openEnd, false, report); err != nil {
		return nil, err
	}
	if err := h.closeUntil(ctx, closeEnd, report); err != nil {
		return nil, err
	}
	if err := h.cleanUntil(ctx, cleanEnd, report); err != nil {
		return nil, err
	}
	if err := h.RegenerateCache(ctx); err != nil {
		return nil, err
	}

	if nightly.Verbose {
		if err := h.publishNotification(domain.NotificationMessage{
			Type: domain.NotificationNightlyReport,
			To:   h.config.Email.StaffAddress,
			Data: domain.NightlyReportData{
				Opened:  report.Opened,
				Closed:  report.Closed,
				Cleaned: report.Cleaned,
				Skipped: report.Skipped,
			},
		}); err != nil {
			slog.Error("failed to queue nightly report", "error", err)
		}
	}

	slog.Info("nightly maintenance completed",
		"opened", len(report.Opened), "closed", len(report.Closed), "cleaned", len(report.Cleaned))
	return report, nil
}

// NightlyLoop runs the nightly maintenance at the configured time in the
// business zone until the context is canceled. Call in a goroutine.
func (h *Handler) NightlyLoop(ctx context.Context) {
	if !h.document.Nightly.Enabled {
		return
	}

	zone, err := time.LoadLocation(calendar.BusinessZone)
	if err != nil {
		slog.Error("nightly loop: load business timezone", "error", err)
		return
	}

	for {
		next := nextRunAt(time.Now().In(zone), h.document.Nightly.RunTime, "")
		slog.Info("nightly maintenance scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		if _, err := h.NightlyMaintenance(ctx); err != nil {
			slog.Error("nightly maintenance failed", "error", err)
		}
	}
}

// WeeklyLoop publishes the weekly reminder at the configured day and time in
// the business zone until the context is canceled.
func (h *Handler) WeeklyLoop(ctx context.Context) {
	if !h.document.Weekly.Enabled {
		return
	}

	zone, err := time.LoadLocation(calendar.BusinessZone)
	if err != nil {
		slog.Error("weekly loop: load business timezone", "error", err)
		return
	}

	for {
		next := nextRunAt(time.Now().In(zone), h.document.Weekly.RunTime, h.document.Weekly.RunDay)
		slog.Info("weekly reminder scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		if err := h.PublishWeeklyReminder(); err != nil {
			slog.Error("weekly reminder failed", "error", err)
		}
	}
}

// nextRunAt finds the next instant at the given clock time (and weekday, when
// day is non-empty) strictly after now.
func nextRunAt(now time.Time, at meridiem.MeridiemTime, day string) time.Time {
	hour := at.Hour() % 12
	if at.Meridiem() == "pm" {
		hour += 12
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, at.Minute(), 0, 0, now.Location())
	for !next.After(now) || (day != "" && !strings.EqualFold(next.Weekday().String(), day)) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
