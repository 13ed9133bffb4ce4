package seed

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/tabletop-club/table-scheduler/internal/domain"
	"github.com/tabletop-club/table-scheduler/internal/repository"
	"github.com/tabletop-club/table-scheduler/internal/schedule"
	"github.com/tabletop-club/table-scheduler/internal/utils"
)

// SeedMembers inserts n random members and returns how many made it in.
// Username collisions are logged and skipped, not fatal.
func SeedMembers(repo *repository.Repository, n int, password string, emailDomain string) int {
	count := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomMember(password, emailDomain)
		if err != nil {
			slog.Error("failed to generate member", slog.String("error", err.Error()))
			continue
		}

		if err := repo.CreateUser(user); err != nil {
			slog.Error("failed to insert member", slog.String("error", err.Error()))
			continue
		}

		count++
	}
	return count
}

// SeedSchedules opens fresh schedules from today through days ahead, skipping
// days without a plan entry and dates that already have a record.
func SeedSchedules(repo *repository.Repository, codec *schedule.Codec, days int) int {
	count := 0
	today := codec.Translator().Today()

	for offset := 0; offset <= days; offset++ {
		date := today.AddDays(offset)

		fresh, err := codec.Generate(date)
		if err != nil {
			if errors.Is(err, schedule.ErrConfig) {
				continue
			}
			slog.Error("failed to generate schedule", slog.String("date", date.String()), slog.String("error", err.Error()))
			continue
		}

		if _, err := repo.GetScheduleRecord(date.String()); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("failed to check schedule record", slog.String("date", date.String()), slog.String("error", err.Error()))
			continue
		}

		record := &domain.ScheduleRecord{
			Date:   date.String(),
			Day:    fresh.Day,
			Body:   fresh.Serialize(),
			IsOpen: true,
		}
		if err := repo.CreateScheduleRecord(record); err != nil {
			slog.Error("failed to insert schedule record", slog.String("date", date.String()), slog.String("error", err.Error()))
			continue
		}

		count++
	}
	return count
}
