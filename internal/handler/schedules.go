package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tabletop-club/table-scheduler/internal/schedule"
)

// GetAllSchedules returns every persisted schedule in its externally visible
// text form, cache first.
func (h *Handler) GetAllSchedules(w http.ResponseWriter, r *http.Request) {
	records, err := h.repository.GetAllScheduleRecords()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type renderedSchedule struct {
		Date   string `json:"date"`
		Day    string `json:"day"`
		IsOpen bool   `json:"isOpen"`
		Text   string `json:"text"`
	}

	rendered := make([]renderedSchedule, 0, len(records))
	for _, record := range records {
		body, err := h.cache.GetSchedule(r.Context(), record.Date)
		if err != nil || body == "" {
			body = record.Body
		}
		rendered = append(rendered, renderedSchedule{
			Date:   record.Date,
			Day:    record.Day,
			IsOpen: record.IsOpen,
			Text:   schedule.Externalize(body, h.codec.EscapeToken()),
		})
	}

	h.successResponse(w, r, "schedules retrieved", rendered)
}

// GetSchedule returns one date's schedule text. The date parameter accepts
// the same forms as every command: explicit date, day name, or shortcut.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	date, err := h.codec.Translator().DeserializeDate(chi.URLParam(r, "date"))
	if err != nil {
		h.errorResponse(w, r, "invalid date")
		return
	}

	body, err := h.cache.GetSchedule(r.Context(), date.String())
	if err != nil || body == "" {
		record, err := h.repository.GetScheduleRecord(date.String())
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "no schedule for "+date.String())
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		body = record.Body
	}

	h.successResponse(w, r, "schedule retrieved", schedule.Externalize(body, h.codec.EscapeToken()))
}

// OpenSchedules opens a single date or every configured day through a date.
func (h *Handler) OpenSchedules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date  string `json:"date" validate:"required"`
		Until bool   `json:"until"`
		Force bool   `json:"force"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := h.codec.Translator().DeserializeDate(req.Date)
	if err != nil {
		h.errorResponse(w, r, "invalid date")
		return
	}

	report := &LifecycleReport{}
	if req.Until {
		err = h.openUntil(r.Context(), date, req.Force, report)
	} else {
		err = h.openGiven(r.Context(), date, req.Force, report)
	}
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrConfig):
			h.errorResponse(w, r, date.DayName()+" is not an operating day")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if report.empty() {
		h.successResponse(w, r, "nothing to open", report)
		return
	}
	h.successResponse(w, r, "schedules opened", report)
}

// CloseSchedules closes a single date or every open record through a date.
func (h *Handler) CloseSchedules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date  string `json:"date" validate:"required"`
		Until bool   `json:"until"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := h.codec.Translator().DeserializeDate(req.Date)
	if err != nil {
		h.errorResponse(w, r, "invalid date")
		return
	}

	report := &LifecycleReport{}
	if req.Until {
		err = h.closeUntil(r.Context(), date, report)
	} else {
		err = h.closeGiven(r.Context(), date, report)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if report.empty() {
		h.successResponse(w, r, "nothing to close", report)
		return
	}
	h.successResponse(w, r, "schedules closed", report)
}

// CleanSchedules deletes closed records for a single date or through a date.
// Still-open records are reported, never deleted.
func (h *Handler) CleanSchedules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date  string `json:"date" validate:"required"`
		Until bool   `json:"until"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := h.codec.Translator().DeserializeDate(req.Date)
	if err != nil {
		h.errorResponse(w, r, "invalid date")
		return
	}

	report := &LifecycleReport{}
	if req.Until {
		err = h.cleanUntil(r.Context(), date, report)
	} else {
		err = h.cleanGiven(r.Context(), date, report)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if len(report.Skipped) > 0 {
		h.successResponse(w, r, "some schedules are still open and were skipped", report)
		return
	}
	h.successResponse(w, r, "schedules cleaned", report)
}

// RunNightly triggers the nightly maintenance pass on demand.
func (h *Handler) RunNightly(w http.ResponseWriter, r *http.Request) {
	if !h.document.Nightly.Enabled {
		h.errorResponse(w, r, "nightly maintenance is not configured")
		return
	}

	report, err := h.NightlyMaintenance(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "nightly maintenance completed", report)
}

// RunWeekly publishes the weekly reminder on demand.
func (h *Handler) RunWeekly(w http.ResponseWriter, r *http.Request) {
	if !h.document.Weekly.Enabled {
		h.errorResponse(w, r, "weekly reminder is not configured")
		return
	}

	if err := h.PublishWeeklyReminder(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "weekly reminder sent", nil)
}
