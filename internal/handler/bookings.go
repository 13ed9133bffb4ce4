package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/tabletop-club/table-scheduler/internal/domain"
	"github.com/tabletop-club/table-scheduler/internal/schedule"
)

// resolveBookingTarget parses the date and slot range of a booking command
// against the current persisted schedule. The returned range is qualified.
func (h *Handler) resolveBookingTarget(rawDate, rawRange string) (*boundRecord, *schedule.SlotRange, string, error) {
	date, err := h.codec.Translator().DeserializeDate(rawDate)
	if err != nil {
		return nil, nil, "invalid date", err
	}

	bound, err := h.loadBoundRecord(date.String())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil, "no schedule for " + date.String(), err
	case errors.Is(err, schedule.ErrFormat):
		return nil, nil, "", err
	case err != nil:
		return nil, nil, "", err
	}

	if !bound.schedule.Open {
		return nil, nil, "cannot book a timeslot on a closed schedule", schedule.ErrDomain
	}

	slotRange, err := schedule.ParseSlotRange(rawRange)
	if err != nil {
		return nil, nil, "invalid timeslot range", err
	}
	if err := bound.schedule.QualifySlotRange(slotRange); err != nil {
		return nil, nil, "invalid timeslot range, see the posted schedule for valid timeslots", err
	}

	return bound, slotRange, "", nil
}

// participantIDs builds the slot participant list: the owner first, then the
// co-participants.
func participantIDs(owner string, coParticipants []string) []string {
	ids := []string{owner}
	for _, id := range coParticipants {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// RequestBooking records a member's booking request for staff review. The
// slots are validated as free now, but only an accept mutates the schedule.
func (h *Handler) RequestBooking(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Date           string   `json:"date" validate:"required"`
		SlotRange      string   `json:"slotRange" validate:"required"`
		CoParticipants []string `json:"coParticipants"`
		Activity       string   `json:"activity"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Activity != "" && !h.document.HasActivity(req.Activity) {
		h.errorResponse(w, r, "unknown activity")
		return
	}

	bound, slotRange, msg, err := h.resolveBookingTarget(req.Date, req.SlotRange)
	if err != nil {
		if msg != "" {
			h.errorResponse(w, r, msg)
		} else {
			h.internalServerError(w, r, err)
		}
		return
	}

	if _, err := bound.schedule.FirstTableWhere(slotRange, schedule.IsFree{}); err != nil {
		switch {
		case errors.Is(err, schedule.ErrDomain):
			h.errorResponse(w, r, "timeslot is occupied on every table for "+bound.record.Date)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	request := &domain.PendingRequest{
		Kind:           domain.RequestKindBook,
		RequesterID:    myInfo.ID,
		RequesterName:  myInfo.FullName,
		CoParticipants: req.CoParticipants,
		Date:           bound.record.Date,
		SlotRange:      slotRange.Serialize(),
		Activity:       req.Activity,
	}
	if err := h.repository.CreatePendingRequest(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.publishNotification(domain.NotificationMessage{
		Type: domain.NotificationRequestReceived,
		To:   h.config.Email.StaffAddress,
		Data: domain.RequestNotificationData{
			RequestID:      request.ID,
			RequesterName:  request.RequesterName,
			CoParticipants: request.CoParticipants,
			Date:           request.Date,
			SlotRange:      request.SlotRange,
			Activity:       request.Activity,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "booking request submitted", request)
}

// CancelBooking records a member's cancellation request. The member must own
// the entire range on some table right now.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Date      string `json:"date" validate:"required"`
		SlotRange string `json:"slotRange" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bound, slotRange, msg, err := h.resolveBookingTarget(req.Date, req.SlotRange)
	if err != nil {
		if msg != "" {
			h.errorResponse(w, r, msg)
		} else {
			h.internalServerError(w, r, err)
		}
		return
	}

	if _, err := bound.schedule.FirstTableWhere(slotRange, schedule.IsOwnedBy{IDs: []string{myInfo.MentionID}}); err != nil {
		switch {
		case errors.Is(err, schedule.ErrDomain):
			h.errorResponse(w, r, fmt.Sprintf("timeslot range %s is not all owned by you for %s", slotRange, bound.record.Date))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	request := &domain.PendingRequest{
		Kind:          domain.RequestKindCancel,
		RequesterID:   myInfo.ID,
		RequesterName: myInfo.FullName,
		Date:          bound.record.Date,
		SlotRange:     slotRange.Serialize(),
	}
	if err := h.repository.CreatePendingRequest(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.publishNotification(domain.NotificationMessage{
		Type: domain.NotificationCancelReceived,
		To:   h.config.Email.StaffAddress,
		Data: domain.RequestNotificationData{
			RequestID:     request.ID,
			RequesterName: request.RequesterName,
			Date:          request.Date,
			SlotRange:     request.SlotRange,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "cancellation request submitted", request)
}

// GetPendingRequests lists the unresolved booking and cancellation requests.
func (h *Handler) GetPendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.repository.GetUnresolvedRequests()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "pending requests retrieved", requests)
}

// AcceptRequest applies a pending request against the current schedule state
// and resolves it. Requests are re-validated: the slots may have changed
// since the member asked.
func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	request := r.Context().Value(PendingRequestCtx).(*domain.PendingRequest)

	requester, err := h.repository.GetUserByID(request.RequesterID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "requester account no longer exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	err = h.withDateLock(r.Context(), request.Date, func() error {
		bound, slotRange, msg, err := h.resolveBookingTarget(request.Date, request.SlotRange)
		if err != nil {
			if msg != "" {
				h.errorResponse(w, r, msg)
				return nil
			}
			return err
		}

		ids := participantIDs(requester.MentionID, request.CoParticipants)

		var table *schedule.Table
		switch request.Kind {
		case domain.RequestKindBook:
			// Already applied earlier? Resolve without touching the slots.
			if owned, err := bound.schedule.FirstTableWhere(slotRange, schedule.IsOwnedBy{IDs: []string{requester.MentionID}}); err == nil {
				h.errorResponse(w, r, fmt.Sprintf("timeslot is already owned by %s on table %d for %s",
					request.RequesterName, owned.Number, request.Date))
				return nil
			}

			table, err = bound.schedule.FirstTableWhere(slotRange, schedule.IsFree{})
			if err != nil {
				if errors.Is(err, schedule.ErrDomain) {
					h.errorResponse(w, r, "timeslot has since been occupied on every table for "+request.Date)
					return nil
				}
				return err
			}
			if _, err := table.Exec(slotRange, schedule.MarkOwned{IDs: ids, Info: request.Activity}); err != nil {
				return err
			}

		case domain.RequestKindCancel:
			table, err = bound.schedule.FirstTableWhere(slotRange, schedule.IsOwnedBy{IDs: []string{requester.MentionID}})
			if err != nil {
				if errors.Is(err, schedule.ErrDomain) {
					h.errorResponse(w, r, fmt.Sprintf("timeslot range %s is no longer owned by the requester for %s",
						request.SlotRange, request.Date))
					return nil
				}
				return err
			}
			if _, err := table.Exec(slotRange, schedule.MarkFree{}); err != nil {
				return err
			}

		default:
			h.errorResponse(w, r, "unknown request kind")
			return nil
		}

		if err := h.storeBoundRecord(r.Context(), bound); err != nil {
			return err
		}

		if err := h.repository.ResolvePendingRequest(request); err != nil {
			return err
		}

		if err := h.publishNotification(domain.NotificationMessage{
			Type: domain.NotificationRequestAccepted,
			To:   requester.Email,
			Data: domain.AcceptedNotificationData{
				RequestID:     request.ID,
				RequesterName: request.RequesterName,
				Date:          request.Date,
				SlotRange:     request.SlotRange,
				TableNumber:   table.Number,
			},
		}); err != nil {
			return err
		}

		h.successResponse(w, r, fmt.Sprintf("confirmed %s for %s %s on table %d",
			request.Kind, request.Date, request.SlotRange, table.Number), request)
		return nil
	})
	if err != nil {
		h.internalServerError(w, r, err)
	}
}

// AddBooking is the direct staff variant of a request: validate free, mark
// owned, write back.
func (h *Handler) AddBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date           string   `json:"date" validate:"required"`
		SlotRange      string   `json:"slotRange" validate:"required"`
		Owner          string   `json:"owner" validate:"required"`
		CoParticipants []string `json:"coParticipants"`
		Activity       string   `json:"activity"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Activity != "" && !h.document.HasActivity(req.Activity) {
		h.errorResponse(w, r, "unknown activity")
		return
	}

	date, err := h.codec.Translator().DeserializeDate(req.Date)
	if err != nil {
		h.errorResponse(w, r, "invalid date")
		return
	}

	err = h.withDateLock(r.Context(), date.String(), func() error {
		bound, slotRange, msg, err := h.resolveBookingTarget(req.Date, req.SlotRange)
		if err != nil {
			if msg != "" {
				h.errorResponse(w, r, msg)
				return nil
			}
			return err
		}

		table, err := bound.schedule.FirstTableWhere(slotRange, schedule.IsFree{})
		if err != nil {
			if errors.Is(err, schedule.ErrDomain) {
				h.errorResponse(w, r, "timeslot is occupied on every table for "+bound.record.Date)
				return nil
			}
			return err
		}

		ids := participantIDs(req.Owner, req.CoParticipants)
		if _, err := table.Exec(slotRange, schedule.MarkOwned{IDs: ids, Info: req.Activity}); err != nil {
			return err
		}

		if err := h.storeBoundRecord(r.Context(), bound); err != nil {
			return err
		}

		h.successResponse(w, r, fmt.Sprintf("booked %s %s on table %d", bound.record.Date, slotRange, table.Number), nil)
		return nil
	})
	if err != nil {
		h.internalServerError(w, r, err)
	}
}

// RemoveBooking frees a range owned by the named participants.
func (h *Handler) RemoveBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date           string   `json:"date" validate:"required"`
		SlotRange      string   `json:"slotRange" validate:"required"`
		Owner          string   `json:"owner" validate:"required"`
		CoParticipants []string `json:"coParticipants"`
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

	err = h.withDateLock(r.Context(), date.String(), func() error {
		bound, slotRange, msg, err := h.resolveBookingTarget(req.Date, req.SlotRange)
		if err != nil {
			if msg != "" {
				h.errorResponse(w, r, msg)
				return nil
			}
			return err
		}

		ids := participantIDs(req.Owner, req.CoParticipants)
		table, err := bound.schedule.FirstTableWhere(slotRange, schedule.IsOwnedBy{IDs: ids})
		if err != nil {
			if errors.Is(err, schedule.ErrDomain) {
				h.errorResponse(w, r, fmt.Sprintf("timeslot range %s is not all owned by those participants for %s", slotRange, bound.record.Date))
				return nil
			}
			return err
		}

		if _, err := table.Exec(slotRange, schedule.MarkFree{}); err != nil {
			return err
		}

		if err := h.storeBoundRecord(r.Context(), bound); err != nil {
			return err
		}

		h.successResponse(w, r, fmt.Sprintf("freed %s %s on table %d", bound.record.Date, slotRange, table.Number), nil)
		return nil
	})
	if err != nil {
		h.internalServerError(w, r, err)
	}
}
