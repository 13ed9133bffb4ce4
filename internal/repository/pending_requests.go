package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tabletop-club/table-scheduler/internal/domain"
)

// Co-participants are stored as a jsonb column; the list is small and only
// ever read back whole.

func (r *Repository) CreatePendingRequest(request *domain.PendingRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	coParticipants, err := json.Marshal(request.CoParticipants)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pending_requests (kind, requester_id, requester_name, co_participants, date, slot_range, activity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, resolved, created_at, version
	`

	args := []any{request.Kind, request.RequesterID, request.RequesterName, coParticipants, request.Date, request.SlotRange, request.Activity}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.ID, &request.Resolved, &request.CreatedAt, &request.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPendingRequestByID(id int64) (*domain.PendingRequest, error) {
	query := `
		SELECT kind, requester_id, requester_name, co_participants, date, slot_range, activity, resolved, created_at, version
		FROM pending_requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	request := &domain.PendingRequest{
		ID: id,
	}

	var coParticipants []byte
	dst := []any{&request.Kind, &request.RequesterID, &request.RequesterName, &coParticipants, &request.Date, &request.SlotRange, &request.Activity, &request.Resolved, &request.CreatedAt, &request.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(coParticipants, &request.CoParticipants); err != nil {
		return nil, err
	}

	return request, nil
}

func (r *Repository) GetUnresolvedRequests() ([]*domain.PendingRequest, error) {
	query := `
		SELECT id, kind, requester_id, requester_name, co_participants, date, slot_range, activity, resolved, created_at, version
		FROM pending_requests WHERE resolved = false ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.PendingRequest, 0)
	for rows.Next() {
		request := &domain.PendingRequest{}
		var coParticipants []byte
		dst := []any{&request.ID, &request.Kind, &request.RequesterID, &request.RequesterName, &coParticipants, &request.Date, &request.SlotRange, &request.Activity, &request.Resolved, &request.CreatedAt, &request.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(coParticipants, &request.CoParticipants); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// ResolvePendingRequest marks the request handled under the optimistic
// version check.
func (r *Repository) ResolvePendingRequest(request *domain.PendingRequest) error {
	query := `
		UPDATE pending_requests
		SET
			resolved = true,
			version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING resolved, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, request.ID, request.Version).Scan(&request.Resolved, &request.Version); err != nil {
		return err
	}

	return nil
}
