package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Service owns the request lifecycle: submission, listing, and the
// Pending -> Approved/Rejected transitions.
type Service struct {
	store Store
}

// NewService creates a request service on top of any Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Submit records a new Pending request on behalf of username.
func (s *Service) Submit(ctx context.Context, username string, d Draft) (string, error) {
	id, err := s.store.Insert(ctx, username, d)
	if err != nil {
		return "", fmt.Errorf("submitting request: %w", err)
	}
	slog.InfoContext(ctx, "request submitted", "id", id, "requested_by", username)
	return id, nil
}

// ForUser returns the requests submitted by username, without IDs.
func (s *Service) ForUser(ctx context.Context, username string) ([]*VisitorRequest, error) {
	reqs, err := s.store.ListByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("loading requests for %s: %w", username, err)
	}
	return reqs, nil
}

// All returns every request.
func (s *Service) All(ctx context.Context) ([]*VisitorRequest, error) {
	reqs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading requests: %w", err)
	}
	return reqs, nil
}

// Get returns one request by ID.
func (s *Service) Get(ctx context.Context, id string) (*VisitorRequest, error) {
	return s.store.Get(ctx, id)
}

// Approve moves a pending request to Approved.
func (s *Service) Approve(ctx context.Context, id string) (*VisitorRequest, error) {
	return s.Resolve(ctx, id, ActionApprove)
}

// Reject moves a pending request to Rejected.
func (s *Service) Reject(ctx context.Context, id string) (*VisitorRequest, error) {
	return s.Resolve(ctx, id, ActionReject)
}

// Resolve applies an admin action and returns the updated request.
// Requests that are no longer pending yield ErrInvalidTransition and are left
// untouched, including when another resolve wins between the read and the write.
func (s *Service) Resolve(ctx context.Context, id string, a Action) (*VisitorRequest, error) {
	req, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := Transition(req.Status, a)
	if err != nil {
		return nil, err
	}

	comment := CommentFor(next)
	if err := s.store.ResolveStatus(ctx, id, req.Status, next, comment); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("resolving request: %w", err)
	}

	req.Status = next
	req.AdminComment = comment
	slog.InfoContext(ctx, "request resolved", "id", id, "status", next)
	return req, nil
}
