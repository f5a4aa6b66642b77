package request

import "context"

// Store is the visitor_requests half of the persistence gateway.
//
// UpdateStatus overwrites whatever is stored. ResolveStatus is the guarded
// write Service uses: it only changes a record still in the expected status.
type Store interface {
	// Insert stores a new Pending request and returns its store-assigned ID.
	Insert(ctx context.Context, requestedBy string, d Draft) (string, error)
	// ListByUser returns the requests submitted by username, with IDs cleared.
	ListByUser(ctx context.Context, username string) ([]*VisitorRequest, error)
	// ListAll returns every request in insertion order, IDs included.
	ListAll(ctx context.Context) ([]*VisitorRequest, error)
	// Get returns one request or ErrNotFound.
	Get(ctx context.Context, id string) (*VisitorRequest, error)
	// UpdateStatus overwrites status and admin comment. Unknown IDs are a silent no-op.
	UpdateStatus(ctx context.Context, id string, status Status, comment string) error
	// ResolveStatus sets status and admin comment only if the record is still
	// in status from. Otherwise it returns ErrInvalidTransition.
	ResolveStatus(ctx context.Context, id string, from, to Status, comment string) error
}
