package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/evcraddock/visitor-pass/internal/request"
)

type requestDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	RequestedBy  string        `bson:"requested_by"`
	VisitorName  string        `bson:"visitor_name"`
	Contact      string        `bson:"contact"`
	VisitDate    string        `bson:"visit_date"`
	Purpose      string        `bson:"purpose"`
	Status       string        `bson:"status"`
	AdminComment string        `bson:"admin_comment"`
	Timestamp    string        `bson:"timestamp"`
}

func fromRequest(r *request.VisitorRequest) requestDoc {
	return requestDoc{
		RequestedBy:  r.RequestedBy,
		VisitorName:  r.VisitorName,
		Contact:      r.Contact,
		VisitDate:    r.VisitDate,
		Purpose:      r.Purpose,
		Status:       string(r.Status),
		AdminComment: r.AdminComment,
		Timestamp:    r.Timestamp,
	}
}

func (d requestDoc) toRequest() *request.VisitorRequest {
	r := &request.VisitorRequest{
		RequestedBy:  d.RequestedBy,
		VisitorName:  d.VisitorName,
		Contact:      d.Contact,
		VisitDate:    d.VisitDate,
		Purpose:      d.Purpose,
		Status:       request.Status(d.Status),
		AdminComment: d.AdminComment,
		Timestamp:    d.Timestamp,
	}
	if !d.ID.IsZero() {
		r.ID = d.ID.Hex()
	}
	return r
}

// RequestRepository implements request.Store on a MongoDB collection.
type RequestRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewRequestRepository wraps a visitor_requests collection.
func NewRequestRepository(coll *mongo.Collection) *RequestRepository {
	return &RequestRepository{coll: coll, now: time.Now}
}

var byInsertion = bson.D{{Key: "_id", Value: 1}}

// Insert implements request.Store.
func (r *RequestRepository) Insert(ctx context.Context, requestedBy string, d request.Draft) (string, error) {
	doc := fromRequest(request.NewRecord(requestedBy, d, r.now()))
	doc.ID = bson.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("inserting request: %w", err)
	}
	return doc.ID.Hex(), nil
}

// ListByUser implements request.Store. The _id field is projected away.
func (r *RequestRepository) ListByUser(ctx context.Context, username string) ([]*request.VisitorRequest, error) {
	opts := options.Find().
		SetSort(byInsertion).
		SetProjection(bson.D{{Key: "_id", Value: 0}})
	return r.find(ctx, bson.D{{Key: "requested_by", Value: username}}, opts)
}

// ListAll implements request.Store.
func (r *RequestRepository) ListAll(ctx context.Context) ([]*request.VisitorRequest, error) {
	return r.find(ctx, bson.D{}, options.Find().SetSort(byInsertion))
}

// Get implements request.Store.
func (r *RequestRepository) Get(ctx context.Context, id string) (*request.VisitorRequest, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", request.ErrNotFound, id)
	}

	var doc requestDoc
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", request.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying request %s: %w", id, err)
	}
	return doc.toRequest(), nil
}

// UpdateStatus implements request.Store. An ID that is not a valid ObjectID
// cannot match any document, so it is a no-op like any other unknown ID.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status request.Status, comment string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	if _, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(status)},
			{Key: "admin_comment", Value: comment},
		}}},
	); err != nil {
		return fmt.Errorf("updating request %s: %w", id, err)
	}
	return nil
}

// ResolveStatus implements request.Store.
func (r *RequestRepository) ResolveStatus(ctx context.Context, id string, from, to request.Status, comment string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", request.ErrNotFound, id)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "status", Value: string(from)}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(to)},
			{Key: "admin_comment", Value: comment},
		}}},
	)
	if err != nil {
		return fmt.Errorf("resolving request %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s is no longer %s", request.ErrInvalidTransition, id, from)
	}
	return nil
}

func (r *RequestRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]*request.VisitorRequest, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}

	var docs []requestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding requests: %w", err)
	}

	reqs := make([]*request.VisitorRequest, len(docs))
	for i, d := range docs {
		reqs[i] = d.toRequest()
	}
	return reqs, nil
}
