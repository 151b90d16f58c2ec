package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
)

type assignmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAssignmentRepository(client *firestore.Client) *assignmentRepository {
	return &assignmentRepository{client: client}
}

func (r *assignmentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_assignments"
	}
	return "assignments"
}

func (r *assignmentRepository) Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	created := a.Clone()
	if created.ID == "" {
		created.ID = types.AssignmentID(uuid.New().String())
	}

	now := time.Now().UTC()
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(created.ID.String())
	if _, err := docRef.Create(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create assignment", goerr.V("assignment_id", created.ID))
	}
	return created, nil
}

func (r *assignmentRepository) Get(ctx context.Context, id types.AssignmentID) (*model.Assignment, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "assignment not found", goerr.V("assignment_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assignment", goerr.V("assignment_id", id))
	}

	var a model.Assignment
	if err := doc.DataTo(&a); err != nil {
		return nil, goerr.Wrap(err, "failed to decode assignment", goerr.V("assignment_id", id))
	}
	return &a, nil
}

func (r *assignmentRepository) List(ctx context.Context) ([]*model.Assignment, error) {
	iter := r.client.Collection(r.collection()).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []*model.Assignment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assignments")
		}

		var a model.Assignment
		if err := doc.DataTo(&a); err != nil {
			return nil, goerr.Wrap(err, "failed to decode assignment", goerr.V("doc_id", doc.Ref.ID))
		}
		out = append(out, &a)
	}
	return out, nil
}

func (r *assignmentRepository) Update(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	existing, err := r.Get(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	updated := a.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.collection()).Doc(updated.ID.String())
	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update assignment", goerr.V("assignment_id", updated.ID))
	}
	return updated, nil
}
