package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
)

type executionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newExecutionRepository(client *firestore.Client) *executionRepository {
	return &executionRepository{client: client}
}

func (r *executionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_executions"
	}
	return "executions"
}

func (r *executionRepository) Create(ctx context.Context, e *model.AuditExecution) (*model.AuditExecution, error) {
	created := e.Clone()
	if created.ID == "" {
		created.ID = types.NewExecutionID()
	}
	if created.StartedAt.IsZero() {
		created.StartedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.collection()).Doc(created.ID.String())
	if _, err := docRef.Create(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create execution", goerr.V("execution_id", created.ID))
	}
	return created, nil
}

func (r *executionRepository) Get(ctx context.Context, id types.ExecutionID) (*model.AuditExecution, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "execution not found", goerr.V("execution_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get execution", goerr.V("execution_id", id))
	}

	var e model.AuditExecution
	if err := doc.DataTo(&e); err != nil {
		return nil, goerr.Wrap(err, "failed to decode execution", goerr.V("execution_id", id))
	}
	return &e, nil
}

func (r *executionRepository) GetOpen(ctx context.Context, assignmentID types.AssignmentID, labID types.LabID, category string) (*model.AuditExecution, error) {
	// Open-ness is derived from the zero completion timestamp, which
	// Firestore cannot index usefully, so the small per-run result set is
	// filtered client-side.
	iter := r.client.Collection(r.collection()).
		Where("assignment_id", "==", assignmentID.String()).
		Where("lab_id", "==", labID.String()).
		Where("category", "==", category).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query open execution",
				goerr.V("assignment_id", assignmentID))
		}

		var e model.AuditExecution
		if err := doc.DataTo(&e); err != nil {
			return nil, goerr.Wrap(err, "failed to decode execution", goerr.V("doc_id", doc.Ref.ID))
		}
		if e.Open() {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *executionRepository) Update(ctx context.Context, e *model.AuditExecution) (*model.AuditExecution, error) {
	existing, err := r.Get(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	updated := e.Clone()
	updated.StartedAt = existing.StartedAt

	docRef := r.client.Collection(r.collection()).Doc(updated.ID.String())
	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update execution", goerr.V("execution_id", updated.ID))
	}
	return updated, nil
}

func (r *executionRepository) ListByAssignment(ctx context.Context, assignmentID types.AssignmentID) ([]*model.AuditExecution, error) {
	iter := r.client.Collection(r.collection()).
		Where("assignment_id", "==", assignmentID.String()).
		OrderBy("started_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var out []*model.AuditExecution
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate executions",
				goerr.V("assignment_id", assignmentID))
		}

		var e model.AuditExecution
		if err := doc.DataTo(&e); err != nil {
			return nil, goerr.Wrap(err, "failed to decode execution", goerr.V("doc_id", doc.Ref.ID))
		}
		out = append(out, &e)
	}
	return out, nil
}
