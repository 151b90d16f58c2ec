package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/labops/labaudit/pkg/domain/interfaces"
)

// ErrNotFound is returned when the requested entity does not exist
var ErrNotFound = goerr.New("not found")

// Firestore is a Firestore-backed Repository
type Firestore struct {
	client     *firestore.Client
	assignment *assignmentRepository
	execution  *executionRepository
}

var _ interfaces.Repository = &Firestore{}

// Option is a functional option for Firestore configuration
type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, letting multiple
// deployments share one database.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.assignment.collectionPrefix = prefix
		f.execution.collectionPrefix = prefix
	}
}

// New creates a Firestore repository. An empty databaseID selects the
// project's default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID))
	}

	f := &Firestore{
		client:     client,
		assignment: newAssignmentRepository(client),
		execution:  newExecutionRepository(client),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Firestore) Assignment() interfaces.AssignmentRepository {
	return f.assignment
}

func (f *Firestore) Execution() interfaces.ExecutionRepository {
	return f.execution
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
