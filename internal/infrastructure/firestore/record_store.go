package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oksasatya/teambuilder/internal/domain/repository"
)

// NewClient opens a Firestore client for projectID. credentialsFile may be
// empty when running on GCP or against FIRESTORE_EMULATOR_HOST.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, err
	}
	return app.Firestore(ctx)
}

// RecordStore maps each Kind to a top-level collection and each record to
// a document named by its id.
type RecordStore struct {
	client *firestore.Client
}

func NewRecordStore(client *firestore.Client) *RecordStore {
	return &RecordStore{client: client}
}

func (s *RecordStore) LoadAll(ctx context.Context, kind repository.Kind) ([]repository.Document, error) {
	it := s.client.Collection(string(kind)).Documents(ctx)
	defer it.Stop()

	out := make([]repository.Document, 0, 16)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var raw map[string]any
		if err := snap.DataTo(&raw); err != nil {
			return nil, err
		}
		// round trip through JSON so numbers and arrays look the same as every other backend
		doc, err := repository.ToDocument(raw)
		if err != nil {
			return nil, err
		}
		if doc.ID() == "" {
			doc["id"] = snap.Ref.ID
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *RecordStore) PutOne(ctx context.Context, kind repository.Kind, doc repository.Document) error {
	id, err := repository.RequireID(kind, doc)
	if err != nil {
		return err
	}
	_, err = s.client.Collection(string(kind)).Doc(id).Set(ctx, map[string]any(doc))
	return err
}

func (s *RecordStore) PatchOne(ctx context.Context, kind repository.Kind, doc repository.Document) error {
	id, err := repository.RequireID(kind, doc)
	if err != nil {
		return err
	}
	updates := make([]firestore.Update, 0, len(doc))
	for k, v := range doc {
		if k == "id" {
			continue
		}
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if len(updates) == 0 {
		updates = append(updates, firestore.Update{Path: "id", Value: id})
	}
	_, err = s.client.Collection(string(kind)).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return repository.ErrRecordNotFound
	}
	return err
}

func (s *RecordStore) Close() error {
	return s.client.Close()
}

var _ repository.RecordStore = (*RecordStore)(nil)
