package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ratecast/ratecast/pkg/log"
	"github.com/ratecast/ratecast/pkg/types"
)

// FirestoreProvider implements Database using Google Cloud Firestore. Each
// project is a single document in the "projects" collection so the project
// and its proposal utility are always written together.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// an empty project ID is detected from the environment
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreProvider) projects() *firestore.CollectionRef {
	return f.client.Collection("projects")
}

// CreateProject implements Database.
func (f *FirestoreProvider) CreateProject(ctx context.Context, project types.Project) (types.Project, error) {
	project = prepareProject(project)
	jsonBytes, err := json.Marshal(project)
	if err != nil {
		return types.Project{}, fmt.Errorf("failed to marshal project: %w", err)
	}

	// userID and createdAt are duplicated outside of the json so they can be
	// queried on
	_, err = f.projects().Doc(project.ID).Create(ctx, map[string]interface{}{
		"json":      string(jsonBytes),
		"userID":    project.UserID,
		"createdAt": project.CreatedAt,
	})
	if err != nil {
		return types.Project{}, fmt.Errorf("failed to create project %s: %w", project.ID, err)
	}
	return project, nil
}

// GetProject implements Database.
func (f *FirestoreProvider) GetProject(ctx context.Context, id string) (types.Project, error) {
	if id == "" {
		return types.Project{}, fmt.Errorf("%w: empty id", ErrProjectNotFound)
	}
	doc, err := f.projects().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		return types.Project{}, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return decodeProjectDoc(ctx, doc)
}

// ListProjects implements Database.
func (f *FirestoreProvider) ListProjects(ctx context.Context, userID string, limit int) ([]types.Project, error) {
	q := f.projects().Query
	if userID != "" {
		q = q.Where("userID", "==", userID)
	}
	iter := q.OrderBy("createdAt", firestore.Desc).Limit(clampLimit(limit)).Documents(ctx)
	defer iter.Stop()

	var projects []types.Project
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating projects: %w", err)
		}
		p, err := decodeProjectDoc(ctx, doc)
		if err != nil {
			// skip malformed documents
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func decodeProjectDoc(ctx context.Context, doc *firestore.DocumentSnapshot) (types.Project, error) {
	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "project doc missing json", slog.String("projectID", doc.Ref.ID), slog.Any("error", err))
		return types.Project{}, fmt.Errorf("project %s missing json: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "project doc json not string", slog.String("projectID", doc.Ref.ID))
		return types.Project{}, fmt.Errorf("project %s json not string", doc.Ref.ID)
	}

	var p types.Project
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal project", slog.String("projectID", doc.Ref.ID), slog.Any("error", err))
		return types.Project{}, fmt.Errorf("failed to unmarshal project %s: %w", doc.Ref.ID, err)
	}
	return p, nil
}
