package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gauravm26/vishmaker/pkg/errors"
	"github.com/gauravm26/vishmaker/pkg/project"
)

// Default Mongo naming.
const (
	DefaultDatabase   = "vishmaker"
	DefaultCollection = "projects"
)

// MongoStore is a MongoDB-backed Store. Projects are stored as single
// documents with the project ID as _id, so every read and write is one
// round trip and flow replacement is atomic per project.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the Mongo connection.
type MongoConfig struct {
	URI        string // Connection string (required)
	Database   string // Defaults to "vishmaker"
	Collection string // Defaults to "projects"
}

// NewMongoStore connects to MongoDB and verifies connectivity with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// CreateProject implements Store.
func (s *MongoStore) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "project is required")
	}
	if p.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidProject, "project name is required")
	}
	if p.ID != "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "project id is assigned by the store")
	}

	stored := p.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if err := prepareWrite(stored, stored.CreatedAt); err != nil {
		return nil, err
	}

	if _, err := s.coll.InsertOne(ctx, stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.Wrap(errors.ErrCodeConflict, err, "project %s already exists", stored.ID)
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "insert project")
	}
	return stored, nil
}

// GetProject implements Store.
func (s *MongoStore) GetProject(ctx context.Context, id string) (*project.Project, error) {
	var p project.Project
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, NotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load project %s", id)
	}
	return &p, nil
}

// ListProjects implements Store.
func (s *MongoStore) ListProjects(ctx context.Context) ([]project.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list projects")
	}
	defer cur.Close(ctx)

	out := []project.Project{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode projects")
	}
	return out, nil
}

// PutFlows implements Store.
func (s *MongoStore) PutFlows(ctx context.Context, id string, flows []project.Flow) (*project.Project, error) {
	current, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Flows = project.CloneFlows(flows)
	if err := prepareWrite(current, time.Now().UTC().Truncate(time.Millisecond)); err != nil {
		return nil, err
	}

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, current)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "update project %s", id)
	}
	if res.MatchedCount == 0 {
		return nil, NotFound(id)
	}
	return current, nil
}

// DeleteProject implements Store.
func (s *MongoStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete project %s", id)
	}
	if res.DeletedCount == 0 {
		return NotFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
