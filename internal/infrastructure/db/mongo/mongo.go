package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Repositories bundles the MongoDB-backed repositories over one database.
type Repositories struct {
	Users    *UserRepository
	Projects *ProjectRepository
	client   *mongo.Client
}

// NewRepositories builds the repositories and creates their indexes.
func NewRepositories(ctx context.Context, client *mongo.Client, db *mongo.Database) (*Repositories, error) {
	users := NewUserRepository(db)
	projects := NewProjectRepository(db, users)
	if err := users.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("user indexes: %w", err)
	}
	if err := projects.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("project indexes: %w", err)
	}
	return &Repositories{Users: users, Projects: projects, client: client}, nil
}

// Ping checks the primary is reachable.
func (r *Repositories) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (r *Repositories) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
