package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

const projectsCollection = "projects"

// ProjectRepository is the MongoDB implementation of ports.ProjectRepository.
// MongoDB has no foreign keys, so referenced users are checked before insert.
type ProjectRepository struct {
	coll  *mongo.Collection
	users *UserRepository
}

func NewProjectRepository(db *mongo.Database, users *UserRepository) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(projectsCollection), users: users}
}

type mongoProject struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Code        string             `bson:"code"`
	Name        string             `bson:"name"`
	Status      string             `bson:"status"`
	CreatedByID string             `bson:"created_by_id"`
	ManagerID   string             `bson:"manager_id,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (mp *mongoProject) toDomain() *domain.Project {
	return &domain.Project{
		ID:          mp.ID.Hex(),
		Code:        mp.Code,
		Name:        mp.Name,
		Status:      domain.ProjectStatus(mp.Status),
		CreatedByID: mp.CreatedByID,
		ManagerID:   mp.ManagerID,
		CreatedAt:   unixToTime(mp.CreatedAt),
		UpdatedAt:   unixToTime(mp.UpdatedAt),
	}
}

// EnsureIndexes creates the unique code index and the ownership lookups.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true).SetName("code_unique")},
		{Keys: bson.D{{Key: "created_by_id", Value: 1}}},
		{Keys: bson.D{{Key: "manager_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	for field, id := range map[string]string{"created_by_id": p.CreatedByID, "manager_id": p.ManagerID} {
		if id == "" && field == "manager_id" {
			continue
		}
		ok, err := r.users.exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &domain.StoreError{Kind: domain.StoreErrForeignKey, Field: field}
		}
	}

	doc := mongoProject{
		Code:        p.Code,
		Name:        p.Name,
		Status:      string(p.Status),
		CreatedByID: p.CreatedByID,
		ManagerID:   p.ManagerID,
		CreatedAt:   p.CreatedAt.Unix(),
		UpdatedAt:   p.UpdatedAt.Unix(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, translateError("insert project", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert project: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNoRecord
	}
	var mp mongoProject
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		return nil, translateError("find project", err)
	}
	return mp.toDomain(), nil
}

// IsOwnedBy matches the project id together with creator-or-manager in a
// single query.
func (r *ProjectRepository) IsOwnedBy(ctx context.Context, projectID, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil || userID == "" {
		return false, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"_id": oid,
		"$or": bson.A{bson.M{"created_by_id": userID}, bson.M{"manager_id": userID}},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, translateError("check project ownership", err)
	}
	return n > 0, nil
}
