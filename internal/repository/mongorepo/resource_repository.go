package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resource-board/internal/model"
	"resource-board/internal/repository"
)

var _ repository.ResourceStore = (*ResourceRepository)(nil)

type ResourceRepository struct {
	col *mongo.Collection
}

func NewResourceRepository(db *mongo.Database) *ResourceRepository {
	return &ResourceRepository{col: db.Collection(resourcesCollection)}
}

func (r *ResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	if resource.CreatedAt.IsZero() {
		resource.CreatedAt = time.Now().UTC()
	}
	if resource.UpdatedAt.IsZero() {
		resource.UpdatedAt = resource.CreatedAt
	}

	if _, err := r.col.InsertOne(ctx, resource); err != nil {
		return fmt.Errorf("insert resource failed: %w", err)
	}
	return nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	var resource model.Resource
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&resource); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find resource failed: %w", err)
	}
	return &resource, nil
}

func (r *ResourceRepository) List(ctx context.Context, filter model.ResourceFilter) ([]model.Resource, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, listFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find resources failed: %w", err)
	}

	var resources []model.Resource
	if err := cur.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("decode resources failed: %w", err)
	}
	return resources, nil
}

func (r *ResourceRepository) Update(ctx context.Context, resource *model.Resource) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": resource.ID}, bson.M{
		"$set": bson.M{
			"title":        resource.Title,
			"description":  resource.Description,
			"category":     resource.Category,
			"location":     resource.Location,
			"contact_info": resource.ContactInfo,
			"availability": resource.Availability,
			"updated_at":   resource.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("update resource failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete resource failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func listFilter(filter model.ResourceFilter) bson.M {
	query := bson.M{}
	if filter.PostedBy != "" {
		query["posted_by"] = filter.PostedBy
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	return query
}
