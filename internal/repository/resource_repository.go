package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resource-board/internal/model"
)

var _ ResourceStore = (*ResourceRepository)(nil)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(resource).Error; err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resource).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query resource by id failed: %w", err)
	}
	return &resource, nil
}

func (r *ResourceRepository) List(ctx context.Context, filter model.ResourceFilter) ([]model.Resource, error) {
	query := r.db.WithContext(ctx).Model(&model.Resource{})
	if filter.PostedBy != "" {
		query = query.Where("posted_by = ?", filter.PostedBy)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			"(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')",
			pattern, pattern,
		)
	}

	var resources []model.Resource
	if err := query.Order("created_at DESC").Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("list resources failed: %w", err)
	}
	return resources, nil
}

// Update writes the editable fields only; id, owner and creation time are
// never touched.
func (r *ResourceRepository) Update(ctx context.Context, resource *model.Resource) error {
	result := r.db.WithContext(ctx).
		Model(&model.Resource{}).
		Where("id = ?", resource.ID).
		Updates(map[string]interface{}{
			"title":        resource.Title,
			"description":  resource.Description,
			"category":     resource.Category,
			"location":     resource.Location,
			"contact_info": resource.ContactInfo,
			"availability": resource.Availability,
			"updated_at":   resource.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update resource failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Resource{})
	if result.Error != nil {
		return fmt.Errorf("delete resource failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
