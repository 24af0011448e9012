package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"resource-board/internal/model"
	"resource-board/internal/repository"
	"resource-board/internal/validation"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrForbidden        = errors.New("not authorized to modify this resource")
)

// ResourceListCache holds the unfiltered listing. SetList must refuse to
// store a list if Invalidate ran after the generation it is given was read.
type ResourceListCache interface {
	Generation(ctx context.Context) (int64, error)
	GetList(ctx context.Context) ([]model.Resource, bool, error)
	SetList(ctx context.Context, generation int64, resources []model.Resource) (bool, error)
	Invalidate(ctx context.Context) error
}

type ResourceEventPublisher interface {
	PublishResourceEvent(ctx context.Context, event model.ResourceEvent) error
}

type ResourceObserver interface {
	ObserveMutation(operation string)
	ObserveCacheLookup(hit bool)
}

type ResourceService struct {
	resources repository.ResourceStore
	users     repository.UserStore
	validator *validation.Validator
	cache     ResourceListCache
	publisher ResourceEventPublisher
	observer  ResourceObserver
	log       logrus.FieldLogger
	now       func() time.Time
}

type ResourceInput struct {
	Title        string
	Description  string
	Category     string
	Location     string
	ContactInfo  string
	Availability string
}

// ResourcePatch carries the fields a client sent; nil means unchanged.
type ResourcePatch struct {
	Title        *string
	Description  *string
	Category     *string
	Location     *string
	ContactInfo  *string
	Availability *string
}

type ListInput struct {
	Category string
	Query    string
}

// NewResourceService wires the resource use cases. cache, publisher and
// observer are optional.
func NewResourceService(
	resources repository.ResourceStore,
	users repository.UserStore,
	v *validation.Validator,
	cache ResourceListCache,
	publisher ResourceEventPublisher,
	observer ResourceObserver,
	log logrus.FieldLogger,
) *ResourceService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ResourceService{
		resources: resources,
		users:     users,
		validator: v,
		cache:     cache,
		publisher: publisher,
		observer:  observer,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a resource owned by userID. Any owner the client may have
// sent is irrelevant: ownership comes from the authenticated identity only.
func (s *ResourceService) Create(ctx context.Context, userID string, input ResourceInput) (*model.Resource, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	fields, err := s.validator.NormalizeResource(validation.ResourceFields{
		Title:        input.Title,
		Description:  input.Description,
		Category:     model.Category(input.Category),
		Location:     input.Location,
		ContactInfo:  input.ContactInfo,
		Availability: input.Availability,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	resource := &model.Resource{PostedBy: userID, CreatedAt: now, UpdatedAt: now}
	applyFields(resource, fields)

	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, err
	}
	s.afterMutation(ctx, model.ResourceCreated, resource.ID, userID)

	// The row is committed; failing here would invite a duplicate retry.
	if err := s.attachOwners(ctx, []*model.Resource{resource}); err != nil {
		s.log.WithError(err).WithField("resource_id", resource.ID).Warn("resolve resource owner failed")
	}
	return resource, nil
}

func (s *ResourceService) List(ctx context.Context, input ListInput) ([]model.Resource, error) {
	filter := model.ResourceFilter{
		Category: model.Category(strings.TrimSpace(input.Category)),
		Query:    strings.TrimSpace(input.Query),
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, &validation.Error{Field: "Category", Message: "Please select a valid category"}
	}

	cacheable := filter.IsZero() && s.cache != nil
	var generation int64
	if cacheable {
		cached, hit, err := s.cache.GetList(ctx)
		if err != nil {
			s.log.WithError(err).Warn("read resource list cache failed")
		}
		if s.observer != nil {
			s.observer.ObserveCacheLookup(hit)
		}
		if hit {
			return cached, nil
		}

		// Read before the store so a write committed after this point is
		// detected by SetList.
		generation, err = s.cache.Generation(ctx)
		if err != nil {
			s.log.WithError(err).Warn("read resource list generation failed")
			cacheable = false
		}
	}

	resources, err := s.listWithOwners(ctx, filter)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if _, err := s.cache.SetList(ctx, generation, resources); err != nil {
			s.log.WithError(err).Warn("write resource list cache failed")
		}
	}
	return resources, nil
}

func (s *ResourceService) ListMine(ctx context.Context, userID string) ([]model.Resource, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.listWithOwners(ctx, model.ResourceFilter{PostedBy: userID})
}

func (s *ResourceService) Get(ctx context.Context, id string) (*model.Resource, error) {
	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, ErrResourceNotFound
	}
	if err := s.attachOwners(ctx, []*model.Resource{resource}); err != nil {
		return nil, err
	}
	return resource, nil
}

// Update applies patch to a resource owned by userID. Existence is checked
// before ownership, and validation only after both.
func (s *ResourceService) Update(ctx context.Context, userID, id string, patch ResourcePatch) (*model.Resource, error) {
	resource, err := s.authorizeOwner(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	fields, err := s.validator.NormalizeResource(mergePatch(resource, patch))
	if err != nil {
		return nil, err
	}
	applyFields(resource, fields)
	resource.UpdatedAt = s.now()

	if err := s.resources.Update(ctx, resource); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	s.afterMutation(ctx, model.ResourceUpdated, resource.ID, userID)

	if err := s.attachOwners(ctx, []*model.Resource{resource}); err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *ResourceService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.authorizeOwner(ctx, userID, id); err != nil {
		return err
	}

	if err := s.resources.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	s.afterMutation(ctx, model.ResourceDeleted, id, userID)
	return nil
}

// CheckOwner applies the mutation policy without changing anything. Callers
// use it to answer 401, 404 or 403 ahead of a payload they could not decode.
func (s *ResourceService) CheckOwner(ctx context.Context, userID, id string) error {
	_, err := s.authorizeOwner(ctx, userID, id)
	return err
}

// authorizeOwner is the access-control policy for mutations.
func (s *ResourceService) authorizeOwner(ctx context.Context, userID, id string) (*model.Resource, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, ErrResourceNotFound
	}
	if resource.PostedBy != userID {
		return nil, ErrForbidden
	}
	return resource, nil
}

func (s *ResourceService) listWithOwners(ctx context.Context, filter model.ResourceFilter) ([]model.Resource, error) {
	resources, err := s.resources.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if resources == nil {
		resources = []model.Resource{}
	}

	ptrs := make([]*model.Resource, len(resources))
	for i := range resources {
		ptrs[i] = &resources[i]
	}
	if err := s.attachOwners(ctx, ptrs); err != nil {
		return nil, err
	}
	return resources, nil
}

// attachOwners resolves PostedBy into an Owner projection. A resource whose
// owner no longer exists keeps a nil Owner.
func (s *ResourceService) attachOwners(ctx context.Context, resources []*model.Resource) error {
	seen := make(map[string]struct{}, len(resources))
	ids := make([]string, 0, len(resources))
	for _, r := range resources {
		if _, ok := seen[r.PostedBy]; ok {
			continue
		}
		seen[r.PostedBy] = struct{}{}
		ids = append(ids, r.PostedBy)
	}
	if len(ids) == 0 {
		return nil
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	owners := make(map[string]*model.Owner, len(users))
	for _, u := range users {
		owners[u.ID] = &model.Owner{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	for _, r := range resources {
		r.Owner = owners[r.PostedBy]
	}
	return nil
}

// afterMutation runs the side effects of a successful write. None of them may
// fail the request.
func (s *ResourceService) afterMutation(ctx context.Context, eventType model.ResourceEventType, resourceID, userID string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.WithError(err).Warn("invalidate resource list cache failed")
		}
	}
	if s.observer != nil {
		s.observer.ObserveMutation(strings.TrimPrefix(string(eventType), "resource."))
	}
	if s.publisher != nil {
		event := model.ResourceEvent{
			Type:       eventType,
			ResourceID: resourceID,
			UserID:     userID,
			OccurredAt: s.now(),
		}
		if err := s.publisher.PublishResourceEvent(ctx, event); err != nil {
			s.log.WithError(err).WithField("resource_id", resourceID).Warn("publish resource event failed")
		}
	}
}

func mergePatch(current *model.Resource, patch ResourcePatch) validation.ResourceFields {
	fields := validation.ResourceFields{
		Title:        current.Title,
		Description:  current.Description,
		Category:     current.Category,
		Location:     current.Location,
		ContactInfo:  current.ContactInfo,
		Availability: current.Availability,
	}
	if patch.Title != nil {
		fields.Title = *patch.Title
	}
	if patch.Description != nil {
		fields.Description = *patch.Description
	}
	if patch.Category != nil {
		fields.Category = model.Category(*patch.Category)
	}
	if patch.Location != nil {
		fields.Location = *patch.Location
	}
	if patch.ContactInfo != nil {
		fields.ContactInfo = *patch.ContactInfo
	}
	if patch.Availability != nil {
		fields.Availability = *patch.Availability
	}
	return fields
}

func applyFields(resource *model.Resource, fields validation.ResourceFields) {
	resource.Title = fields.Title
	resource.Description = fields.Description
	resource.Category = fields.Category
	resource.Location = fields.Location
	resource.ContactInfo = fields.ContactInfo
	resource.Availability = fields.Availability
}
