package model

import "time"

type Category string

const (
	CategoryFoodBank         Category = "Food Bank"
	CategoryEducation        Category = "Education"
	CategoryHealthcare       Category = "Healthcare"
	CategoryEvents           Category = "Events"
	CategoryJobOpportunities Category = "Job Opportunities"
	CategoryHousing          Category = "Housing"
	CategoryOther            Category = "Other"
)

const DefaultAvailability = "Contact for availability"

var Categories = []Category{
	CategoryFoodBank,
	CategoryEducation,
	CategoryHealthcare,
	CategoryEvents,
	CategoryJobOpportunities,
	CategoryHousing,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Resource struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Title        string    `gorm:"size:100;not null" bson:"title" json:"title"`
	Description  string    `gorm:"size:500;not null" bson:"description" json:"description"`
	Category     Category  `gorm:"size:32;not null;index" bson:"category" json:"category"`
	Location     string    `gorm:"size:255;not null" bson:"location" json:"location"`
	ContactInfo  string    `gorm:"size:255;not null" bson:"contact_info" json:"contactInfo"`
	Availability string    `gorm:"size:255" bson:"availability" json:"availability"`
	PostedBy     string    `gorm:"size:36;not null;index:idx_resources_owner_created,priority:1" bson:"posted_by" json:"postedBy"`
	CreatedAt    time.Time `gorm:"index:idx_resources_owner_created,priority:2" bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`

	// Owner is resolved from PostedBy for presentation only.
	Owner *Owner `gorm:"-" bson:"-" json:"owner,omitempty"`
}

// Owner is the public projection of a user attached to a resource.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ResourceFilter narrows a resource listing. Zero values match everything.
type ResourceFilter struct {
	PostedBy string
	Category Category
	Query    string
}

func (f ResourceFilter) IsZero() bool {
	return f.PostedBy == "" && f.Category == "" && f.Query == ""
}
