package handler

import (
	"time"

	"resource-board/internal/model"
)

type userView struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         model.Role `json:"role"`
	Organization string     `json:"organization,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// resourceView renders postedBy as the owner projection when it is known and
// as the bare owner id otherwise.
type resourceView struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     model.Category `json:"category"`
	Location     string         `json:"location"`
	ContactInfo  string         `json:"contactInfo"`
	Availability string         `json:"availability"`
	PostedBy     any            `json:"postedBy"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func toUserView(u *model.User) userView {
	return userView{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Organization: u.Organization,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt,
	}
}

func toResourceView(r *model.Resource) resourceView {
	var postedBy any = r.PostedBy
	if r.Owner != nil {
		postedBy = *r.Owner
	}
	return resourceView{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		Location:     r.Location,
		ContactInfo:  r.ContactInfo,
		Availability: r.Availability,
		PostedBy:     postedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toResourceViews(resources []model.Resource) []resourceView {
	views := make([]resourceView, 0, len(resources))
	for i := range resources {
		views = append(views, toResourceView(&resources[i]))
	}
	return views
}
