package client

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Organization string    `json:"organization,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CanPost mirrors the board UI: only donors offer resources.
func (u *User) CanPost() bool {
	return u != nil && (u.Role == "donor" || u.Role == "both")
}

type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON also accepts a bare owner id, which the board sends when the
// owner account is gone.
func (o *Owner) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*o = Owner{ID: id}
		return nil
	}
	type plain Owner
	return json.Unmarshal(data, (*plain)(o))
}

type Resource struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	ContactInfo  string    `json:"contactInfo"`
	Availability string    `json:"availability"`
	PostedBy     Owner     `json:"postedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type ResourceRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	ContactInfo  string `json:"contactInfo"`
	Availability string `json:"availability,omitempty"`
}

// ResourcePatch sends only the non-nil fields.
type ResourcePatch struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Category     *string `json:"category,omitempty"`
	Location     *string `json:"location,omitempty"`
	ContactInfo  *string `json:"contactInfo,omitempty"`
	Availability *string `json:"availability,omitempty"`
}

type ListOptions struct {
	Category string
	Query    string
}
