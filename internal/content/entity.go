// AngelaMos | 2026
// entity.go

// Package content manages the site's editable content kinds. Each
// kind shares the same storage and HTTP shape, differing only in its
// column set, so the package is built around per-kind descriptors
// driving a generic store and handler.
package content

import (
	"time"

	"github.com/drivepixel/website-backend/internal/core"
)

type Service struct {
	ID          string           `db:"id"          json:"id"`
	Title       string           `db:"title"       json:"title"`
	Description string           `db:"description" json:"description"`
	Icon        string           `db:"icon"        json:"icon"`
	Items       core.StringSlice `db:"items"       json:"items"`
	Order       int              `db:"order"       json:"order"`
	IsActive    bool             `db:"is_active"   json:"isActive"`
	CreatedAt   time.Time        `db:"created_at"  json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at"  json:"updatedAt"`
}

type PortfolioItem struct {
	ID          string           `db:"id"          json:"id"`
	Title       string           `db:"title"       json:"title"`
	Category    string           `db:"category"    json:"category"`
	Description string           `db:"description" json:"description"`
	TechStack   core.StringSlice `db:"tech_stack"  json:"techStack"`
	Results     string           `db:"results"     json:"results"`
	ImageURL    *string          `db:"image_url"   json:"imageUrl"`
	Order       int              `db:"order"       json:"order"`
	IsActive    bool             `db:"is_active"   json:"isActive"`
	CreatedAt   time.Time        `db:"created_at"  json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at"  json:"updatedAt"`
}

type BlogPost struct {
	ID          string    `db:"id"           json:"id"`
	Title       string    `db:"title"        json:"title"`
	Category    string    `db:"category"     json:"category"`
	Author      string    `db:"author"       json:"author"`
	Date        string    `db:"date"         json:"date"`
	Excerpt     string    `db:"excerpt"      json:"excerpt"`
	Content     *string   `db:"content"      json:"content"`
	Image       string    `db:"image"        json:"image"`
	Slug        string    `db:"slug"         json:"slug"`
	IsPublished bool      `db:"is_published" json:"isPublished"`
	CreatedAt   time.Time `db:"created_at"   json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updatedAt"`
}

type Testimonial struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Email     string    `db:"email"      json:"email"`
	Rating    int       `db:"rating"     json:"rating"`
	Text      string    `db:"text"       json:"text"`
	Order     int       `db:"order"      json:"order"`
	IsActive  bool      `db:"is_active"  json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type HeroText struct {
	ID        string    `db:"id"         json:"id"`
	Title     string    `db:"title"      json:"title"`
	Subtitle  string    `db:"subtitle"   json:"subtitle"`
	Order     int       `db:"order"      json:"order"`
	IsActive  bool      `db:"is_active"  json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
