// AngelaMos | 2026
// descriptor.go

package content

import (
	"github.com/drivepixel/website-backend/internal/core"
	"github.com/drivepixel/website-backend/internal/patch"
)

// Descriptor is everything the generic store and handler need to know
// about one content kind.
type Descriptor struct {
	// Resource names the kind in audit entries and error messages.
	Resource string
	// Path is the URL segment the kind mounts under.
	Path string
	Table string
	// Columns is the full select/returning list, reserved words quoted.
	Columns []string
	// OrderBy arranges public listings.
	OrderBy string
	// VisibleColumn gates public listings (is_active or is_published).
	VisibleColumn string
	// SlugColumn, when set, enables lookup by slug.
	SlugColumn string
	// Fields drives both create validation and partial updates.
	Fields patch.Mapping
}

var Services = Descriptor{
	Resource:      "service",
	Path:          "services",
	Table:         "services",
	Columns:       []string{"id", "title", "description", "icon", "items", `"order"`, "is_active", "created_at", "updated_at"},
	OrderBy:       `"order" ASC, created_at DESC`,
	VisibleColumn: "is_active",
	Fields: patch.Mapping{
		{Name: "title", Column: "title", Required: true, Decode: patch.NonEmptyString(255)},
		{Name: "description", Column: "description", Required: true, Decode: patch.NonEmptyString(10000)},
		{Name: "icon", Column: "icon", Required: true, Decode: patch.NonEmptyString(100)},
		{Name: "items", Column: "items", Default: core.StringSlice{}, Decode: patch.StringSlice()},
		{Name: "order", Column: `"order"`, Default: 0, Decode: patch.Int(0, 1000000)},
		{Name: "isActive", Column: "is_active", Default: true, Decode: patch.Bool()},
	},
}

var Portfolio = Descriptor{
	Resource:      "portfolio item",
	Path:          "portfolio",
	Table:         "portfolio",
	Columns:       []string{"id", "title", "category", "description", "tech_stack", "results", "image_url", `"order"`, "is_active", "created_at", "updated_at"},
	OrderBy:       `"order" ASC, created_at DESC`,
	VisibleColumn: "is_active",
	Fields: patch.Mapping{
		{Name: "title", Column: "title", Required: true, Decode: patch.NonEmptyString(255)},
		{Name: "category", Column: "category", Required: true, Decode: patch.NonEmptyString(100)},
		{Name: "description", Column: "description", Required: true, Decode: patch.NonEmptyString(10000)},
		{Name: "techStack", Column: "tech_stack", Default: core.StringSlice{}, Decode: patch.StringSlice()},
		{Name: "results", Column: "results", Required: true, Decode: patch.NonEmptyString(10000)},
		{Name: "imageUrl", Column: "image_url", Nullable: true, Decode: patch.String(2048)},
		{Name: "order", Column: `"order"`, Default: 0, Decode: patch.Int(0, 1000000)},
		{Name: "isActive", Column: "is_active", Default: true, Decode: patch.Bool()},
	},
}

var BlogPosts = Descriptor{
	Resource:      "blog post",
	Path:          "blog-posts",
	Table:         "blog_posts",
	Columns:       []string{"id", "title", "category", "author", "date", "excerpt", "content", "image", "slug", "is_published", "created_at", "updated_at"},
	OrderBy:       "date DESC, created_at DESC",
	VisibleColumn: "is_published",
	SlugColumn:    "slug",
	Fields: patch.Mapping{
		{Name: "title", Column: "title", Required: true, Decode: patch.NonEmptyString(255)},
		{Name: "category", Column: "category", Required: true, Decode: patch.NonEmptyString(100)},
		{Name: "author", Column: "author", Required: true, Decode: patch.NonEmptyString(255)},
		{Name: "date", Column: "date", Required: true, Decode: patch.NonEmptyString(40)},
		{Name: "excerpt", Column: "excerpt", Required: true, Decode: patch.NonEmptyString(10000)},
		{Name: "content", Column: "content", Nullable: true, Decode: patch.String(200000)},
		{Name: "image", Column: "image", Required: true, Decode: patch.NonEmptyString(2048)},
		{Name: "slug", Column: "slug", Required: true, Decode: patch.NonEmptyString(255)},
		{Name: "isPublished", Column: "is_published", Default: false, Decode: patch.Bool()},
	},
}

var Testimonials = Descriptor{
	Resource:      "testimonial",
	Path:          "testimonials",
	Table:         "testimonials",
	Columns:       []string{"id", "name", "email", "rating", "text", `"order"`, "is_active", "created_at", "updated_at"},
	OrderBy:       `"order" ASC, created_at DESC`,
	VisibleColumn: "is_active",
	Fields: patch.Mapping{
		{Name: "name", Column: "name", Required: true, Decode: patch.NonEmptyString(255)},
		{Name: "email", Column: "email", Required: true, Decode: patch.Email()},
		{Name: "rating", Column: "rating", Required: true, Decode: patch.Int(1, 5)},
		{Name: "text", Column: "text", Required: true, Decode: patch.NonEmptyString(10000)},
		{Name: "order", Column: `"order"`, Default: 0, Decode: patch.Int(0, 1000000)},
		{Name: "isActive", Column: "is_active", Default: true, Decode: patch.Bool()},
	},
}

var HeroTexts = Descriptor{
	Resource:      "hero text",
	Path:          "hero-texts",
	Table:         "hero_texts",
	Columns:       []string{"id", "title", "subtitle", `"order"`, "is_active", "created_at", "updated_at"},
	OrderBy:       `"order" ASC, created_at DESC`,
	VisibleColumn: "is_active",
	Fields: patch.Mapping{
		{Name: "title", Column: "title", Required: true, Decode: patch.NonEmptyString(255)},
		{Name: "subtitle", Column: "subtitle", Required: true, Decode: patch.NonEmptyString(10000)},
		{Name: "order", Column: `"order"`, Default: 0, Decode: patch.Int(0, 1000000)},
		{Name: "isActive", Column: "is_active", Default: true, Decode: patch.Bool()},
	},
}
