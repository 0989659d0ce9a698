// AngelaMos | 2026
// descriptor_test.go

package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Ranked kinds display by ascending order with newest entries first
// inside a rank; blog posts display by publication date.
func TestDisplayOrdering(t *testing.T) {
	ranked := []Descriptor{Services, Portfolio, Testimonials, HeroTexts}
	for _, d := range ranked {
		assert.Equal(t, `"order" ASC, created_at DESC`, d.OrderBy, d.Resource)
	}

	assert.Equal(t, "date DESC, created_at DESC", BlogPosts.OrderBy)
}
