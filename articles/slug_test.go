package articles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"already lowercase", "golang", "golang"},
		{"punctuation collapses", "Go: the good, the bad & the ugly", "go-the-good-the-bad-the-ugly"},
		{"digits survive", "Top 10 Tips", "top-10-tips"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
		{"consecutive separators", "a  ..  b", "a-b"},
		{"nothing usable", "???", "untitled"},
		{"empty title", "", "untitled"},
		{"non-ascii stripped", "Café au lait", "caf-au-lait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.title))
		})
	}
}
