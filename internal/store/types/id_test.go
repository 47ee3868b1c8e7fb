package types_test

import (
	"strings"
	"testing"

	"github.com/pawhub/communitystore/internal/store/types"
	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	t.Parallel()

	id := types.NewID("grp")
	assert.True(t, strings.HasPrefix(id, "grp_"))
	assert.NotEqual(t, id, types.NewID("grp"))
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: "Husky Owners", want: "husky-owners"},
		{name: "collapses separators", input: "Husky   --  Owners", want: "husky-owners"},
		{name: "underscores", input: "husky_owners_club", want: "husky-owners-club"},
		{name: "strips punctuation", input: "Husky Owners!?", want: "husky-owners"},
		{name: "trims edges", input: "  Husky Owners  ", want: "husky-owners"},
		{name: "keeps digits", input: "Top 10 Trails", want: "top-10-trails"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, types.Slugify(tt.input))
		})
	}
}
