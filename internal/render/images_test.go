package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssh_admin/internal/domain"
	"ssh_admin/internal/render"
)

func TestImages_EmptyGivesPlaceholder(t *testing.T) {
	for name, imgs := range map[string]domain.Images{
		"nil":          nil,
		"empty":        {},
		"all empty":    {"exterior": {}, "rooms": nil},
		"unknown only": {"rooftop": {"x.jpg"}},
	} {
		t.Run(name, func(t *testing.T) {
			v := render.Images(imgs)
			assert.Empty(t, v.Sections)
			assert.Equal(t, render.NoImages, v.Placeholder)
		})
	}
}

func TestImages_SingleRoomPhoto(t *testing.T) {
	v := render.Images(domain.Images{"rooms": {"a.jpg"}})
	require.Len(t, v.Sections, 1)
	assert.Empty(t, v.Placeholder)

	sec := v.Sections[0]
	assert.Equal(t, "Room Photos", sec.Label)
	assert.Equal(t, 1, sec.Count)
	require.Len(t, sec.Images, 1)
	assert.Equal(t, render.ImageEntry{Index: 1, URL: "a.jpg", Alt: "Room Photos 1"}, sec.Images[0])
}

func TestImages_FixedCategoryOrder(t *testing.T) {
	v := render.Images(domain.Images{
		"other":    {"o.jpg"},
		"exterior": {"e1.jpg", "e2.jpg"},
		"washroom": {"w.jpg"},
	})
	var got []string
	for _, s := range v.Sections {
		got = append(got, s.Category)
	}
	assert.Equal(t, []string{"exterior", "washroom", "other"}, got)
}
