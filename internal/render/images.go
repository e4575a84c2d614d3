// Package render turns registrations into display-ready view models. Every
// function here is pure: no I/O, no shared state.
package render

import (
	"fmt"

	"ssh_admin/internal/domain"
)

const NoImages = "No images uploaded"

type imageCategory struct{ key, label string }

// display order is fixed
var imageCategories = []imageCategory{
	{"exterior", "Exterior Photos"},
	{"lobby", "Lobby Photos"},
	{"rooms", "Room Photos"},
	{"washroom", "Washroom Photos"},
	{"other", "Other Photos"},
}

type ImageEntry struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Alt   string `json:"alt"`
}

type ImageSection struct {
	Category string       `json:"category"`
	Label    string       `json:"label"`
	Count    int          `json:"count"`
	Images   []ImageEntry `json:"images"`
}

// ImageView holds either Sections or, when nothing was uploaded, Placeholder.
type ImageView struct {
	Sections    []ImageSection `json:"sections,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
}

func Images(imgs domain.Images) ImageView {
	var out ImageView
	for _, c := range imageCategories {
		list := imgs[c.key]
		if len(list) == 0 {
			continue
		}
		sec := ImageSection{Category: c.key, Label: c.label, Count: len(list)}
		for i, u := range list {
			sec.Images = append(sec.Images, ImageEntry{
				Index: i + 1,
				URL:   u,
				Alt:   fmt.Sprintf("%s %d", c.label, i+1),
			})
		}
		out.Sections = append(out.Sections, sec)
	}
	if len(out.Sections) == 0 {
		out.Placeholder = NoImages
	}
	return out
}
