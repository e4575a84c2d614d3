package render

import (
	"strings"
	"unicode"

	"ssh_admin/internal/domain"
)

const NoneSpecified = "None specified"

// Amenities lists enabled amenities in their original order, humanized.
func Amenities(a domain.Amenities) string {
	var names []string
	for _, it := range a {
		if it.Enabled {
			names = append(names, Humanize(it.Name))
		}
	}
	if len(names) == 0 {
		return NoneSpecified
	}
	return strings.Join(names, ", ")
}

// Humanize inserts a space before every upper-case letter: "roomService"
// becomes "room Service".
func Humanize(key string) string {
	var b strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func CustomAmenities(list []string) string {
	var out []string
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ", ")
}
