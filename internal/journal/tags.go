package journal

import "strings"

// Mood is a predefined tag with a display colour.
type Mood struct {
	Name  string
	Color string
}

// DefaultTagColor is used for tags outside the predefined moods.
const DefaultTagColor = "#95A5A6"

var moods = []Mood{
	{Name: "Happy", Color: "#FFD700"},
	{Name: "Sad", Color: "#4682B4"},
	{Name: "Excited", Color: "#FF6347"},
	{Name: "Calm", Color: "#98FB98"},
	{Name: "Anxious", Color: "#DDA0DD"},
	{Name: "Grateful", Color: "#F0E68C"},
	{Name: "Frustrated", Color: "#CD5C5C"},
	{Name: "Peaceful", Color: "#87CEEB"},
	{Name: "Energetic", Color: "#FFA500"},
	{Name: "Reflective", Color: "#D3D3D3"},
}

// Moods returns a copy of the predefined mood tags.
func Moods() []Mood {
	out := make([]Mood, len(moods))
	copy(out, moods)
	return out
}

// TagColor returns the colour for a mood tag (case-insensitive) or DefaultTagColor.
func TagColor(tag string) string {
	for _, mood := range moods {
		if strings.EqualFold(mood.Name, tag) {
			return mood.Color
		}
	}
	return DefaultTagColor
}

// NormalizeTags makes tags survive the entry heading: leading '#' is dropped,
// inner whitespace runs become '-', and empty or repeated tags are removed.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.Join(strings.Fields(strings.TrimLeft(strings.TrimSpace(tag), "#")), "-")
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
