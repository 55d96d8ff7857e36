package models

import (
	"encoding/json"
	"strings"
)

// Game represents one catalog entry. Every field is optional.
type Game struct {
	Title         string   `json:"title,omitempty"`
	Platforms     []string `json:"platforms,omitempty"`
	RecommendedBy string   `json:"recommendedBy,omitempty"`
	Why           string   `json:"why,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Wiki          string   `json:"wiki,omitempty"`
	Image         string   `json:"image,omitempty"` // Decorative, may be empty
}

// UnmarshalJSON decodes a catalog entry leniently: numbers and booleans in
// text fields keep their literal text, while null, arrays and objects read
// as empty. Lists that are not arrays read as empty too, so one odd field
// never rejects the whole catalog.
func (g *Game) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title         text     `json:"title"`
		Platforms     textList `json:"platforms"`
		RecommendedBy text     `json:"recommendedBy"`
		Why           text     `json:"why"`
		Tags          textList `json:"tags"`
		Wiki          text     `json:"wiki"`
		Image         text     `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = Game{
		Title:         string(raw.Title),
		Platforms:     raw.Platforms.strings(),
		RecommendedBy: string(raw.RecommendedBy),
		Why:           string(raw.Why),
		Tags:          raw.Tags.strings(),
		Wiki:          string(raw.Wiki),
		Image:         string(raw.Image),
	}
	return nil
}

// text is a string field that also accepts other JSON scalars.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
	case 'n', '[', '{':
		*t = ""
	default:
		*t = text(data)
	}
	return nil
}

// textList is a list field whose elements are decoded as text.
type textList []text

func (l *textList) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || data[0] != '[' {
		*l = nil
		return nil
	}
	var items []text
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

func (l textList) strings() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l))
	for i, t := range l {
		out[i] = string(t)
	}
	return out
}

// SearchText returns the lowercased text the search box matches against:
// title, platforms, tags, why and recommendedBy joined by single spaces.
func (g Game) SearchText() string {
	parts := []string{
		g.Title,
		strings.Join(g.Platforms, " "),
		strings.Join(g.Tags, " "),
		g.Why,
		g.RecommendedBy,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// PlatformLine returns the platforms joined for display.
func (g Game) PlatformLine() string {
	return strings.Join(g.Platforms, ", ")
}

// TagLine returns the tags as space separated hashtags, or "" without tags.
func (g Game) TagLine() string {
	if len(g.Tags) == 0 {
		return ""
	}
	tags := make([]string, len(g.Tags))
	for i, t := range g.Tags {
		tags[i] = "#" + t
	}
	return strings.Join(tags, " ")
}

// GameList is the JSON envelope used by the games API
type GameList struct {
	Items      []Game `json:"items"`
	TotalCount int    `json:"total_count"`
	Version    string `json:"version,omitempty"`
}
