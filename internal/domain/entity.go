package domain

// EntityStats is the small stat bundle shown on a player/team card.
type EntityStats struct {
	Matches int `json:"matches" yaml:"matches"`
	Goals   int `json:"goals" yaml:"goals"`
	Assists int `json:"assists" yaml:"assists"`
}

// Entity is static reference data for a player or team marker such as @Messi.
type Entity struct {
	ID          string      `json:"id" yaml:"id"`
	Tag         string      `json:"tag" yaml:"tag"`
	Name        string      `json:"name" yaml:"name"`
	Team        string      `json:"team" yaml:"team"`
	Stats       EntityStats `json:"stats" yaml:"stats"`
	ImageURL    string      `json:"imageUrl" yaml:"imageUrl"`
	Description string      `json:"description" yaml:"description"`
	// Keywords trigger tagging; when empty the tag without its sigil is used.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords"`
}
