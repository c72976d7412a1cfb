package models

// Cabin is one rentable unit from the catalog. The catalog lives in
// configuration, not in the database: it changes when the business builds
// a cabin, not at runtime.
type Cabin struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Capacity  int    `yaml:"capacity" json:"capacity"`
	SortOrder int    `yaml:"sort_order" json:"sort_order"`
	IsActive  bool   `yaml:"is_active" json:"is_active"`
}
