package catalog

import "github.com/MrSnakeDoc/beanstalk/internal/domain"

// File is the top-level structure of a categories.yaml file.
//
//	categories:
//	  - id: selfcare
//	    label: Wellness
//	    keywords: [run, swim, stretch]
type File struct {
	Categories []Override `yaml:"categories"`
}

// Override replaces the label and/or keyword list of one built-in category.
// Nil fields keep the built-in value; an explicit empty keyword list clears it.
type Override struct {
	ID       domain.CategoryID `yaml:"id"`
	Label    *string           `yaml:"label,omitempty"`
	Keywords *[]string         `yaml:"keywords,omitempty"`
	Points   *int              `yaml:"points,omitempty"`
}
