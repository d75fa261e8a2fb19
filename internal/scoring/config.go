// Package scoring provides the weighted relevance model for catalog search.
package scoring

// Weights holds all configuration for the scoring model. The numeric values
// are a tunable policy, not semantics: callers should load them from config
// rather than relying on the specific defaults.
type Weights struct {
	// Code matches, strongest signals first.
	CodeExact    float64 `yaml:"code_exact"`    // default: 100
	CodePrefix   float64 `yaml:"code_prefix"`   // default: 70
	CodeContains float64 `yaml:"code_contains"` // default: 50

	// Description matches.
	DescriptionWord     float64 `yaml:"description_word"`     // default: 60
	DescriptionContains float64 `yaml:"description_contains"` // default: 30

	// Brand matches.
	BrandExact    float64 `yaml:"brand_exact"`    // default: 40
	BrandContains float64 `yaml:"brand_contains"` // default: 20

	// Category match, lowest positive signal.
	CategoryExact float64 `yaml:"category_exact"` // default: 10

	// OccurrenceBonus is added per additional whole-word occurrence of a
	// query word anywhere in the search text.
	OccurrenceBonus float64 `yaml:"occurrence_bonus"` // default: 5

	// Normalizer divides the summed score to map it into roughly [0,1].
	Normalizer float64 `yaml:"normalizer"` // default: 300

	// MinScore drops candidates scoring below it after normalization.
	MinScore float64 `yaml:"min_score"` // default: 0.02
}

// DefaultWeights returns the default scoring configuration.
func DefaultWeights() *Weights {
	return &Weights{
		CodeExact:    100,
		CodePrefix:   70,
		CodeContains: 50,

		DescriptionWord:     60,
		DescriptionContains: 30,

		BrandExact:    40,
		BrandContains: 20,

		CategoryExact: 10,

		OccurrenceBonus: 5,
		Normalizer:      300,
		MinScore:        0.02,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (w *Weights) ApplyDefaults() {
	d := DefaultWeights()
	if w.CodeExact == 0 {
		w.CodeExact = d.CodeExact
	}
	if w.CodePrefix == 0 {
		w.CodePrefix = d.CodePrefix
	}
	if w.CodeContains == 0 {
		w.CodeContains = d.CodeContains
	}
	if w.DescriptionWord == 0 {
		w.DescriptionWord = d.DescriptionWord
	}
	if w.DescriptionContains == 0 {
		w.DescriptionContains = d.DescriptionContains
	}
	if w.BrandExact == 0 {
		w.BrandExact = d.BrandExact
	}
	if w.BrandContains == 0 {
		w.BrandContains = d.BrandContains
	}
	if w.CategoryExact == 0 {
		w.CategoryExact = d.CategoryExact
	}
	if w.OccurrenceBonus == 0 {
		w.OccurrenceBonus = d.OccurrenceBonus
	}
	if w.Normalizer == 0 {
		w.Normalizer = d.Normalizer
	}
	if w.MinScore == 0 {
		w.MinScore = d.MinScore
	}
}
