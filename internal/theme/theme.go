// Package theme supplies the vocabularies and story labels puzzles are
// phrased with. Themes load from YAML files or fall back to built-ins.
package theme

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"svw.info/logicgrid/internal/domain"
)

// Category is one themed axis with a label used in clue sentences.
type Category struct {
	Name  string   `yaml:"name"`
	Label string   `yaml:"label"`
	Items []string `yaml:"items"`
}

// Theme is a complete phrasing vocabulary for one setting.
type Theme struct {
	Name       string     `yaml:"name"`
	Position   string     `yaml:"position"` // noun for a slot, e.g. "desk"
	Categories []Category `yaml:"categories"`
}

// LoadFile reads a YAML theme list.
func LoadFile(path string) ([]Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read themes: %w", err)
	}
	var themes []Theme
	if err := yaml.Unmarshal(data, &themes); err != nil {
		return nil, &domain.ConfigurationError{Reason: "theme file: " + err.Error()}
	}
	for _, t := range themes {
		if err := t.validate(); err != nil {
			return nil, err
		}
	}
	if len(themes) == 0 {
		return nil, &domain.ConfigurationError{Reason: "theme file contains no themes"}
	}
	return themes, nil
}

func (t Theme) validate() error {
	if t.Name == "" {
		return &domain.ConfigurationError{Reason: "theme with empty name"}
	}
	if t.Position == "" {
		return &domain.ConfigurationError{Reason: "theme " + t.Name + " has no position noun"}
	}
	if len(t.Categories) < 2 {
		return &domain.ConfigurationError{Reason: "theme " + t.Name + " needs at least 2 categories"}
	}
	for _, c := range t.Categories {
		if c.Name == "" || c.Label == "" {
			return &domain.ConfigurationError{Reason: "theme " + t.Name + " has a category without name or label"}
		}
		if len(c.Items) < 2 {
			return &domain.ConfigurationError{Reason: "theme " + t.Name + " category " + c.Name + " needs at least 2 items"}
		}
	}
	return nil
}

// Pick chooses one theme through the injected rng.
func Pick(themes []Theme, rng *rand.Rand) Theme {
	return themes[rng.Intn(len(themes))]
}

// Grid samples numCategories categories and n items per category from
// the theme, producing the grid a generation run works on.
func (t Theme) Grid(n, numCategories int, circular bool, rng *rand.Rand) (*domain.Grid, error) {
	if numCategories < 2 || numCategories > len(t.Categories) {
		return nil, &domain.ConfigurationError{
			Reason: fmt.Sprintf("theme %s has %d categories, want %d", t.Name, len(t.Categories), numCategories),
		}
	}
	catIdx := rng.Perm(len(t.Categories))[:numCategories]
	cats := make([]domain.Category, 0, numCategories)
	for _, ci := range catIdx {
		src := t.Categories[ci]
		if len(src.Items) < n {
			return nil, &domain.ConfigurationError{
				Reason: fmt.Sprintf("theme %s category %s has %d items, want %d", t.Name, src.Name, len(src.Items), n),
			}
		}
		items := make([]string, n)
		for i, idx := range rng.Perm(len(src.Items))[:n] {
			items[i] = src.Items[idx]
		}
		cats = append(cats, domain.Category{Name: src.Name, Items: items})
	}
	g := &domain.Grid{N: n, Circular: circular, Categories: cats}
	return g, g.Validate()
}

// Labels maps category names to their sentence labels, with the
// position noun under the "position" key.
func (t Theme) Labels() map[string]string {
	out := make(map[string]string, len(t.Categories)+1)
	out["position"] = t.Position
	for _, c := range t.Categories {
		out[c.Name] = c.Label
	}
	return out
}

// Defaults returns the built-in themes used when no file is supplied.
func Defaults() []Theme {
	return []Theme{
		{
			Name:     "Office Mystery",
			Position: "desk",
			Categories: []Category{
				{Name: "employee", Label: "employee", Items: []string{
					"Ivanov", "Petrov", "Smirnov", "Kuznetsov", "Volkov", "Sokolov", "Lebedev", "Orlov"}},
				{Name: "department", Label: "department", Items: []string{
					"Finance", "Marketing", "IT", "HR", "Sales", "Logistics", "Security", "Analytics"}},
				{Name: "project", Label: "project", Items: []string{
					"Alpha", "Omega", "Quant", "Zenith", "Titan", "Orion", "Spectrum", "Impulse"}},
				{Name: "drink", Label: "drink", Items: []string{
					"coffee", "green tea", "black tea", "water", "latte", "cappuccino", "espresso", "juice"}},
			},
		},
		{
			Name:     "Space Odyssey",
			Position: "docking bay",
			Categories: []Category{
				{Name: "captain", Label: "captain", Items: []string{
					"Reynolds", "Shepard", "Adama", "Starbuck", "Picard", "Solo", "Ackbar", "Janeway"}},
				{Name: "ship", Label: "ship", Items: []string{
					"Serenity", "Normandy", "Galactica", "Star Cruiser", "Enterprise", "Falcon", "Prometheus", "Voyager"}},
				{Name: "sector", Label: "sector", Items: []string{
					"Orion", "Andromeda", "Pleiades", "Centauri", "Hydra", "Void", "Quasar", "Nebula"}},
				{Name: "anomaly", Label: "anomaly", Items: []string{
					"wormhole", "gravity well", "temporal shift", "neutron storm", "psi field", "xeno artifact", "singularity", "dark nexus"}},
			},
		},
	}
}
