package geo

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Dataset is a base map document: the regions and their country cells,
// in render order. The macro panel cannot draw until one is registered.
type Dataset struct {
	Name    string   `yaml:"name" json:"name"`
	Regions []Region `yaml:"regions" json:"regions"`
}

// Region is one labelled group of countries on the map strip.
type Region struct {
	Name      string   `yaml:"name" json:"name"`
	Countries []string `yaml:"countries" json:"countries"`
}

// ParseDataset decodes a dataset document. The remote source serves
// JSON and the bundled fallback is YAML; yaml.v3 reads both.
func ParseDataset(doc []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(doc, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse map dataset: %w", err)
	}
	if len(ds.Regions) == 0 {
		return Dataset{}, fmt.Errorf("map dataset %q has no regions", ds.Name)
	}
	return ds, nil
}

// Registry holds registered base map datasets by namespace. Register
// is idempotent: the first dataset for a namespace wins.
type Registry struct {
	mu   sync.Mutex
	sets map[string]Dataset
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]Dataset)}
}

// Register stores ds under namespace unless one is already present.
func (r *Registry) Register(namespace string, ds Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sets[namespace]; ok {
		return
	}
	r.sets[namespace] = ds
}

// Get returns the dataset for namespace, if registered.
func (r *Registry) Get(namespace string) (Dataset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ds, ok := r.sets[namespace]
	return ds, ok
}

// bundledWorld is the fallback base map shipped with the binary, used
// when the primary remote source is unreachable.
const bundledWorld = `
name: world
regions:
  - name: Americas
    countries: [US, CA, MX, BR, AR, CL]
  - name: Europe
    countries: [GB, DE, FR, IT, ES, NL, CH, SE, PL, TR]
  - name: Asia-Pacific
    countries: [CN, JP, KR, IN, ID, SG, TW, AU]
  - name: Middle East & Africa
    countries: [SA, AE, IL, EG, ZA, NG]
`

// BundledWorld returns the built-in world dataset.
func BundledWorld() Dataset {
	ds, err := ParseDataset([]byte(bundledWorld))
	if err != nil {
		// The bundled document is compiled in; a parse failure is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return ds
}
