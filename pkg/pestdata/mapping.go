package pestdata

import (
	"encoding/json"
	"fmt"
	"os"
)

// ClassMapping maps pest class names to the dense output indices of the
// classifier. Indices start at 0 and record the order in which classes were
// discovered while building the dataset, so the mapping doubles as the
// ordered label list for the model.
type ClassMapping map[string]int

// Add assigns the next free index to name, if it is not mapped yet.
// Returns the index of name.
func (m ClassMapping) Add(name string) int {
	if idx, ok := m[name]; ok {
		return idx
	}
	idx := len(m)
	m[name] = idx
	return idx
}

// Classes returns the class names ordered by index, for feeding to the
// classifier. Call Validate first if the mapping comes from disk.
func (m ClassMapping) Classes() []string {
	names := make([]string, len(m))
	for name, idx := range m {
		if idx >= 0 && idx < len(names) {
			names[idx] = name
		}
	}
	return names
}

// Validate checks that the indices are exactly 0..n-1, each used once
func (m ClassMapping) Validate() error {
	seen := make([]bool, len(m))
	for name, idx := range m {
		if idx < 0 || idx >= len(m) {
			return fmt.Errorf("Class '%v' has index %v, outside 0..%v", name, idx, len(m)-1)
		}
		if seen[idx] {
			return fmt.Errorf("Class index %v is used more than once", idx)
		}
		seen[idx] = true
	}
	return nil
}

// Save writes the mapping as indented JSON
func (m ClassMapping) Save(filename string) error {
	raw, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, raw, 0666)
}

// LoadClassMapping reads and validates a class mapping file
func LoadClassMapping(filename string) (ClassMapping, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	mapping := ClassMapping{}
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("Failed to parse class mapping %v: %w", filename, err)
	}
	if err := mapping.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid class mapping %v: %w", filename, err)
	}
	return mapping, nil
}
