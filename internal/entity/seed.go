package entity

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed seed/demo.yaml
var demoYAML []byte

// demoSections holds the demo records as JSON, keyed by collection name.
var demoSections = sync.OnceValues(func() (map[string]json.RawMessage, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(demoYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse demo seed: %w", err)
	}
	out := make(map[string]json.RawMessage, len(doc))
	for name, records := range doc {
		b, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("failed to convert demo seed %q: %w", name, err)
		}
		out[name] = b
	}
	return out, nil
})

// DemoRecords decodes the demo records of a collection. It returns an empty
// slice for collections without demo records.
func DemoRecords[T any](collection string) ([]T, error) {
	sections, err := demoSections()
	if err != nil {
		return nil, err
	}
	raw, ok := sections[collection]
	if !ok {
		return []T{}, nil
	}
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode demo seed %q: %w", collection, err)
	}
	return rows, nil
}

// seed returns a seed function for a kind. The embedded file is covered by
// tests, so a decoding failure is a build defect.
func seed[T any](collection string) func() []T {
	return func() []T {
		rows, err := DemoRecords[T](collection)
		if err != nil {
			panic(err)
		}
		return rows
	}
}
