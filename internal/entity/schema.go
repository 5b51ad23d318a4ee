// Describes entity kinds as JSON Schema and column lists for generic clients.

package entity

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
)

// Column describes one field of an entity kind.
type Column struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Required    bool     `json:"required,omitempty"`
	Description string   `json:"description,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// Schema returns the JSON Schema of the named collection or document. The
// identifier is read-only and never required.
func Schema(name string) (*jsonschema.Schema, error) {
	info, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", name)
	}
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	schema := r.ReflectFromType(info.Type)
	schema.Title = info.Label
	schema.Required = slices.DeleteFunc(schema.Required, func(s string) bool { return s == "id" })
	if id, ok := schema.Properties.Get("id"); ok {
		id.ReadOnly = true
	}
	return schema, nil
}

// Columns lists the fields of the named collection or document in
// declaration order.
func Columns(name string) ([]Column, error) {
	schema, err := Schema(name)
	if err != nil {
		return nil, err
	}
	info, _ := Lookup(name)
	required := make(map[string]bool, len(schema.Required))
	for _, n := range schema.Required {
		required[n] = true
	}
	var columns []Column
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop := pair.Value
		col := Column{
			Name:        pair.Key,
			Type:        columnType(info.Type, pair.Key),
			Required:    required[pair.Key],
			Description: prop.Description,
		}
		for _, v := range prop.Enum {
			if s, ok := v.(string); ok {
				col.Options = append(col.Options, s)
			}
		}
		if len(col.Options) != 0 {
			col.Type = "select"
		} else if prop.Format == "date" {
			col.Type = "date"
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// columnType maps the Go type of the field tagged name to a column type.
func columnType(t reflect.Type, name string) string {
	for i := range t.NumField() {
		field := t.Field(i)
		tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if tag != name {
			continue
		}
		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Bool:
			return "checkbox"
		case reflect.Int, reflect.Int64, reflect.Float64:
			return "number"
		case reflect.Slice, reflect.Struct:
			return "list"
		default:
			return "text"
		}
	}
	return "text"
}
