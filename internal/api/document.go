package api

import (
	"encoding/json"
	"strings"
)

// MediaType is the JSON:API media type used by the service.
const MediaType = "application/vnd.api+json"

// Document is a parsed JSON:API document: a primary resource, side-loaded
// included resources, and/or a list of errors.
type Document struct {
	Data     Resource        `json:"data"`
	Included []Resource      `json:"included"`
	Errors   []DocumentError `json:"errors"`
}

// Resource is one JSON:API resource object.
type Resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships"`
}

// Relationship holds either a to-one or to-many linkage.
type Relationship struct {
	ToOne  *ResourceIdentifier
	ToMany []ResourceIdentifier
}

// ResourceIdentifier is a type/id pair referencing another resource.
type ResourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// DocumentError is one entry of a JSON:API errors array.
type DocumentError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Source struct {
		Pointer string `json:"pointer"`
	} `json:"source"`
}

// UnmarshalJSON accepts both linkage shapes: {"data": {...}} and
// {"data": [...]}.
func (r *Relationship) UnmarshalJSON(b []byte) error {
	var probe struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	data := strings.TrimSpace(string(probe.Data))
	if data == "" || data == "null" {
		return nil
	}
	if data[0] == '[' {
		return json.Unmarshal(probe.Data, &r.ToMany)
	}
	r.ToOne = &ResourceIdentifier{}
	return json.Unmarshal(probe.Data, r.ToOne)
}

// Attr returns a string attribute, or "" when absent or not a string.
func (r Resource) Attr(name string) string {
	s, _ := r.Attributes[name].(string)
	return s
}

// AttrInt returns an integer attribute. JSON numbers decode as float64.
func (r Resource) AttrInt(name string) (int, bool) {
	f, ok := r.Attributes[name].(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// AttrBool returns a boolean attribute.
func (r Resource) AttrBool(name string) bool {
	b, _ := r.Attributes[name].(bool)
	return b
}

// RelatedID returns the id of a to-one relationship, or "".
func (r Resource) RelatedID(name string) string {
	rel, ok := r.Relationships[name]
	if !ok || rel.ToOne == nil {
		return ""
	}
	return rel.ToOne.ID
}

// RelatedIDs returns the ids of a to-many relationship.
func (r Resource) RelatedIDs(name string) []string {
	rel, ok := r.Relationships[name]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(rel.ToMany))
	for _, ri := range rel.ToMany {
		ids = append(ids, ri.ID)
	}
	return ids
}

// IncludedOfType returns every included resource with the given type.
func (d *Document) IncludedOfType(typ string) []Resource {
	var out []Resource
	for _, res := range d.Included {
		if res.Type == typ {
			out = append(out, res)
		}
	}
	return out
}

// fieldErrors groups the document's errors by the last segment of each
// source pointer, preserving first-seen field order.
func (d *Document) fieldErrors() []FieldError {
	var out []FieldError
	index := map[string]int{}

	for _, e := range d.Errors {
		field := ""
		if p := e.Source.Pointer; p != "" {
			parts := strings.Split(p, "/")
			field = parts[len(parts)-1]
		}
		msg := e.Detail
		if msg == "" {
			msg = e.Title
		}
		if i, ok := index[field]; ok {
			out[i].Messages = append(out[i].Messages, msg)
			continue
		}
		index[field] = len(out)
		out = append(out, FieldError{Field: field, Messages: []string{msg}})
	}
	return out
}
