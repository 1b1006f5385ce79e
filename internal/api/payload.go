package api

// Wire payload builders. The service speaks JSON:API with hyphenated keys;
// local manifests use underscored keys, so every gateway maps its params
// struct to hyphenated attribute names here, never by reusing manifest tags.

type payload struct {
	Data payloadResource `json:"data"`
}

type payloadResource struct {
	Type          string         `json:"type"`
	ID            string         `json:"id,omitempty"`
	Attributes    map[string]any `json:"attributes,omitempty"`
	Relationships map[string]any `json:"relationships,omitempty"`
}

func newPayload(typ string, attrs map[string]any) *payload {
	return &payload{Data: payloadResource{Type: typ, Attributes: attrs}}
}

// relate adds a relationship. Omitting a relationship key means "leave the
// existing association alone"; an empty to-many list means "clear it"; the
// two must never be conflated.
func (p *payload) relate(name string, linkage any) *payload {
	if p.Data.Relationships == nil {
		p.Data.Relationships = map[string]any{}
	}
	p.Data.Relationships[name] = linkage
	return p
}

func toOne(typ, id string) map[string]any {
	return map[string]any{"data": ResourceIdentifier{ID: id, Type: typ}}
}

func toMany(typ string, ids []string) map[string]any {
	linkage := make([]ResourceIdentifier, 0, len(ids))
	for _, id := range ids {
		linkage = append(linkage, ResourceIdentifier{ID: id, Type: typ})
	}
	return map[string]any{"data": linkage}
}
