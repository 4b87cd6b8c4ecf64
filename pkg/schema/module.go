package schema

import "time"

// Module is a complete form definition: metadata plus its ordered field
// collection. Fields do not outlive their module.
type Module struct {
	ID          int64         `json:"id" yaml:"id"`
	Title       LocalizedText `json:"title,omitempty" yaml:"title,omitempty"`
	Description LocalizedText `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field       `json:"fields" yaml:"fields"`
	Version     int           `json:"version" yaml:"version"`
	UpdatedAt   time.Time     `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Summary is the lightweight listing shape returned by stores.
type Summary struct {
	ID         int64         `json:"id" yaml:"id"`
	Title      LocalizedText `json:"title,omitempty" yaml:"title,omitempty"`
	Version    int           `json:"version" yaml:"version"`
	FieldCount int           `json:"fieldCount" yaml:"fieldCount"`
	UpdatedAt  time.Time     `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Clone returns a detached deep copy suitable for snapshots.
func (m Module) Clone() Module {
	out := m
	out.Title = m.Title.Clone()
	out.Description = m.Description.Clone()
	if m.Fields != nil {
		out.Fields = make([]Field, len(m.Fields))
		for i, field := range m.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// Summary projects the module into its listing shape.
func (m Module) Summary() Summary {
	return Summary{
		ID:         m.ID,
		Title:      m.Title.Clone(),
		Version:    m.Version,
		FieldCount: len(m.Fields),
		UpdatedAt:  m.UpdatedAt,
	}
}

// IndexOf returns the slice position of the field with id, or -1.
func (m Module) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range m.Fields {
		if m.Fields[i].ID == id {
			return i
		}
	}
	return -1
}

// HasField reports whether a field with id exists.
func (m Module) HasField(id string) bool {
	return m.IndexOf(id) >= 0
}

// FieldByID returns a detached copy of the field with id.
func (m Module) FieldByID(id string) (Field, bool) {
	idx := m.IndexOf(id)
	if idx < 0 {
		return Field{}, false
	}
	return m.Fields[idx].Clone(), true
}

// Children returns copies of the direct children of parentID (empty for
// roots), sorted by Order then ID.
func (m Module) Children(parentID string) []Field {
	var out []Field
	for _, field := range m.Fields {
		if field.ParentID == parentID {
			out = append(out, field.Clone())
		}
	}
	SortFields(out)
	return out
}

// NextChildOrder returns one greater than the highest Order among the
// children of parentID, or 0 when it has none.
func (m Module) NextChildOrder(parentID string) int {
	next := 0
	found := false
	for _, field := range m.Fields {
		if field.ParentID != parentID {
			continue
		}
		if !found || field.Order+1 > next {
			next = field.Order + 1
			found = true
		}
	}
	return next
}

// IDs returns the set of field identifiers.
func (m Module) IDs() map[string]struct{} {
	out := make(map[string]struct{}, len(m.Fields))
	for _, field := range m.Fields {
		out[field.ID] = struct{}{}
	}
	return out
}
