package editor

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formedit/pkg/hierarchy"
	"github.com/goliatone/go-formedit/pkg/schema"
)

// Direction is the sibling move direction.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// ParseDirection accepts "up" or "down" (case-insensitive).
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return Up, fmt.Errorf("editor: unknown direction %q", raw)
	}
}

// AddField appends a new field of fieldType under parentID ("" for a root)
// and selects it. The identifier is the lower-cased type tag plus the first
// free numeric suffix; the label comes from the labeler. A nil order places
// the field after its last sibling.
func (s *State) AddField(fieldType, parentID string, order *int) (string, error) {
	var id string
	err := s.mutate("add", func(next *schema.Module) (string, error) {
		tag := strings.TrimSpace(fieldType)
		if tag == "" {
			return "", ErrInvalidType
		}
		if parentID != "" && !next.HasField(parentID) {
			return "", fmt.Errorf("%w: %q", ErrParentNotFound, parentID)
		}

		field := schema.Field{
			ID:       nextFieldID(*next, tag),
			Type:     tag,
			ParentID: parentID,
			Order:    next.NextChildOrder(parentID),
		}
		if order != nil {
			field.Order = *order
		}
		if label := s.labeler.DefaultLabel(tag); label != "" {
			field.Label = schema.Text(label)
		}
		next.Fields = append(next.Fields, field)
		id = field.ID
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateField replaces the field sharing field.ID. A changed ParentID must
// reference an existing field outside the field's own subtree.
func (s *State) UpdateField(field schema.Field) error {
	return s.mutate("update", func(next *schema.Module) (string, error) {
		idx := next.IndexOf(field.ID)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, field.ID)
		}
		if field.ParentID != next.Fields[idx].ParentID {
			if err := checkParent(*next, field.ID, field.ParentID); err != nil {
				return "", err
			}
		}
		next.Fields[idx] = field.Clone()
		return "", nil
	})
}

// DeleteField removes id and all of its descendants. A selection inside the
// removed subtree is cleared.
func (s *State) DeleteField(id string) error {
	return s.mutate("delete", func(next *schema.Module) (string, error) {
		if !next.HasField(id) {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, id)
		}
		removed := map[string]struct{}{id: {}}
		for _, child := range hierarchy.Descendants(next.Fields, id) {
			removed[child] = struct{}{}
		}
		kept := next.Fields[:0]
		for _, field := range next.Fields {
			if _, drop := removed[field.ID]; drop {
				continue
			}
			kept = append(kept, field)
		}
		next.Fields = kept
		return "", nil
	})
}

// DuplicateField inserts a copy of id directly after it among its siblings,
// with a fresh identifier and a "(copy)" label suffix, and selects it.
// Children are not duplicated.
func (s *State) DuplicateField(id string) (string, error) {
	var newID string
	err := s.mutate("duplicate", func(next *schema.Module) (string, error) {
		idx := next.IndexOf(id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, id)
		}
		original := next.Fields[idx]

		duplicate := original.Clone()
		duplicate.ID = nextFieldID(*next, original.Type)
		duplicate.Order = original.Order + 1
		duplicate.Label = original.Label.WithSuffix("(copy)")

		for i := range next.Fields {
			sibling := &next.Fields[i]
			if i == idx || sibling.ParentID != original.ParentID {
				continue
			}
			if sibling.Order > original.Order {
				sibling.Order++
			}
		}

		fields := make([]schema.Field, 0, len(next.Fields)+1)
		fields = append(fields, next.Fields[:idx+1]...)
		fields = append(fields, duplicate)
		fields = append(fields, next.Fields[idx+1:]...)
		next.Fields = fields

		newID = duplicate.ID
		return newID, nil
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

// MoveField swaps the order of id with its adjacent sibling in direction.
// When the two share an order value the earlier of the pair is bumped by one
// so it sorts after the other. No other sibling is touched.
func (s *State) MoveField(id string, direction Direction) error {
	return s.mutate("move-"+direction.String(), func(next *schema.Module) (string, error) {
		idx := next.IndexOf(id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, id)
		}
		siblings := next.Children(next.Fields[idx].ParentID)
		pos := -1
		for i, sibling := range siblings {
			if sibling.ID == id {
				pos = i
				break
			}
		}

		target := pos - 1
		if direction == Down {
			target = pos + 1
		}
		if target < 0 || target >= len(siblings) {
			return "", fmt.Errorf("%w: %q %s", ErrBoundary, id, direction)
		}

		first, second := siblings[pos], siblings[target]
		if target < pos {
			first, second = second, first
		}
		orders := map[string]int{
			first.ID:  second.Order,
			second.ID: first.Order,
		}
		if first.Order == second.Order {
			orders[first.ID] = first.Order + 1
		}

		for i := range next.Fields {
			if order, ok := orders[next.Fields[i].ID]; ok {
				next.Fields[i].Order = order
			}
		}
		return "", nil
	})
}

// ChangeFieldParent moves id under newParentID ("" for the root level) and
// places it after the new parent's existing children. Nesting a field under
// itself or one of its descendants is rejected with ErrCycle.
func (s *State) ChangeFieldParent(id, newParentID string) error {
	return s.mutate("reparent", func(next *schema.Module) (string, error) {
		idx := next.IndexOf(id)
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrFieldNotFound, id)
		}
		if err := checkParent(*next, id, newParentID); err != nil {
			return "", err
		}

		order := 0
		found := false
		for _, sibling := range next.Fields {
			if sibling.ID == id || sibling.ParentID != newParentID {
				continue
			}
			if !found || sibling.Order+1 > order {
				order = sibling.Order + 1
				found = true
			}
		}
		next.Fields[idx].ParentID = newParentID
		next.Fields[idx].Order = order
		return "", nil
	})
}

func checkParent(module schema.Module, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if !module.HasField(parentID) {
		return fmt.Errorf("%w: %q", ErrParentNotFound, parentID)
	}
	if parentID == id {
		return fmt.Errorf("%w: %q", ErrCycle, id)
	}
	for _, descendant := range hierarchy.Descendants(module.Fields, id) {
		if descendant == parentID {
			return fmt.Errorf("%w: %q is a descendant of %q", ErrCycle, parentID, id)
		}
	}
	return nil
}

// nextFieldID returns lower(tag)_n for the smallest n >= 1 not in use.
func nextFieldID(module schema.Module, tag string) string {
	base := strings.Join(strings.Fields(strings.ToLower(tag)), "_")
	used := module.IDs()
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}
