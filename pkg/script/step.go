package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Op names a script operation.
type Op string

const (
	OpAdd       Op = "add"
	OpUpdate    Op = "update"
	OpDelete    Op = "delete"
	OpDuplicate Op = "duplicate"
	OpMove      Op = "move"
	OpReparent  Op = "reparent"
	OpCopy      Op = "copy"
	OpPaste     Op = "paste"
	OpSelect    Op = "select"
	OpView      Op = "view"
	OpUndo      Op = "undo"
	OpRedo      Op = "redo"
)

// LastRef resolves to the identifier created by the previous creating step.
const LastRef = "$last"

// ErrUnknownOp is returned for steps whose op is not recognised.
var ErrUnknownOp = errors.New("script: unknown op")

// Step is one scripted operation. Only the keys relevant to Op are read.
type Step struct {
	Op        Op        `yaml:"op"`
	ID        string    `yaml:"id,omitempty"`
	Type      string    `yaml:"type,omitempty"`
	Parent    string    `yaml:"parent,omitempty"`
	Order     *int      `yaml:"order,omitempty"`
	Direction string    `yaml:"direction,omitempty"`
	Mode      string    `yaml:"mode,omitempty"`
	Field     yaml.Node `yaml:"field,omitempty"`
}

func (s Step) String() string {
	parts := []string{string(s.Op)}
	for _, v := range []string{s.ID, s.Type, s.Parent, s.Direction, s.Mode} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

type document struct {
	Steps []Step `yaml:"steps"`
}

// Parse decodes a script. Both a bare list of steps and a mapping with a
// "steps" key are accepted.
func Parse(data []byte) ([]Step, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("script: parse: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	body := root.Content[0]

	var steps []Step
	switch body.Kind {
	case yaml.SequenceNode:
		if err := body.Decode(&steps); err != nil {
			return nil, fmt.Errorf("script: parse: %w", err)
		}
	case yaml.MappingNode:
		var doc document
		if err := body.Decode(&doc); err != nil {
			return nil, fmt.Errorf("script: parse: %w", err)
		}
		steps = doc.Steps
	default:
		return nil, fmt.Errorf("script: parse: expected a list of steps at line %d", body.Line)
	}

	for i := range steps {
		steps[i].Op = Op(strings.ToLower(strings.TrimSpace(string(steps[i].Op))))
		if steps[i].Op == "" {
			return nil, fmt.Errorf("script: step %d: op is required", i+1)
		}
	}
	return steps, nil
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	return Parse(data)
}
