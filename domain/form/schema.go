package form

import (
	"fmt"
	"strings"
)

// FieldType is the value shape a field accepts
type FieldType string

const (
	TypeText   FieldType = "text"
	TypeNumber FieldType = "number"
	TypeBool   FieldType = "bool"
	TypeMulti  FieldType = "multi"
)

// Field declares one input of a form
type Field struct {
	Name     string    `yaml:"name"`
	Label    string    `yaml:"label"`
	Type     FieldType `yaml:"type"`
	Required bool      `yaml:"required"`
	Rules    []Rule    `yaml:"rules"`
}

// Step is one page of a wizard
type Step struct {
	Index  int
	Title  string
	Fields []*Field
}

// RequiredFields lists fields that must pass before leaving the step.
func (s Step) RequiredFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// OptionalFields lists fields that only gate the step once filled in.
func (s Step) OptionalFields() []string {
	var names []string
	for _, f := range s.Fields {
		if !f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Names lists every field of the step in declaration order.
func (s Step) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// StepSpec is the construction input for one step.
type StepSpec struct {
	Title  string   `yaml:"title"`
	Fields []*Field `yaml:"fields"`
}

// Schema is the immutable definition of a multi-step form. Every field
// belongs to exactly one step.
type Schema struct {
	Name  string
	Title string
	Steps []Step

	fields map[string]*Field
	stepOf map[string]int
}

// NewSchema validates the step layout and the rules of every field.
func NewSchema(name, title string, specs ...StepSpec) (*Schema, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("form schema needs a name")
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("form %s: at least one step is required", name)
	}

	s := &Schema{
		Name:   name,
		Title:  title,
		fields: make(map[string]*Field),
		stepOf: make(map[string]int),
	}

	for i, spec := range specs {
		if len(spec.Fields) == 0 {
			return nil, fmt.Errorf("form %s: step %d has no fields", name, i)
		}
		step := Step{Index: i, Title: spec.Title}
		for _, f := range spec.Fields {
			if f == nil || strings.TrimSpace(f.Name) == "" {
				return nil, fmt.Errorf("form %s: step %d has an unnamed field", name, i)
			}
			if _, dup := s.fields[f.Name]; dup {
				return nil, fmt.Errorf("form %s: field %q declared in more than one step", name, f.Name)
			}
			field, err := prepareField(*f)
			if err != nil {
				return nil, fmt.Errorf("form %s: field %s: %w", name, f.Name, err)
			}
			s.fields[field.Name] = field
			s.stepOf[field.Name] = i
			step.Fields = append(step.Fields, field)
		}
		s.Steps = append(s.Steps, step)
	}

	return s, nil
}

func prepareField(f Field) (*Field, error) {
	if f.Type == "" {
		f.Type = TypeText
	}
	switch f.Type {
	case TypeText, TypeNumber, TypeBool, TypeMulti:
	default:
		return nil, fmt.Errorf("unknown field type %q", f.Type)
	}
	if f.Label == "" {
		f.Label = f.Name
	}

	rules := make([]Rule, 0, len(f.Rules)+1)
	if f.Required && (len(f.Rules) == 0 || f.Rules[0].Kind != RuleRequired) {
		rules = append(rules, Required(f.Label+" is required"))
	}
	rules = append(rules, f.Rules...)
	for i := range rules {
		if err := rules[i].compile(); err != nil {
			return nil, err
		}
	}
	f.Rules = rules
	return &f, nil
}

// Field looks up a field definition by name.
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// StepOf returns the index of the step that owns the field.
func (s *Schema) StepOf(name string) (int, bool) {
	i, ok := s.stepOf[name]
	return i, ok
}

// FieldNames lists every field in step order.
func (s *Schema) FieldNames() []string {
	var names []string
	for _, step := range s.Steps {
		names = append(names, step.Names()...)
	}
	return names
}

// ValidateStep evaluates every required field of the step, and every
// optional field that has been filled in. An empty result means the step
// passes.
func (s *Schema) ValidateStep(index int, values Values) Errors {
	errs := Errors{}
	if index < 0 || index >= len(s.Steps) {
		return errs
	}
	for _, f := range s.Steps[index].Fields {
		value := values[f.Name]
		if !f.Required && isEmpty(value) {
			continue
		}
		if msg, ok := ValidateField(value, f.Rules); !ok {
			errs[f.Name] = msg
		}
	}
	return errs
}

// ValidateAll validates every step and merges the results.
func (s *Schema) ValidateAll(values Values) Errors {
	errs := Errors{}
	for i := range s.Steps {
		for name, msg := range s.ValidateStep(i, values) {
			errs[name] = msg
		}
	}
	return errs
}
