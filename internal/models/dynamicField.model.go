package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrDynamicValue wraps every dynamic document validation failure.
var ErrDynamicValue = errors.New("invalid field value")

// FieldSpec is the common shape of a dynamic field definition, letting
// category requirements, renter input fields and owner requirements
// share one validation path.
type FieldSpec struct {
	Key      string
	Label    string
	Type     FieldType
	Required bool
	Options  []string
}

func (c *CategoryRequirement) Spec() FieldSpec {
	return FieldSpec{
		Key:      c.Name,
		Label:    c.Name,
		Type:     c.FieldType,
		Required: c.IsRequired,
		Options:  c.Options(),
	}
}

func (f *RenterInputField) Spec() FieldSpec {
	return FieldSpec{
		Key:      f.FieldKey,
		Label:    f.Label,
		Type:     f.FieldType,
		Required: f.IsRequired,
		Options:  f.Options(),
	}
}

func (o *OwnerRequirement) Spec() FieldSpec {
	return FieldSpec{
		Key:      o.FieldName,
		Label:    o.Label,
		Type:     o.InputType,
		Required: o.IsRequired,
		Options:  o.Options(),
	}
}

// ValidateDynamicValues checks a submitted document against its field
// specs: required fields must be present and non-empty, and typed
// fields must hold a value of the right shape. Unknown keys are
// allowed through untouched.
func ValidateDynamicValues(specs []FieldSpec, data map[string]any) error {
	for _, spec := range specs {
		value, present := data[spec.Key]
		if !present || isEmptyValue(value) {
			if spec.Required {
				return fmt.Errorf("%w: field %q is required", ErrDynamicValue, spec.Label)
			}
			continue
		}
		if err := validateTypedValue(spec, value); err != nil {
			return err
		}
	}
	return nil
}

func validateTypedValue(spec FieldSpec, value any) error {
	switch spec.Type {
	case FieldTypeNumber:
		switch v := value.(type) {
		case float64, int:
			return nil
		case string:
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return fmt.Errorf("%w: field %q must be a number", ErrDynamicValue, spec.Label)
			}
		default:
			return fmt.Errorf("%w: field %q must be a number", ErrDynamicValue, spec.Label)
		}
	case FieldTypeDate:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: field %q must be a date", ErrDynamicValue, spec.Label)
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			if _, err := time.Parse(time.RFC3339, s); err != nil {
				return fmt.Errorf("%w: field %q must be a date", ErrDynamicValue, spec.Label)
			}
		}
	case FieldTypeSelection:
		if len(spec.Options) == 0 {
			return nil
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: field %q must be one of its options", ErrDynamicValue, spec.Label)
		}
		for _, opt := range spec.Options {
			if s == opt {
				return nil
			}
		}
		return fmt.Errorf("%w: field %q must be one of its options", ErrDynamicValue, spec.Label)
	}
	return nil
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	}
	return false
}
