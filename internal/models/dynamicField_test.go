package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDynamicValues(t *testing.T) {
	specs := []FieldSpec{
		{Key: "make", Label: "Make", Type: FieldTypeText, Required: true},
		{Key: "year", Label: "Year", Type: FieldTypeNumber},
		{Key: "available_from", Label: "Available From", Type: FieldTypeDate},
		{Key: "transmission", Label: "Transmission", Type: FieldTypeSelection, Options: []string{"Manual", "Automatic"}},
	}

	tests := []struct {
		name    string
		data    map[string]any
		wantErr string
	}{
		{
			name: "Valid document",
			data: map[string]any{
				"make":           "Toyota",
				"year":           float64(2020),
				"available_from": "2026-09-01",
				"transmission":   "Manual",
			},
		},
		{
			name: "Optional fields may be omitted",
			data: map[string]any{"make": "Toyota"},
		},
		{
			name:    "Missing required field",
			data:    map[string]any{"year": 2020},
			wantErr: `field "Make" is required`,
		},
		{
			name:    "Empty string counts as missing",
			data:    map[string]any{"make": ""},
			wantErr: `field "Make" is required`,
		},
		{
			name:    "Non numeric number field",
			data:    map[string]any{"make": "Toyota", "year": "twenty"},
			wantErr: `field "Year" must be a number`,
		},
		{
			name: "Numeric string accepted",
			data: map[string]any{"make": "Toyota", "year": "2020"},
		},
		{
			name:    "Bad date",
			data:    map[string]any{"make": "Toyota", "available_from": "tomorrow"},
			wantErr: `field "Available From" must be a date`,
		},
		{
			name: "RFC3339 date accepted",
			data: map[string]any{"make": "Toyota", "available_from": "2026-09-01T10:00:00Z"},
		},
		{
			name:    "Selection outside options",
			data:    map[string]any{"make": "Toyota", "transmission": "CVT"},
			wantErr: `field "Transmission" must be one of its options`,
		},
		{
			name: "Unknown keys pass through",
			data: map[string]any{"make": "Toyota", "color": "red"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDynamicValues(specs, tt.data)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrDynamicValue)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDynamicValues_SelectionWithoutOptions(t *testing.T) {
	specs := []FieldSpec{{Key: "zone", Label: "Zone", Type: FieldTypeSelection}}

	assert.NoError(t, ValidateDynamicValues(specs, map[string]any{"zone": "anything"}))
}

func TestCategoryRequirement_Options(t *testing.T) {
	t.Run("Round trips through SetOptions", func(t *testing.T) {
		req := &CategoryRequirement{FieldType: FieldTypeSelection}

		require.NoError(t, req.SetOptions([]string{"Manual", "Automatic"}))
		assert.Equal(t, []string{"Manual", "Automatic"}, req.Options())
	})

	t.Run("Empty set clears the placeholder", func(t *testing.T) {
		req := &CategoryRequirement{FieldType: FieldTypeSelection}
		require.NoError(t, req.SetOptions([]string{"A"}))

		require.NoError(t, req.SetOptions(nil))
		assert.Empty(t, req.Placeholder)
		assert.Nil(t, req.Options())
	})

	t.Run("Non selection fields have no options", func(t *testing.T) {
		req := &CategoryRequirement{FieldType: FieldTypeText, Placeholder: `["a"]`}
		assert.Nil(t, req.Options())
	})

	t.Run("Spec carries the options through", func(t *testing.T) {
		req := &CategoryRequirement{Name: "transmission", FieldType: FieldTypeSelection}
		require.NoError(t, req.SetOptions([]string{"Manual"}))

		spec := req.Spec()
		assert.Equal(t, "transmission", spec.Key)
		assert.Equal(t, FieldTypeSelection, spec.Type)
		assert.Equal(t, []string{"Manual"}, spec.Options)
	})
}
