package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OwnerRequirement is one admin-defined field of the owner application
// form. The active, ordered set of these rows is the schema new
// OwnerRequest submissions are validated against.
type OwnerRequirement struct {
	BaseModel
	Label           string         `gorm:"type:text;not null"          json:"label"`
	FieldName       string         `gorm:"type:text;uniqueIndex"       json:"fieldName"`
	InputType       FieldType      `gorm:"type:text;default:'text'"    json:"inputType"`
	IsRequired      bool           `gorm:"type:bool;default:false"     json:"isRequired"`
	Placeholder     string         `gorm:"type:text"                   json:"placeholder"`
	HelpText        string         `gorm:"type:text"                   json:"helpText"`
	OptionsJSON     datatypes.JSON `gorm:"column:options;type:jsonb"   json:"options"`
	ValidationRules datatypes.JSON `gorm:"type:jsonb"                  json:"validationRules"`
	OrderIndex      int            `gorm:"type:int;default:0;index"    json:"orderIndex"`
	IsActive        bool           `gorm:"type:bool;default:true"      json:"isActive"`
}

func (o *OwnerRequirement) BeforeCreate(tx *gorm.DB) error {
	if o.Label == "" || o.FieldName == "" {
		return gorm.ErrInvalidValue
	}
	if o.InputType == "" {
		o.InputType = FieldTypeText
	}
	return nil
}

// Options decodes the selection options list.
func (o *OwnerRequirement) Options() []string {
	if len(o.OptionsJSON) == 0 {
		return nil
	}
	var options []string
	if err := json.Unmarshal(o.OptionsJSON, &options); err != nil {
		return nil
	}
	return options
}

type OwnerRequirementRequest struct {
	Label           string         `json:"label"     validate:"required"`
	FieldName       string         `json:"fieldName" validate:"required"`
	InputType       FieldType      `json:"inputType" validate:"required"`
	IsRequired      bool           `json:"isRequired"`
	Placeholder     string         `json:"placeholder"`
	HelpText        string         `json:"helpText"`
	Options         []string       `json:"options"`
	ValidationRules map[string]any `json:"validationRules"`
	OrderIndex      int            `json:"orderIndex"`
	IsActive        *bool          `json:"isActive"`
}

type OwnerRequirementReorderRequest struct {
	OrderedIDs []int `json:"orderedIds" validate:"required,min=1"`
}
