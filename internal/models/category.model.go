package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type Category struct {
	BaseModel
	Name        string `gorm:"type:text;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text"                      json:"description"`

	Requirements []CategoryRequirement `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"requirements,omitempty"`
	RentalItems  []RentalItem          `gorm:"foreignKey:CategoryID"                             json:"rentalItems,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Name == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}

type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeNumber    FieldType = "number"
	FieldTypeDate      FieldType = "date"
	FieldTypeSelection FieldType = "selection"
	FieldTypeImage     FieldType = "image"
	FieldTypeFile      FieldType = "file"
)

// CategoryRequirement defines one owner-facing field that items in a
// category must be described with. Selection options are stored JSON
// encoded in Placeholder.
type CategoryRequirement struct {
	BaseModel
	CategoryID  int       `gorm:"type:int;not null;index"  json:"categoryId"`
	Name        string    `gorm:"type:text;not null"       json:"name"`
	FieldType   FieldType `gorm:"type:text;default:'text'" json:"fieldType"`
	IsRequired  bool      `gorm:"type:bool;default:false"  json:"isRequired"`
	Placeholder string    `gorm:"type:text"                json:"placeholder"`
	MaxImages   int       `gorm:"type:int;default:5"       json:"maxImages"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (c *CategoryRequirement) Options() []string {
	if c.FieldType != FieldTypeSelection || c.Placeholder == "" {
		return nil
	}
	var options []string
	if err := json.Unmarshal([]byte(c.Placeholder), &options); err != nil {
		return nil
	}
	return options
}

func (c *CategoryRequirement) SetOptions(options []string) error {
	if len(options) == 0 {
		c.Placeholder = ""
		return nil
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return err
	}
	c.Placeholder = string(encoded)
	return nil
}

type CategoryCreateRequest struct {
	Name         string                     `json:"name" validate:"required"`
	Description  string                     `json:"description"`
	Requirements []RequirementCreateRequest `json:"requirements"`
}

type RequirementCreateRequest struct {
	Name       string    `json:"name"       validate:"required"`
	FieldType  FieldType `json:"fieldType"  validate:"required"`
	IsRequired bool      `json:"isRequired"`
	Options    []string  `json:"options"`
	MaxImages  int       `json:"maxImages"`
}
