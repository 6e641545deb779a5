package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RenterInputField is an owner-defined question a renter must answer
// when booking an item. Selection options and other per-field settings
// live in ExtraConfig.
type RenterInputField struct {
	BaseModel
	RentalItemID int            `gorm:"type:int;not null;index"  json:"rentalItemId"`
	Label        string         `gorm:"type:text;not null"       json:"label"`
	FieldKey     string         `gorm:"type:text;not null"       json:"fieldKey"`
	FieldType    FieldType      `gorm:"type:text;default:'text'" json:"fieldType"`
	IsRequired   bool           `gorm:"type:bool;default:false"  json:"isRequired"`
	IsFinancial  bool           `gorm:"type:bool;default:false"  json:"isFinancial"`
	ExtraConfig  datatypes.JSON `gorm:"type:jsonb"               json:"extraConfig"`

	RentalItem *RentalItem `gorm:"foreignKey:RentalItemID" json:"rentalItem,omitempty"`
}

func (f *RenterInputField) BeforeCreate(tx *gorm.DB) error {
	if f.Label == "" || f.FieldKey == "" {
		return gorm.ErrInvalidValue
	}
	if f.FieldType == "" {
		f.FieldType = FieldTypeText
	}
	return nil
}

// Options decodes the selection options list from ExtraConfig.
func (f *RenterInputField) Options() []string {
	if len(f.ExtraConfig) == 0 {
		return nil
	}
	var cfg struct {
		Options []string `json:"options"`
	}
	if err := json.Unmarshal(f.ExtraConfig, &cfg); err != nil {
		return nil
	}
	return cfg.Options
}

type RenterInputFieldRequest struct {
	Label       string    `json:"label"     validate:"required"`
	FieldKey    string    `json:"fieldKey"  validate:"required"`
	FieldType   FieldType `json:"fieldType" validate:"required"`
	IsRequired  bool      `json:"isRequired"`
	IsFinancial bool      `json:"isFinancial"`
	Options     []string  `json:"options"`
}
