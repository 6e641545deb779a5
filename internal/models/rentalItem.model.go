package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RentalItem is a listing created by an owner under a category. Its
// descriptive fields are dynamic, driven by the category requirements,
// and stored as a JSON document.
type RentalItem struct {
	BaseModel
	OwnerID     int            `gorm:"type:int;not null;index" json:"ownerId"`
	CategoryID  int            `gorm:"type:int;not null;index" json:"categoryId"`
	IsAvailable bool           `gorm:"type:bool;default:true"  json:"isAvailable"`
	DynamicData datatypes.JSON `gorm:"type:jsonb"              json:"dynamicData"`

	Owner             *User              `gorm:"foreignKey:OwnerID"                                  json:"owner,omitempty"`
	Category          *Category          `gorm:"foreignKey:CategoryID"                               json:"category,omitempty"`
	RenterInputFields []RenterInputField `gorm:"foreignKey:RentalItemID;constraint:OnDelete:CASCADE" json:"renterInputFields,omitempty"`
	Bookings          []Booking          `gorm:"foreignKey:RentalItemID"                             json:"bookings,omitempty"`
}

// DynamicDataMap decodes the item's dynamic document. A nil or empty
// column yields an empty map.
func (r *RentalItem) DynamicDataMap() map[string]any {
	data := map[string]any{}
	if len(r.DynamicData) == 0 {
		return data
	}
	if err := json.Unmarshal(r.DynamicData, &data); err != nil {
		return map[string]any{}
	}
	return data
}

// DisplayName pulls a human readable name out of the dynamic document,
// falling back through common field names.
func (r *RentalItem) DisplayName() string {
	data := r.DynamicDataMap()
	for _, key := range []string{"name", "Name", "title", "Title", "item_name"} {
		if v, ok := data[key].(string); ok && v != "" {
			return v
		}
	}
	for _, v := range data {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "Unnamed Item"
}

func (r *RentalItem) BeforeCreate(tx *gorm.DB) error {
	if r.OwnerID == 0 || r.CategoryID == 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}

type RentalItemCreateRequest struct {
	CategoryID  int            `json:"categoryId" validate:"required,gt=0"`
	DynamicData map[string]any `json:"dynamicData" validate:"required"`
}

type RentalItemUpdateRequest struct {
	IsAvailable *bool          `json:"isAvailable"`
	DynamicData map[string]any `json:"dynamicData"`
}
