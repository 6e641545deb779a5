package initialize

import (
	"encoding/json"
	"os"

	"kirayo/config"
	"kirayo/internal/logger"
	. "kirayo/internal/models"

	"gorm.io/gorm"
)

// InitializeTables seeds the data the platform cannot run without: an
// admin account and the owner application form schema.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeAdminUser(db, log); err != nil {
		return log.Err("failed to initialize admin user", err)
	}

	if err := initializeOwnerRequirements(db, log); err != nil {
		return log.Err("failed to initialize owner requirements", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeAdminUser(db *gorm.DB, log logger.Logger) error {
	var existing User
	if err := db.First(&existing, "role = ?", RoleAdmin).Error; err == nil {
		log.Debug("Admin user already exists", "userID", existing.ID)
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme-admin"
		log.Warn("ADMIN_PASSWORD not set, using default seed password")
	}

	admin := User{
		FullName: "Platform Administrator",
		Username: "admin",
		Email:    "admin@kirayo.local",
		Role:     RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info("Admin user created", "userID", admin.ID)
	return nil
}

func initializeOwnerRequirements(db *gorm.DB, log logger.Logger) error {
	type formField struct {
		Label     string
		FieldName string
		InputType FieldType
		Required  bool
		Options   []string
		Order     int
	}

	fields := []formField{
		{Label: "Business name", FieldName: "business_name", InputType: FieldTypeText, Required: true, Order: 1},
		{Label: "National ID number", FieldName: "national_id", InputType: FieldTypeText, Required: true, Order: 2},
		{Label: "ID document", FieldName: "id_document", InputType: FieldTypeFile, Required: true, Order: 3},
		{Label: "Years of experience", FieldName: "years_experience", InputType: FieldTypeNumber, Required: false, Order: 4},
		{Label: "Preferred payout method", FieldName: "payout_method", InputType: FieldTypeSelection, Required: true,
			Options: []string{"EVC_PLUS", "BANK"}, Order: 5},
	}

	for _, field := range fields {
		var existing OwnerRequirement
		if err := db.First(&existing, "field_name = ?", field.FieldName).Error; err == nil {
			log.Debug("Owner requirement already exists", "fieldName", field.FieldName)
			continue
		}

		requirement := OwnerRequirement{
			Label:      field.Label,
			FieldName:  field.FieldName,
			InputType:  field.InputType,
			IsRequired: field.Required,
			OrderIndex: field.Order,
			IsActive:   true,
		}
		if len(field.Options) > 0 {
			encoded, err := json.Marshal(field.Options)
			if err != nil {
				return err
			}
			requirement.OptionsJSON = encoded
		}

		if err := db.Create(&requirement).Error; err != nil {
			return log.Err("failed to create owner requirement", err, "fieldName", field.FieldName)
		}
	}

	log.Info("Owner application form initialized", "count", len(fields))
	return nil
}
