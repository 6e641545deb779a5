package seed

import (
	"encoding/json"

	"kirayo/config"
	"kirayo/internal/logger"
	. "kirayo/internal/models"

	"gorm.io/gorm"
)

// Seed loads development data: sample categories with requirement
// schemas and a handful of users in each role.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	if err := seedUsers(db, log); err != nil {
		return log.Err("failed to seed users", err)
	}

	if err := seedCategories(db, log); err != nil {
		return log.Err("failed to seed categories", err)
	}

	return nil
}

func seedUsers(db *gorm.DB, log logger.Logger) error {
	users := []struct {
		FullName string
		Username string
		Email    string
		Role     UserRole
	}{
		{FullName: "Owen Karim", Username: "owner1", Email: "owner1@example.com", Role: RoleOwner},
		{FullName: "Rita Noor", Username: "renter1", Email: "renter1@example.com", Role: RoleUser},
		{FullName: "Sami Ali", Username: "renter2", Email: "renter2@example.com", Role: RoleUser},
	}

	for _, u := range users {
		var existing User
		if err := db.First(&existing, "username = ?", u.Username).Error; err == nil {
			log.Debug("User already exists", "username", u.Username)
			continue
		}

		user := User{
			FullName: u.FullName,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
			IsActive: true,
		}
		if err := user.SetPassword("password"); err != nil {
			return err
		}
		if err := db.Create(&user).Error; err != nil {
			return log.Err("failed to create user", err, "username", u.Username)
		}
		log.Info("Seeded user", "username", u.Username, "role", u.Role)
	}

	return nil
}

func seedCategories(db *gorm.DB, log logger.Logger) error {
	type requirement struct {
		Name      string
		FieldType FieldType
		Required  bool
		Options   []string
	}

	categories := []struct {
		Name         string
		Description  string
		Requirements []requirement
	}{
		{
			Name:        "Vehicles",
			Description: "Cars, vans and motorbikes for rent",
			Requirements: []requirement{
				{Name: "Make", FieldType: FieldTypeText, Required: true},
				{Name: "Model", FieldType: FieldTypeText, Required: true},
				{Name: "Year", FieldType: FieldTypeNumber, Required: true},
				{Name: "Transmission", FieldType: FieldTypeSelection, Required: true,
					Options: []string{"Manual", "Automatic"}},
				{Name: "Photos", FieldType: FieldTypeImage, Required: true},
			},
		},
		{
			Name:        "Apartments",
			Description: "Short and long term housing",
			Requirements: []requirement{
				{Name: "Address", FieldType: FieldTypeText, Required: true},
				{Name: "Bedrooms", FieldType: FieldTypeNumber, Required: true},
				{Name: "Available from", FieldType: FieldTypeDate, Required: false},
				{Name: "Photos", FieldType: FieldTypeImage, Required: true},
			},
		},
		{
			Name:        "Equipment",
			Description: "Tools and event equipment",
			Requirements: []requirement{
				{Name: "Item name", FieldType: FieldTypeText, Required: true},
				{Name: "Condition", FieldType: FieldTypeSelection, Required: true,
					Options: []string{"New", "Good", "Fair"}},
			},
		},
	}

	for _, c := range categories {
		var existing Category
		if err := db.First(&existing, "name = ?", c.Name).Error; err == nil {
			log.Debug("Category already exists", "name", c.Name)
			continue
		}

		category := Category{Name: c.Name, Description: c.Description}
		if err := db.Create(&category).Error; err != nil {
			return log.Err("failed to create category", err, "name", c.Name)
		}

		for _, r := range c.Requirements {
			req := CategoryRequirement{
				CategoryID: category.ID,
				Name:       r.Name,
				FieldType:  r.FieldType,
				IsRequired: r.Required,
			}
			if len(r.Options) > 0 {
				encoded, err := json.Marshal(r.Options)
				if err != nil {
					return err
				}
				req.Placeholder = string(encoded)
			}
			if err := db.Create(&req).Error; err != nil {
				return log.Err("failed to create requirement", err, "category", c.Name, "name", r.Name)
			}
		}

		log.Info("Seeded category", "name", c.Name, "requirements", len(c.Requirements))
	}

	return nil
}
