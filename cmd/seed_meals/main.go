package main

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mummysfood/backend/config"
	"github.com/mummysfood/backend/internal/database"
	"github.com/mummysfood/backend/internal/logging"
	"github.com/mummysfood/backend/internal/models"
)

const (
	demoEmail    = "chef@mummysfood.test"
	demoPassword = "password123"
)

type seedMeal struct {
	name, description, category, cuisine string
	price, rating                        float64
	dietary, delivery, payment, tags     []string
}

var meals = []seedMeal{
	{"Jollof Rice", "Smoky party jollof with fried plantain", "Main", "Nigerian", 12, 4.8,
		[]string{"gluten-free"}, []string{"pickup", "delivery"}, []string{"cash", "card"}, []string{"spicy"}},
	{"Egusi Soup", "Melon seed soup with spinach, served with pounded yam", "Main", "Nigerian", 15, 4.6,
		nil, []string{"pickup"}, []string{"cash"}, []string{"traditional"}},
	{"Mushroom Risotto", "Arborio rice, porcini and parmesan", "Main", "Italian", 14, 4.4,
		[]string{"vegetarian", "gluten-free"}, []string{"delivery"}, []string{"card"}, nil},
	{"Lasagna", "Slow-cooked beef ragu lasagna, family size", "Main", "Italian", 19, 4.9,
		nil, []string{"pickup", "delivery"}, []string{"card", "online"}, []string{"family"}},
	{"Chana Masala", "Chickpeas in a tomato and garam masala gravy", "Main", "Indian", 10, 4.5,
		[]string{"vegan", "vegetarian", "gluten-free"}, []string{"pickup", "delivery"}, []string{"cash", "online"}, []string{"spicy"}},
	{"Tiramisu", "Mascarpone, espresso and cocoa", "Dessert", "Italian", 7, 4.7,
		[]string{"vegetarian"}, []string{"pickup"}, []string{"cash", "card"}, []string{"sweet"}},
	{"Puff Puff", "Fried dough balls dusted with sugar", "Snack", "Nigerian", 5, 4.2,
		[]string{"vegan", "vegetarian"}, []string{"pickup"}, []string{"cash"}, []string{"sweet"}},
}

func main() {
	logger, err := logging.New()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatalw("failed to open database", "error", err)
	}
	if err := database.RunMigrations(db, database.Migrations(), logger); err != nil {
		logger.Fatalw("migration failed", "error", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", demoEmail).First(&existing).Error
		if err == nil {
			logger.Infow("demo chef already seeded, skipping", "user_id", existing.ID)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		chef := &models.User{
			Name:          "Mama Ada",
			Username:      "mama_ada",
			Email:         demoEmail,
			PasswordHash:  string(hash),
			Phone:         "+44 20 7946 0000",
			IsChef:        true,
			ChefSpecialty: "West African home cooking",
		}
		if err := tx.Create(chef).Error; err != nil {
			return err
		}

		addr := &models.Address{
			UserID:     chef.ID,
			Street:     "221B Baker Street",
			City:       "London",
			PostalCode: "NW1 6XE",
			Country:    "United Kingdom",
			Latitude:   51.5237,
			Longitude:  -0.1585,
		}
		addr.FormattedAddress = addr.Format()
		if err := tx.Create(addr).Error; err != nil {
			return err
		}
		if err := tx.Model(chef).Update("active_address_id", addr.ID).Error; err != nil {
			return err
		}

		for _, m := range meals {
			meal := &models.Meal{
				Name:                  m.name,
				Description:           m.description,
				Price:                 m.price,
				Category:              m.category,
				Cuisine:               m.cuisine,
				PortionSize:           "Single",
				Ingredients:           models.StringArray{},
				DietaryRestrictions:   models.StringArray(m.dietary),
				Images:                models.StringArray{},
				NutritionalInfo:       models.NutritionalInfo{Vitamins: models.StringArray{}},
				AddressID:             addr.ID,
				PickupDeliveryOptions: models.StringArray(m.delivery),
				PaymentOptions:        models.StringArray(m.payment),
				Tags:                  models.StringArray(m.tags),
				QuantityAvailable:     10,
				SellerRating:          m.rating,
				UserID:                chef.ID,
			}
			if err := tx.Create(meal).Error; err != nil {
				return err
			}
		}
		logger.Infow("seeded demo chef", "user_id", chef.ID, "meals", len(meals))
		return nil
	})
	if err != nil {
		logger.Fatalw("seeding failed", "error", err)
	}
}
