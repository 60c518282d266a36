package initializers

import (
	"log"

	"github.com/furnishly/furnishly-api/models"
)

func SyncDatabase() {
	err := DB.AutoMigrate(
		&models.UserProfile{},
		&models.Address{},
		&models.LoginCode{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Wishlist{},
		&models.WishlistItem{},
		&models.Payment{},
		&models.Contact{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("Database synced successfully.")
}
