package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"notifications", "chat_messages", "payments", "bookings", "users"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		seedUsers := []struct {
			Email string
			Name  string
			Role  string
			Rate  int64
		}{
			{"rina@mail.com", "Rina", "renter", 0},
			{"budi@mail.com", "Budi", "renter", 0},
			{"sari@mail.com", "Sari", "provider", 75000},
			{"dewi@mail.com", "Dewi", "provider", 100000},
			{"admin@mail.com", "Admin", "admin", 0},
		}

		for _, u := range seedUsers {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM users WHERE email = $1", u.Email).Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}

			var rate *int64
			if u.Rate > 0 {
				rate = &u.Rate
			}
			_, err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, rate_per_hour, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role, rate)
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		fmt.Println("Seeding complete. All users have password: password")
	},
}
