package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Devam759/StitchUp-Firebase/internal/config"
	"github.com/Devam759/StitchUp-Firebase/internal/db"
	"github.com/Devam759/StitchUp-Firebase/internal/model"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := gdb.AutoMigrate(&model.User{}, &model.Enquiry{}, &model.Message{}, &model.Order{}, &model.CartItem{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	canSeed, err := shouldSeed(gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("tailors already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	tailors := buildSeedTailors()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role = ?", model.RoleTailor).Delete(&model.User{}).Error; err != nil {
			return fmt.Errorf("clear tailors: %w", err)
		}
		for _, t := range tailors {
			if err := tx.Create(&t).Error; err != nil {
				return fmt.Errorf("insert tailor %q: %w", t.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d tailors", len(tailors))
	return nil
}

func buildSeedTailors() []model.User {
	type card struct {
		ID       string
		Name     string
		Phone    string
		Address  string
		Rating   float64
		Reviews  int
		YearsExp int
		Distance float64
		Pricing  model.PricingMap
		Heavy    int
		Light    int
	}
	cards := []card{
		{
			ID: "seed_tailor_1", Name: "Raj Tailors", Phone: "+919876500001",
			Address: "Shop 12, MI Road, Jaipur", Rating: 4.8, Reviews: 132, YearsExp: 15, Distance: 1.2,
			Pricing: model.PricingMap{"Kurta Stitching": 450, "Pant Alteration": 120, "Blouse Stitching": 350},
			Heavy:   1, Light: 2,
		},
		{
			ID: "seed_tailor_2", Name: "Meena Boutique", Phone: "+919876500002",
			Address: "C-Scheme, Jaipur", Rating: 4.6, Reviews: 98, YearsExp: 9, Distance: 2.8,
			Pricing: model.PricingMap{"Lehenga Stitching": 2200, "Saree Fall & Pico": 80, "Blouse Stitching": 400},
			Heavy:   2, Light: 1,
		},
		{
			ID: "seed_tailor_3", Name: "Perfect Fit Tailors", Phone: "+919876500003",
			Address: "Raja Park, Jaipur", Rating: 4.9, Reviews: 210, YearsExp: 20, Distance: 0.8,
			Pricing: model.PricingMap{"Suit Stitching": 3500, "Shirt Stitching": 550, "Trouser Alteration": 150},
			Heavy:   0, Light: 3,
		},
		{
			ID: "seed_tailor_4", Name: "Noor Fashion Works", Phone: "+919876500004",
			Address: "Johari Bazaar, Jaipur", Rating: 4.4, Reviews: 61, YearsExp: 7, Distance: 4.1,
			Pricing: model.PricingMap{"Sherwani Stitching": 4000, "Kurta Pyjama": 800},
			Heavy:   1, Light: 0,
		},
		{
			ID: "seed_tailor_5", Name: "Stitch & Style", Phone: "+919876500005",
			Address: "Vaishali Nagar, Jaipur", Rating: 4.7, Reviews: 154, YearsExp: 12, Distance: 3.3,
			Pricing: model.PricingMap{"Dress Stitching": 900, "Zip Replacement": 60, "Hemming": 50},
			Heavy:   0, Light: 0,
		},
	}

	now := time.Now()
	users := make([]model.User, 0, len(cards))
	for _, c := range cards {
		priceFrom := 0
		for _, p := range c.Pricing {
			if p > 0 && (priceFrom == 0 || p < priceFrom) {
				priceFrom = p
			}
		}
		users = append(users, model.User{
			ID:           c.ID,
			Role:         model.RoleTailor,
			Name:         c.Name,
			Phone:        c.Phone,
			Address:      c.Address,
			Rating:       c.Rating,
			ReviewsCount: c.Reviews,
			YearsExp:     c.YearsExp,
			DistanceKm:   c.Distance,
			Pricing:      c.Pricing,
			PriceFrom:    priceFrom,
			Skills:       model.SkillSet{"Stitching": true, "Alteration": true, "Urgent": false},
			Hours:        model.Hours{Open: "10:00", Close: "19:00"},
			IsAvailable:  true,
			HeavyTasks:   c.Heavy,
			LightTasks:   c.Light,
			CreatedAt:    now,
		})
	}
	return users
}

func shouldSeed(gdb *gorm.DB) (bool, error) {
	var cnt int64
	if err := gdb.Model(&model.User{}).Where("role = ?", model.RoleTailor).Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count tailors: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}
