package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleTailor   Role = "tailor"
)

// PricingMap is a tailor's rate card: "Category - Task" -> price in rupees.
type PricingMap map[string]int

func (m PricingMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *PricingMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

type SkillSet map[string]bool

func (s SkillSet) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

func (s *SkillSet) Scan(value interface{}) error {
	return scanJSON(value, s)
}

type Hours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

func (h Hours) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *Hours) Scan(value interface{}) error {
	return scanJSON(value, h)
}

type KYC struct {
	Aadhaar string `json:"aadhaar"`
	PAN     string `json:"pan"`
}

func (k KYC) Value() (driver.Value, error) {
	return json.Marshal(k)
}

func (k *KYC) Scan(value interface{}) error {
	return scanJSON(value, k)
}

func scanJSON(value, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported column type for json field")
	}
}

// User is both customers and tailors; tailor-only fields stay zero for customers.
// ID is the Firebase auth UID once linked; phone is the 10-digit fallback lookup key.
type User struct {
	ID                  string     `gorm:"primaryKey;size:128" json:"id"`
	Role                Role       `gorm:"size:16;not null" json:"role"`
	Name                string     `gorm:"size:120;not null" json:"name"`
	Phone               string     `gorm:"size:16;index" json:"phone"`
	Address             string     `gorm:"size:255" json:"address"`
	About               string     `gorm:"type:text" json:"about"`
	Rating              float64    `json:"rating"`
	ReviewsCount        int        `json:"reviewsCount"`
	YearsExp            int        `json:"yearsExp"`
	Pricing             PricingMap `gorm:"type:json" json:"pricing"`
	PriceFrom           int        `json:"priceFrom"`
	Skills              SkillSet   `gorm:"type:json" json:"skills"`
	Hours               Hours      `gorm:"type:json" json:"hours"`
	KYC                 KYC        `gorm:"type:json" json:"kyc"`
	BannerURL           string     `gorm:"size:512" json:"bannerUrl"`
	ShopPhotoURL        string     `gorm:"size:512" json:"shopPhotoUrl"`
	DistanceKm          float64    `json:"distanceKm"`
	IsAvailable         bool       `gorm:"default:true" json:"isAvailable"`
	IsCurrentlyChatting bool       `json:"isCurrentlyChatting"`
	HeavyTasks          int        `json:"heavyTasks"`
	LightTasks          int        `json:"lightTasks"`
	CurrentOrders       int        `json:"currentOrders"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
