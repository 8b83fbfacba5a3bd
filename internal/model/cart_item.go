package model

import "time"

// CartItem holds one tailor saved to a customer's cart. A customer can keep
// each tailor in the cart at most once.
type CartItem struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"column:user_id;size:128;uniqueIndex:uniq_user_tailor" json:"userId"`
	TailorID    string    `gorm:"column:tailor_id;size:128;uniqueIndex:uniq_user_tailor" json:"tailorId"`
	TailorName  string    `gorm:"column:tailor_name;size:120" json:"tailorName"`
	TailorImage string    `gorm:"column:tailor_image;size:512" json:"tailorImage"`
	PriceFrom   int       `gorm:"column:price_from" json:"priceFrom"`
	DistanceKm  float64   `gorm:"column:distance_km" json:"distanceKm"`
	Rating      float64   `json:"rating"`
	AddedAt     time.Time `gorm:"column:added_at;autoCreateTime" json:"addedAt"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
