package models

import (
	"time"
)

// Post is a single mess-menu photo submission. Posts are immutable after
// creation and disappear 24 hours later; there is no edit and no user delete.
type Post struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"not null" json:"username"`
	HotelName string    `gorm:"not null;index" json:"hotelName"`
	ImageURL  string    `gorm:"not null" json:"imageUrl"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (Post) TableName() string { return "posts" }
