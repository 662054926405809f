package models

import "gorm.io/gorm"

type TestCategory struct {
	gorm.Model
	Name        string `gorm:"unique;not null" json:"name"`
	Description string `json:"description"`
}

type Course struct {
	gorm.Model
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	ContentURL  string `json:"content_url"`
	Thumbnail   string `json:"thumbnail"`
}
