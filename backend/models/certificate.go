package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued at most once per (user, quiz). The composite unique
// index enforces that at the storage layer, so two concurrent passing
// submissions cannot mint two certificates for the same pair.
type Certificate struct {
	gorm.Model
	UserID     uint      `gorm:"uniqueIndex:idx_user_quiz_cert" json:"user_id"`
	QuizID     uint      `gorm:"uniqueIndex:idx_user_quiz_cert" json:"quiz_id"`
	CategoryID uint      `json:"category_id"`
	Score      float64   `json:"score"` // 0-100
	IssuedAt   time.Time `json:"issued_at"`
	Code       string    `gorm:"unique;not null" json:"code"` // CERT-<year>-<8 hex>
}
