package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"unique;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Phone        string     `json:"phone"`
	Role         string     `gorm:"default:user" json:"role"` // user, admin
	Purchases    []Purchase `json:"-"`
}

// Purchase records a user's entitlement to one quiz. The composite unique
// index makes repeated webhook deliveries an add-to-set no-op.
type Purchase struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex:idx_user_quiz_purchase" json:"user_id"`
	QuizID uint `gorm:"uniqueIndex:idx_user_quiz_purchase" json:"quiz_id"`
}
