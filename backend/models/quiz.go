package models

import "gorm.io/gorm"

type Quiz struct {
	gorm.Model
	Title        string     `gorm:"not null" json:"title"`
	Description  string     `json:"description"`
	PassingScore float64    `json:"passing_score"` // 0-100
	TotalPoints  int        `json:"total_points"`
	TimeLimit    int        `json:"time_limit"` // minutes
	CategoryID   uint       `json:"category_id"`
	CreatorID    uint       `json:"creator_id"`
	Questions    []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions"`
}

type Question struct {
	gorm.Model
	QuizID        uint   `json:"quiz_id"`
	Text          string `gorm:"not null" json:"text"`
	Options       string `json:"-"` // JSON array of option strings
	CorrectAnswer int    `json:"-"` // index into Options, never sent to clients
	Explanation   string `json:"explanation"`
	Position      int    `json:"position"`
}
