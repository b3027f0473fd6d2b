package models

import "time"

// Knowledge represents a shared financial-literacy article. Articles are
// seeded by migrations and read-only from the API.
type Knowledge struct {
	Base
	Title    string `gorm:"size:200;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Category string `gorm:"size:50;not null" json:"category"`
	Image    string `gorm:"size:128" json:"image,omitempty"`
}

// TableName overrides the table name for Knowledge
func (Knowledge) TableName() string {
	return "knowledge"
}

// Favorite is the (user, knowledge) join row. The composite primary key
// makes the relation a set.
type Favorite struct {
	UserID      uint      `gorm:"primaryKey" json:"user_id"`
	KnowledgeID uint      `gorm:"primaryKey" json:"knowledge_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName overrides the table name for Favorite
func (Favorite) TableName() string {
	return "user_favorites"
}
