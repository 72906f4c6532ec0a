package models

import "time"

// Account is the single persisted entity: one registered application
// account. Name and email carry unique indexes so the database is the
// authority on uniqueness regardless of racing requests. There is no soft
// delete; deletion removes the row.
type Account struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Verified bool `gorm:"default:false" json:"verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
