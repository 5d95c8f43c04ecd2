package models

// User is an API user. Passwords are stored as bcrypt hashes.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
}

func (User) TableName() string {
	return "users"
}
