package ds

import (
	"time"

	"academy/internal/app/role"
)

// 8. Admin users
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	Role      role.Role `gorm:"type:int;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
