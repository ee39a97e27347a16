package model

import "time"

// User 用户（注册与登录由外部身份服务负责）
type User struct {
	ID        int64  `gorm:"primaryKey"`
	Email     string `gorm:"type:varchar(254);uniqueIndex;not null"`
	Username  string `gorm:"type:varchar(150);uniqueIndex;not null"`
	FirstName string `gorm:"type:varchar(150)"`
	LastName  string `gorm:"type:varchar(150)"`
	Password  string `gorm:"type:varchar(150);not null"` // bcrypt hash
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }
