package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Gender string

const (
	GenderUnknown Gender = "unknown"
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

type User struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement"`
	Username     string     `gorm:"size:64;not null;uniqueIndex:uk_users_username"`
	Email        string     `gorm:"size:255;not null;uniqueIndex:uk_users_email"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null"`
	Role         Role       `gorm:"size:16;not null;default:user"`
	AvatarURL    *string    `gorm:"column:avatar_url;size:512"`
	Bio          *string    `gorm:"type:text"`
	Gender       Gender     `gorm:"size:16;not null;default:unknown"`
	Birthday     *time.Time `gorm:"type:date"`
	Major        *string    `gorm:"size:100"`
	School       *string    `gorm:"size:100"`
	Locked       bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
