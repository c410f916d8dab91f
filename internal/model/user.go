package model

import (
	"time"
)

// User 用户表，删除只能走管理端级联删除流程
type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"type:varchar(100);not null" json:"-"`
	Name           string    `gorm:"type:varchar(128)" json:"name"`
	CPF            string    `gorm:"column:cpf;type:varchar(32)" json:"cpf"`
	Nationality    string    `gorm:"type:varchar(64)" json:"nationality"`
	DocumentType   string    `gorm:"type:varchar(32)" json:"documentType"`
	DocumentNumber string    `gorm:"type:varchar(64)" json:"documentNumber"`
	Phone          string    `gorm:"type:varchar(32)" json:"phone"`
	Birthdate      string    `gorm:"type:varchar(16)" json:"birthdate"`
	AvatarURL      string    `gorm:"type:varchar(512)" json:"avatarUrl"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
