package model

import (
	"strings"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
)

// BaseModel is our base class for a GORM model.
// The default GORM Model uses int, but we prefer int64
type BaseModel struct {
	ID int64 `gorm:"primaryKey" json:"id"`
}

// UserPermissions are single characters that are present in the user's Permissions field
type UserPermissions string

const (
	UserPermissionAdmin  UserPermissions = "a"
	UserPermissionViewer UserPermissions = "v"
)

type User struct {
	BaseModel
	Username           string      `json:"username"`
	UsernameNormalized string      `json:"-"`
	Name               string      `json:"name" gorm:"default:null"`
	Permissions        string      `json:"permissions"`
	Password           string      `json:"-" gorm:"default:null"` // pwdhash base64
	CreatedAt          dbh.IntTime `json:"createdAt"`
}

func (u *User) HasPermission(p UserPermissions) bool {
	if strings.Contains(u.Permissions, string(UserPermissionAdmin)) {
		return true
	}
	return strings.Contains(u.Permissions, string(p))
}

func (u *User) IsAdmin() bool {
	return u.HasPermission(UserPermissionAdmin)
}

func IsValidPermission(p string) bool {
	return p == string(UserPermissionAdmin) || p == string(UserPermissionViewer)
}

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

type Session struct {
	Key       string `gorm:"primaryKey"` // pwdhash.HashSessionTokenBase64 of the token
	UserID    int64
	CreatedAt dbh.IntTime
	ExpiresAt dbh.IntTime `gorm:"default:null"`
}
