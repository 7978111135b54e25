package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/pwdhash"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
)

func IsPasswordOK(password string) error {
	if len(password) < 8 {
		return errors.New("Password must be at least 8 characters")
	}
	return nil
}

func (a *AuthServer) CreateUser(username, name, password, permissions string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("Username cannot be empty")
	}
	if err := IsPasswordOK(password); err != nil {
		return nil, err
	}
	for _, p := range permissions {
		if !model.IsValidPermission(string(p)) {
			return nil, fmt.Errorf("Invalid permission '%v'", string(p))
		}
	}
	user := model.User{
		Username:           username,
		UsernameNormalized: model.NormalizeUsername(username),
		Name:               name,
		Permissions:        permissions,
		Password:           pwdhash.HashPasswordBase64(password),
		CreatedAt:          dbh.MakeIntTime(time.Now()),
	}
	if err := a.db.Create(&user).Error; err != nil {
		if dbh.IsKeyViolation(err) {
			return nil, fmt.Errorf("Username '%v' is already taken", username)
		}
		return nil, err
	}
	a.log.Infof("Created user %v (%v), perms:%v", user.Username, user.ID, user.Permissions)
	return &user, nil
}

func (a *AuthServer) GetUserFromID(id int64) (*model.User, error) {
	user := model.User{}
	if err := a.db.Find(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AuthServer) AllUsers() ([]model.User, error) {
	var users []model.User
	return users, a.db.Order("id").Find(&users).Error
}

func (a *AuthServer) NumAdminUsers() (int, error) {
	n := int64(0)
	if err := a.db.Model(&model.User{}).Where("permissions LIKE ?", "%"+model.UserPermissionAdmin+"%").Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (a *AuthServer) SetPassword(userID int64, password string) error {
	if err := IsPasswordOK(password); err != nil {
		return err
	}
	return a.db.Model(&model.User{}).Where("id = ?", userID).Update("password", pwdhash.HashPasswordBase64(password)).Error
}
