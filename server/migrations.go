package server

import (
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/dbh"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/logs"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/pkg/rando"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/auth"
	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server/model"
	"gorm.io/gorm"
)

// Open or create the DB
func openDB(log logs.Log, config dbh.DBConfig) (*gorm.DB, error) {
	log.Infof("Opening DB")
	return dbh.OpenDB(log, config, model.Migrations(log), 0)
}

// If there are no users yet, create an admin user with a random password,
// and print the password to the log. This is the only time it is visible.
func bootstrapAdminUser(log logs.Log, db *gorm.DB, authServer *auth.AuthServer) error {
	nUsers := int64(0)
	if err := db.Table("user").Count(&nUsers).Error; err != nil {
		return err
	}
	if nUsers != 0 {
		return nil
	}
	pwd := rando.StrongRandomAlphaNumChars(20)
	log.Infof("user table is empty, creating admin user.")
	log.Infof("Username: admin")
	log.Infof("Password: %v", pwd)
	_, err := authServer.CreateUser("admin", "Administrator", pwd, string(model.UserPermissionAdmin))
	return err
}
