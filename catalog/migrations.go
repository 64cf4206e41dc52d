package catalog

import (
	"github.com/xy-planning-network/outpost/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrations lists the schema changes of the catalog, oldest first.
func Migrations() []postgres.Migration {
	return []postgres.Migration{
		{Key: "20240301_create_catalog", Executor: createCatalog},
		{Key: "20240302_seed_roles", Executor: seedRoles},
	}
}

func createCatalog(db *gorm.DB) error {
	return db.AutoMigrate(&Role{}, &Route{}, &Player{})
}

func seedRoles(db *gorm.DB) error {
	roles := []Role{{Name: AdminRole}, {Name: PlayerRole}}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error
}
