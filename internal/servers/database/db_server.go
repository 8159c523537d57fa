package database

import (
	"fmt"
	"sync"

	"github.com/FSDTeam-SAA/thekingBackend-sub000/configs"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db   *gorm.DB
	once sync.Once
)

type psql struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSL      string
	Timezone string
}

func GetDB(config *configs.Config) *gorm.DB {
	once.Do(func() {
		initialize(config)
	})
	return db
}

func initialize(config *configs.Config) {
	psql := getPSQL(config)
	dsn := fmt.Sprintf(
		"host=%v user=%v password=%v dbname=%v port=%v sslmode=%v TimeZone=%v",
		psql.Host, psql.User, psql.Password, psql.Name, psql.Port, psql.SSL, psql.Timezone,
	)
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	migrate()
}

func getPSQL(config *configs.Config) *psql {
	return &psql{
		Host:     config.Viper.GetString("database.host"),
		Port:     config.Viper.GetInt("database.port"),
		User:     config.Viper.GetString("database.user"),
		Password: config.Viper.GetString("database.password"),
		Name:     config.Viper.GetString("database.name"),
		SSL:      config.Viper.GetString("database.ssl"),
		Timezone: config.Viper.GetString("database.timezone"),
	}
}

// migrate creates or updates every persisted table. ConversationMember
// goes before Conversation so the join table is built from the full model
// rather than the bare shape the many2many association would generate.
func migrate() {
	err := db.AutoMigrate(
		&models.User{},
		&models.ConversationMember{},
		&models.Conversation{},
		&models.Message{},
		&models.MessageSeen{},
		&models.Notification{},
		&models.DeviceEndpoint{},
		&models.Post{},
		&models.Reel{},
		&models.Like{},
		&models.Comment{},
	)
	if err != nil {
		logger.Fatal("failed to migrate database", "error", err)
		return
	}
	logger.Info("database migrated successfully")
}
