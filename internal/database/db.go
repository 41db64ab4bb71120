package database

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/config"
	"github.com/Nazar-fdllh/SI-PAKAT-sub000/internal/models"
)

var DB *gorm.DB

func Init(cfg *config.Config, log zerolog.Logger) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Info().Int("attempt", i).Int("max", maxAttempts).Msg("connecting to database")

		DB, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{
			TranslateError: true,
		})
		if err == nil {
			log.Info().Msg("connected to database")
			break
		}

		log.Warn().Err(err).Msg("database connection failed")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal().Err(err).Int("attempts", maxAttempts).Msg("giving up on database connection")
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Asset{},
		&models.Assessment{},
		&models.ThresholdConfig{},
		&models.AssetCodeSequence{},
		&models.ActivityLog{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	seedCategories(log)
	seedThresholds(cfg, log)
	createDefaultAdmin(log)
}

// seedCategories installs the static asset taxonomy. Categories are reference
// data: rows are created once and never edited through this system.
func seedCategories(log zerolog.Logger) {
	categories := []models.Category{
		{ID: models.CategoryPerangkatKeras, Name: "Perangkat Keras", CodePrefix: "HW"},
		{ID: models.CategoryPerangkatLunak, Name: "Perangkat Lunak", CodePrefix: "SW"},
		{ID: models.CategorySaranaPendukung, Name: "Sarana Pendukung", CodePrefix: "SP"},
		{ID: models.CategoryDataInformasi, Name: "Data dan Informasi", CodePrefix: "DT"},
		{ID: models.CategorySDM, Name: "Sumber Daya Manusia", CodePrefix: "PS"},
	}

	for _, cat := range categories {
		err := DB.Where("id = ?", cat.ID).FirstOrCreate(&cat).Error
		if err != nil {
			log.Error().Err(err).Str("category", cat.Name).Msg("failed to seed category")
		}
	}
}

// seedThresholds installs the classification threshold row if none exists.
// Later administrative updates go through the API and only affect future
// classifications.
func seedThresholds(cfg *config.Config, log zerolog.Logger) {
	var count int64
	if err := DB.Model(&models.ThresholdConfig{}).Count(&count).Error; err != nil {
		log.Error().Err(err).Msg("failed to check threshold config")
		return
	}
	if count > 0 {
		return
	}

	row := models.ThresholdConfig{
		HighThreshold:   cfg.HighThreshold,
		MediumThreshold: cfg.MediumThreshold,
	}
	if err := DB.Create(&row).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed threshold config")
		return
	}
	log.Info().
		Int("high", row.HighThreshold).
		Int("medium", row.MediumThreshold).
		Msg("seeded classification thresholds")
}

// admin comes from the environment only
func createDefaultAdmin(log zerolog.Logger) {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin@pakat.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Error().Err(err).Msg("failed to check admin user")
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash default admin password")
		return
	}

	admin := models.User{
		Username:     username,
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Error().Err(err).Msg("failed to create default admin")
		return
	}

	log.Info().Str("username", username).Msg("created default admin user")
}
