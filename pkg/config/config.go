package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	BotToken           string `validate:"required"`
	SpreadsheetID      string `validate:"required"`
	ServiceAccountJSON string `validate:"required,json"`

	Port         string
	IsProduction bool

	// DisplayTimezone is used only to stamp the generation time shown on the
	// document; period boundaries are plain calendar-day arithmetic.
	DisplayTimezone string

	// LogoPath optionally points at an image drawn at the top of each
	// document. A missing file is tolerated at render time.
	LogoPath string

	// Worksheet names inside the spreadsheet.
	UsersSheet     string
	LocationsSheet string
	MaterialsSheet string
	JournalSheet   string

	// Journal column header titles, matched by name at ingestion.
	JournalDateColumn      string
	JournalMaterialColumn  string
	JournalOperationColumn string
	JournalWeightColumn    string
	JournalAmountColumn    string
	JournalLocationColumn  string

	// Materials and permissions column header titles.
	MaterialNameColumn     string
	MaterialKindColumn     string
	PermissionUserIDColumn string
	PermissionFlagColumn   string

	// Number formatting of the source sheet. The sheet's conventions have
	// drifted over time, so both toggles are configuration.
	NumberDecimalComma bool
	NumberStripNBSP    bool

	// RateLimit is the health endpoint limit in ulule/limiter notation.
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("BOT_TOKEN", "")
	viper.SetDefault("SPREADSHEET_ID", "")
	viper.SetDefault("SERVICE_ACCOUNT_JSON", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("DISPLAY_TIMEZONE", "Europe/Kyiv")
	viper.SetDefault("LOGO_PATH", "")
	viper.SetDefault("USERS_SHEET", "USERS")
	viper.SetDefault("LOCATIONS_SHEET", "SHOPS")
	viper.SetDefault("MATERIALS_SHEET", "MATERIALS")
	viper.SetDefault("JOURNAL_SHEET", "JOURNAL")
	viper.SetDefault("JOURNAL_DATE_COLUMN", "Date")
	viper.SetDefault("JOURNAL_MATERIAL_COLUMN", "Material")
	viper.SetDefault("JOURNAL_OPERATION_COLUMN", "Operation")
	viper.SetDefault("JOURNAL_WEIGHT_COLUMN", "Weight")
	viper.SetDefault("JOURNAL_AMOUNT_COLUMN", "Amount")
	viper.SetDefault("JOURNAL_LOCATION_COLUMN", "Location")
	viper.SetDefault("MATERIAL_NAME_COLUMN", "Material")
	viper.SetDefault("MATERIAL_KIND_COLUMN", "Kind")
	viper.SetDefault("PERMISSION_USER_ID_COLUMN", "UserID")
	viper.SetDefault("PERMISSION_FLAG_COLUMN", "Permission")
	viper.SetDefault("NUMBER_DECIMAL_COMMA", true)
	viper.SetDefault("NUMBER_STRIP_NBSP", true)
	viper.SetDefault("RATE_LIMIT", "60-M")

	viper.AutomaticEnv()

	cfg := &Config{
		BotToken:           viper.GetString("BOT_TOKEN"),
		SpreadsheetID:      viper.GetString("SPREADSHEET_ID"),
		ServiceAccountJSON: viper.GetString("SERVICE_ACCOUNT_JSON"),
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		DisplayTimezone:    viper.GetString("DISPLAY_TIMEZONE"),
		LogoPath:           viper.GetString("LOGO_PATH"),

		UsersSheet:     viper.GetString("USERS_SHEET"),
		LocationsSheet: viper.GetString("LOCATIONS_SHEET"),
		MaterialsSheet: viper.GetString("MATERIALS_SHEET"),
		JournalSheet:   viper.GetString("JOURNAL_SHEET"),

		JournalDateColumn:      viper.GetString("JOURNAL_DATE_COLUMN"),
		JournalMaterialColumn:  viper.GetString("JOURNAL_MATERIAL_COLUMN"),
		JournalOperationColumn: viper.GetString("JOURNAL_OPERATION_COLUMN"),
		JournalWeightColumn:    viper.GetString("JOURNAL_WEIGHT_COLUMN"),
		JournalAmountColumn:    viper.GetString("JOURNAL_AMOUNT_COLUMN"),
		JournalLocationColumn:  viper.GetString("JOURNAL_LOCATION_COLUMN"),

		MaterialNameColumn:     viper.GetString("MATERIAL_NAME_COLUMN"),
		MaterialKindColumn:     viper.GetString("MATERIAL_KIND_COLUMN"),
		PermissionUserIDColumn: viper.GetString("PERMISSION_USER_ID_COLUMN"),
		PermissionFlagColumn:   viper.GetString("PERMISSION_FLAG_COLUMN"),

		NumberDecimalComma: viper.GetBool("NUMBER_DECIMAL_COMMA"),
		NumberStripNBSP:    viper.GetBool("NUMBER_STRIP_NBSP"),

		RateLimit: viper.GetString("RATE_LIMIT"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DisplayLocation resolves the configured display timezone.
func (c *Config) DisplayLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	return loc, nil
}
