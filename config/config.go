package config

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4243"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Verzeichnis für die XML-Exportdatei und die JSON-Mapping-Caches.
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// DrugBank-Export: lokale Datei hat Vorrang, sonst Download über URL + Account.
	DrugbankXMLFile  string `envconfig:"DRUGBANK_XML_FILE" default:"full_database.xml"`
	DrugbankURL      string `envconfig:"DRUGBANK_URL" default:"https://go.drugbank.com/releases/5-1-0/downloads/all-full-database"`
	DrugbankUsername string `envconfig:"DRUGBANK_USERNAME"`
	DrugbankPassword string `envconfig:"DRUGBANK_PASSWORD"`

	// Zeitplan für den periodischen Populate-Lauf (nur wenn DB noch leer ist).
	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 3 * * 0"`

	// Begrenzung der verarbeiteten Drug-Elemente für Debug-Läufe (0 = alle).
	DebugMaxRecords int `envconfig:"DEBUG_MAX_RECORDS" default:"0"`

	StratoS3Key    string `envconfig:"STRATO_S3_KEY" required:"true"`
	StratoS3Secret string `envconfig:"STRATO_S3_SECRET" required:"true"`
	StratoS3URL    string `envconfig:"STRATO_S3_URL" required:"true"`
	StratoS3Region string `envconfig:"STRATO_S3_REGION" required:"true"`
	StratoS3Bucket string `envconfig:"STRATO_S3_BUCKET" required:"true"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// DrugbankXMLPath gibt den vollständigen Pfad zur DrugBank-Exportdatei zurück.
func (c *Config) DrugbankXMLPath() string {
	return filepath.Join(c.DataDir, c.DrugbankXMLFile)
}

// HGNCIDsCachePath gibt den Pfad zum JSON-Cache Drug-Name -> HGNC-IDs zurück.
func (c *Config) HGNCIDsCachePath() string {
	return filepath.Join(c.DataDir, "drug_to_hgnc_ids.json")
}

// HGNCSymbolsCachePath gibt den Pfad zum JSON-Cache Drug-Name -> HGNC-Symbole zurück.
func (c *Config) HGNCSymbolsCachePath() string {
	return filepath.Join(c.DataDir, "drug_to_hgnc_symbols.json")
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
