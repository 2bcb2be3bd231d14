package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port          string
	Timezone      string
	StorageDriver string // sqlite|memory
	DBPath        string
	LogLevel      string
	LogFormat     string // json|console
	PricePerKgATR float64
	CycleTable    string // optional CSV/XLSX override
	SeedFile      string
	SeedDefaults  bool

	// RequireOperator rejects writes that carry no X-Operator identity.
	RequireOperator bool
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}
	getFloat := func(k string, def float64) float64 {
		raw := get(k, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			log.Printf("[cfg] invalid %s=%q, using %v", k, raw, def)
			return def
		}
		return v
	}
	getBool := func(k string, def bool) bool {
		raw := get(k, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			log.Printf("[cfg] invalid %s=%q, using %v", k, raw, def)
			return def
		}
		return v
	}

	cfg := AppConfig{
		Port:          get("PORT", "8080"),
		Timezone:      get("TZ", "America/Sao_Paulo"),
		StorageDriver: strings.ToLower(get("STORAGE_DRIVER", "sqlite")),
		DBPath:        get("DB_PATH", "canefarm.db"),
		LogLevel:      get("LOG_LEVEL", "info"),
		LogFormat:     strings.ToLower(get("LOG_FORMAT", "json")),
		PricePerKgATR: getFloat("PRICE_PER_KG_ATR", 1.212),
		CycleTable:    get("CYCLE_TABLE_PATH", ""),
		SeedFile:      get("SEED_FILE", ""),
		SeedDefaults:  getBool("SEED_DEFAULTS", true),

		RequireOperator: getBool("REQUIRE_OPERATOR", false),
	}
	log.Printf("[cfg] %+v", cfg)
	return cfg
}
