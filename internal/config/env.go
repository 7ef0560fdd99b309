package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Env struct {
	AppAddr     string
	GinMode     string
	CORSOrigins []string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBTable    string
}

// SetDefaults registers fallback values on v, before flags are bound.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "redbus_details")
	v.SetDefault("DB_TABLE", "redbus_details")
}

// FromViper builds Env from an already populated viper instance.
func FromViper(v *viper.Viper) Env {
	driver := strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	switch driver {
	case "pgx", "postgresql":
		driver = DriverPostgres
	case "":
		driver = DriverMySQL
	}

	port := strings.TrimSpace(v.GetString("DB_PORT"))
	if port == "" {
		port = "3306"
		if driver == DriverPostgres {
			port = "5432"
		}
	}

	appAddr := strings.TrimSpace(v.GetString("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	return Env{
		AppAddr:     appAddr,
		GinMode:     strings.TrimSpace(v.GetString("GIN_MODE")),
		CORSOrigins: splitOrigins(v.GetString("CORS_ALLOWED_ORIGINS")),
		DBDriver:    driver,
		DBHost:      strings.TrimSpace(v.GetString("DB_HOST")),
		DBPort:      port,
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      strings.TrimSpace(v.GetString("DB_NAME")),
		DBTable:     strings.TrimSpace(v.GetString("DB_TABLE")),
	}
}

func splitOrigins(raw string) []string {
	out := []string{}
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
