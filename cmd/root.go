package cmd

import (
	"fmt"
	"os"

	intconfig "quickride/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "quickride",
	Short: "Browse scraped bus listings",
	Long:  `quickride serves a two-tab web page (Home and Find Your Way) that filters bus route listings stored in MySQL or PostgreSQL.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	intconfig.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("db-driver", "", "mysql or postgres")
	rootCmd.PersistentFlags().String("db-host", "", "database host")
	rootCmd.PersistentFlags().String("db-port", "", "database port")
	rootCmd.PersistentFlags().String("db-user", "", "database user")
	rootCmd.PersistentFlags().String("db-name", "", "database name")
	rootCmd.PersistentFlags().String("db-table", "", "listing table")

	bindFlag("DB_DRIVER", "db-driver")
	bindFlag("DB_HOST", "db-host")
	bindFlag("DB_PORT", "db-port")
	bindFlag("DB_USER", "db-user")
	bindFlag("DB_NAME", "db-name")
	bindFlag("DB_TABLE", "db-table")
}

func bindFlag(key, flag string) {
	cobra.CheckErr(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)))
}

func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			cobra.CheckErr(fmt.Errorf("read config %s: %w", cfgFile, err))
		}
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
	viper.AutomaticEnv()
}

// loadEnv resolves flags, config file, environment and defaults, in that order.
func loadEnv() intconfig.Env {
	env := intconfig.FromViper(viper.GetViper())
	intconfig.Configure(env)
	return env
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
