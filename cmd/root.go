package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "jd-match"
	envPrefix = "JD_MATCH"

	defaultBaseURL = "http://127.0.0.1:8000/api"
	outputText     = "text"
	outputJSON     = "json"
)

type Config struct {
	BaseURL   string `mapstructure:"base-url"`
	UserAgent string `mapstructure:"user-agent"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token-file"`
	Output    string `mapstructure:"output"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jd-match sends a CV and a job description to the analysis API and shows how well they match",
	}
)

// Execute executes the root command. Cancelling ctx aborts an in-flight analysis request.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jd-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("base-url", defaultBaseURL)
	viper.SetDefault("output", outputText)
	viper.SetDefault("user-agent", "")
	viper.SetDefault("token", "")
	viper.SetDefault("token-file", "")
}

func initConfig() {
	// .env is optional, values from it behave like regular environment variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly requested config must be readable.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	config.Output = strings.ToLower(strings.TrimSpace(config.Output))
	switch config.Output {
	case outputText, outputJSON:
	default:
		return nil, errors.New("output must be one of: text, json")
	}

	return config, nil
}
