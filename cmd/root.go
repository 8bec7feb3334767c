package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobmatch"
)

type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	AI       AIConfig       `mapstructure:"ai"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Page     PageConfig     `mapstructure:"page"`
}

type StorageConfig struct {
	// Driver is file, redis or memory.
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	RedisURL string `mapstructure:"redis-url"`
}

type AIConfig struct {
	DefaultModel      string         `mapstructure:"default-model"`
	EmbeddingProvider string         `mapstructure:"embedding-provider"`
	MaxLogLength      int            `mapstructure:"max-log-length"`
	OpenAI            ProviderConfig `mapstructure:"openai"`
	Anthropic         ProviderConfig `mapstructure:"anthropic"`
	Gemini            ProviderConfig `mapstructure:"gemini"`
}

type ProviderConfig struct {
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	APIKeyFile     string `mapstructure:"api-key-file"`
}

type AnalysisConfig struct {
	TopK       int  `mapstructure:"top-k"`
	CacheIndex bool `mapstructure:"cache-index"`
}

type PageConfig struct {
	Render    bool          `mapstructure:"render"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobmatch compares job postings with your resume and fills application forms",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("storage.driver", "file")
	viper.SetDefault("storage.path", "jobmatch-data.json")
	viper.SetDefault("ai.default-model", "gpt4")
	viper.SetDefault("ai.embedding-provider", "openai")
	viper.SetDefault("ai.max-log-length", 200)
	viper.SetDefault("analysis.top-k", 5)
	viper.SetDefault("analysis.cache-index", false)
	viper.SetDefault("page.timeout", 30*time.Second)
}

func initConfig() {
	viper.SetEnvPrefix(strings.ToUpper(app))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
