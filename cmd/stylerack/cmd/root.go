package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stylerack/stylerack"
	"github.com/stylerack/stylerack/internal/cmd/output"
	"github.com/stylerack/stylerack/pkg/catalog"
	"github.com/stylerack/stylerack/pkg/logging"
)

var (
	configFile string

	flagBaseURL string
	flagDir     string
	flagToken   string
	flagOutput  string
	flagVerbose bool
	flagQuiet   bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stylerack",
	Short: "Product gallery catalog and admin console",
	Long: `Stylerack browses and manages a product gallery hosted on a remote
image host. Products are directories whose names encode the price and
facet metadata; the images inside them are the product photos.

Browse commands rebuild the catalog from a live listing on every run.
Admin commands (upload, delete) additionally require an API token, set
via --token or the IMGBED_API_TOKEN environment variable.`,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.stylerack.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "image host base URL")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "remote gallery root directory")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API bearer token (or IMGBED_API_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-error output")

	for _, flag := range []string{"base-url", "dir", "token", "verbose", "quiet"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("Failed to bind %s flag: %v", flag, err))
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stylerack")
	}

	// .env files load before Viper env binding so both sources agree.
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.BindEnv("token", "IMGBED_API_TOKEN"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind IMGBED_API_TOKEN: %v\n", err)
	}

	if err := viper.ReadInConfig(); err == nil && flagVerbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	configureLogging()
}

// setupCommand is called before any command runs.
func setupCommand(_ *cobra.Command, _ []string) error {
	if flagOutput == "" {
		flagOutput = string(output.DetectFormat(""))
	}
	if _, err := output.ParseFormat(flagOutput); err != nil {
		return err
	}
	return nil
}

// configureLogging sets up the logging system based on configuration.
func configureLogging() {
	level := zerolog.InfoLevel
	if flagVerbose || viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	if flagQuiet || viper.GetBool("quiet") {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	config := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		AddCaller: level <= zerolog.DebugLevel,
	}
	if config.Format == "" {
		config.Format = "auto"
	}
	if config.Output == "" {
		config.Output = "stderr"
	}

	logging.Configure(config)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envFile); err == nil && flagVerbose {
			fmt.Fprintf(os.Stderr, "Loaded %s\n", envFile)
		}
	}
}

// newClient builds the gallery client from flags, config, and environment.
func newClient() (*stylerack.Client, error) {
	opts := []stylerack.Option{}
	if v := viper.GetString("base-url"); v != "" {
		opts = append(opts, stylerack.WithBaseURL(v))
	}
	if v := viper.GetString("dir"); v != "" {
		opts = append(opts, stylerack.WithDir(v))
	}
	if v := viper.GetString("token"); v != "" {
		opts = append(opts, stylerack.WithToken(v))
	}
	if d := viper.GetDuration("http-timeout"); d > 0 {
		opts = append(opts, stylerack.WithHTTPTimeout(d))
	}
	return stylerack.New(opts...)
}

// findProduct resolves a product by derived ID or remote directory path.
func findProduct(app *stylerack.Client, key string) (*catalog.Product, error) {
	if p, err := app.Catalog().FindByID(key); err == nil {
		return p, nil
	}
	return app.Catalog().Find(key)
}

// formatter returns the output formatter selected by the --output flag.
func formatter() output.Formatter {
	return output.NewFormatter(output.Format(flagOutput))
}

// refreshed builds a client and loads the catalog from a live listing.
func refreshed(ctx context.Context) (*stylerack.Client, error) {
	app, err := newClient()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	if err := app.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("loading gallery: %w (check the network and retry)", err)
	}
	logging.Debug().Dur("duration", time.Since(start)).Msg("catalog loaded")
	return app, nil
}
