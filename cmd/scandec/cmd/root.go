package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/scandec/internal/config"
	"github.com/MeKo-Tech/scandec/internal/decoder"
	"github.com/MeKo-Tech/scandec/internal/version"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scandec",
	Short: "Barcode and QR code decoder",
	Long: `scandec decodes barcodes and QR codes from raster images using the
ZXing decoding engine.

Supported symbologies: QR Code, Aztec, Codabar, Code 39, Code 93, Code 128,
Data Matrix, ITF, EAN-13, EAN-8, UPC-A and UPC-E.

Examples:
  scandec decode photo.jpg
  scandec decode *.png --formats qr,code128 --format json
  scandec serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.PersistentFlags().GetBool("version"); v {
			ver, commit, date := version.Info()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scandec version %s\n", ver)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", commit)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Date: %s\n", date)
			return nil
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/scandec, /etc/scandec)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSlice("formats", nil,
		"symbologies to enable (e.g. qr,code128); empty enables all supported")
	rootCmd.PersistentFlags().String("assets-dir", "",
		"override directory for the engine's binary runtime assets (process-wide, set once)")
	rootCmd.PersistentFlags().Bool("version", false, "print version information and exit")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("formats", rootCmd.PersistentFlags().Lookup("formats"))
	_ = viper.BindPFlag("assets_dir", rootCmd.PersistentFlags().Lookup("assets-dir"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			initConfig()
		}
		setupLogging(globalConfig)
	}
}

// initConfig reads in the config file and environment variables.
func initConfig() {
	configLoader = config.NewLoader()
	if cfgFile != "" {
		configLoader.SetConfigFile(cfgFile)
	}

	cfg, err := configLoader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	globalConfig = cfg
}

// GetConfig returns the loaded configuration, loading it on first use.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}
	return globalConfig
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newDecoder builds the ZXing adapter from the loaded configuration.
func newDecoder(cfg *config.Config) (*decoder.ZXing, error) {
	formats, err := cfg.Symbologies()
	if err != nil {
		return nil, err
	}
	return decoder.NewZXing(decoder.Config{
		Formats:   formats,
		Verbose:   cfg.Verbose,
		Logger:    slog.Default(),
		AssetsDir: cfg.AssetsDir,
	}), nil
}
