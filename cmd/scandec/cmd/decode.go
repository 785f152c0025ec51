package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/scandec/internal/config"
	"github.com/MeKo-Tech/scandec/internal/scanner"
)

// fileResult is one decode outcome for CLI output.
type fileResult struct {
	File   string `json:"file" yaml:"file"`
	Found  bool   `json:"found" yaml:"found"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Engine string `json:"engine,omitempty" yaml:"engine,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// decodeCmd represents the decode command.
var decodeCmd = &cobra.Command{
	Use:   "decode [files...]",
	Short: "Decode barcodes from image files",
	Long: `Decode one or more image files and print the recognized code.

Supported input formats: JPEG, PNG, GIF, BMP, TIFF

Examples:
  scandec decode photo.jpg
  scandec decode *.png --format json
  scandec decode label.png --formats ean13,code128
  scandec decode blurry.jpg --grayscale`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()
		outFormat := cfg.Output.Format
		outFile := cfg.Output.File
		grayscale, _ := cmd.Flags().GetBool("grayscale")

		switch outFormat {
		case config.OutputText, config.OutputJSON, config.OutputYAML:
		default:
			return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml)", outFormat)
		}

		dec, err := newDecoder(cfg)
		if err != nil {
			return err
		}

		results := make([]fileResult, 0, len(args))
		notFound := 0
		for _, path := range args {
			results = append(results, decodeFile(cmd, dec, path, grayscale, &notFound))
		}

		rendered, err := renderResults(results, outFormat)
		if err != nil {
			return err
		}

		if outFile != "" {
			if err := os.WriteFile(outFile, []byte(rendered), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
		} else {
			fmt.Fprint(cmd.OutOrStdout(), rendered)
		}

		if notFound == len(args) {
			return scanner.ErrNotFound
		}
		return nil
	},
}

func decodeFile(cmd *cobra.Command, dec scanner.Decoder, path string, grayscale bool, notFound *int) fileResult {
	img, err := imaging.Open(path)
	if err != nil {
		return fileResult{File: path, Error: fmt.Sprintf("failed to open image: %v", err)}
	}
	if grayscale {
		img = imaging.Grayscale(img)
	}

	res, err := dec.Decode(cmd.Context(), img)
	switch {
	case errors.Is(err, scanner.ErrNotFound):
		*notFound++
		return fileResult{File: path, Found: false}
	case err != nil:
		return fileResult{File: path, Error: err.Error()}
	default:
		return fileResult{
			File:   path,
			Found:  true,
			Text:   res.Text,
			Format: res.Format.String(),
			Engine: res.Debug.Engine,
		}
	}
}

func renderResults(results []fileResult, format string) (string, error) {
	switch format {
	case config.OutputJSON:
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal results: %w", err)
		}
		return string(data) + "\n", nil
	case config.OutputYAML:
		data, err := yaml.Marshal(results)
		if err != nil {
			return "", fmt.Errorf("failed to marshal results: %w", err)
		}
		return string(data), nil
	default:
		var b strings.Builder
		for _, r := range results {
			switch {
			case r.Error != "":
				fmt.Fprintf(&b, "%s: error: %s\n", r.File, r.Error)
			case !r.Found:
				fmt.Fprintf(&b, "%s: no code found\n", r.File)
			default:
				fmt.Fprintf(&b, "%s: %s (%s)\n", r.File, r.Text, r.Format)
			}
		}
		return b.String(), nil
	}
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringP("format", "f", "text", "output format (text, json, yaml)")
	decodeCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	decodeCmd.Flags().Bool("grayscale", false, "convert the image to grayscale before decoding")

	_ = viper.BindPFlag("output.format", decodeCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.file", decodeCmd.Flags().Lookup("output"))
}
