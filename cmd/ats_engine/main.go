// Package main provides the ats_engine command line: résumé scoring, gap
// analysis, A/B statistics, version tracking and the HTTP API server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/config"
	"github.com/jonathan/ats-engine/internal/ingestion"
	"github.com/jonathan/ats-engine/internal/logger"
	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/schemas"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	output  string
	out     io.Writer
	in      io.Reader

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd(out io.Writer, in io.Reader) *cobra.Command {
	a := &app{v: viper.New(), out: out, in: in}

	root := &cobra.Command{
		Use:           "ats_engine",
		Short:         "ATS résumé scoring and A/B testing engine",
		Long:          "ats_engine scores résumés against job descriptions, finds keyword gaps, and tracks résumé versions through A/B tests of their interview rates.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML or JSON)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")
	flags.StringVarP(&a.output, "output", "o", outputText, "result format: text or json")

	// Flags only override the config file when set.
	_ = a.v.BindPFlag("log.debug", flags.Lookup("debug"))
	_ = a.v.BindPFlag("log.json", flags.Lookup("json"))

	root.AddCommand(
		newScoreCmd(a),
		newGapsCmd(a),
		newExtractCmd(a),
		newSimilarityCmd(a),
		newABTestCmd(a),
		newVersionsCmd(a),
		newFetchCmd(a),
		newServeCmd(a),
		newTokenCmd(a),
		newValidateCmd(a),
	)
	return root
}

func (a *app) init() error {
	if a.output != outputText && a.output != outputJSON {
		return fmt.Errorf("invalid --output %q: want %s or %s", a.output, outputText, outputJSON)
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// readText loads a résumé or job description. "-" reads stdin. Plain text
// and markdown are returned as-is so that layout signals survive; HTML and
// DOCX go through ingestion.
func (a *app) readText(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(a.in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	format, err := ingestion.DetectFormat(path)
	if err != nil {
		return "", err
	}
	if format == ingestion.FormatText || format == ingestion.FormatMarkdown {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}
	text, _, err := ingestion.IngestFromFile(path)
	return text, err
}

// readJSON decodes a JSON document from path, or stdin for "-".
func (a *app) readJSON(path string, dst any) error {
	var r io.Reader = a.in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// emit writes doc as indented JSON or through print. When schema is set, the
// JSON form is checked against it and a mismatch is only logged.
func (a *app) emit(doc any, schema schemas.Name, print func(*observability.Printer)) error {
	if schema != "" {
		if err := schemas.ValidateDocument(schema, doc); err != nil {
			a.log.Warn("output does not match schema",
				zap.String("schema", string(schema)),
				zap.String("error", logger.TruncateForLog(err.Error(), 500)),
			)
		}
	}
	if a.output == outputJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	print(observability.NewPrinter(a.out))
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout, os.Stdin).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
