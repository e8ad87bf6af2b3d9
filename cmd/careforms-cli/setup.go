package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	careforms "github.com/goliatone/go-careforms"
	"github.com/goliatone/go-careforms/internal/config"
	"github.com/goliatone/go-careforms/internal/logging"
	"github.com/goliatone/go-careforms/pkg/model"
)

type globalFlags struct {
	envFile      string
	serviceURL   string
	outputDir    string
	logLevel     string
	themeVariant string
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.envFile, "env-file", ".env", "Path to a dotenv file with settings")
	pf.StringVar(&f.serviceURL, "service-url", "", "Document service base URL (overrides SERVICE_URL)")
	pf.StringVar(&f.outputDir, "output-dir", "", "Directory for generated documents (overrides OUTPUT_DIR)")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	pf.StringVar(&f.themeVariant, "theme-variant", "", "Terminal theme variant, e.g. plain (overrides THEME_VARIANT)")
}

// load reads configuration, applies flag overrides and builds the logger.
func (f *globalFlags) load(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadFile(f.envFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	flags := cmd.Flags()
	if flags.Changed("service-url") {
		cfg.ServiceURL = strings.TrimRight(strings.TrimSpace(f.serviceURL), "/")
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("theme-variant") {
		cfg.ThemeVariant = f.themeVariant
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Development: cfg.IsDev(),
		Out:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

func (f *globalFlags) session(cmd *cobra.Command) (*careforms.Session, *config.Config, zerolog.Logger, error) {
	cfg, logger, err := f.load(cmd)
	if err != nil {
		return nil, nil, logger, err
	}
	sess, err := careforms.NewSession(cfg.ServiceURL,
		careforms.WithLogger(logger),
		careforms.WithOutputDir(cfg.OutputDir),
		careforms.WithLookupDebounce(cfg.LookupDebounce),
		careforms.WithLookupCacheTTL(cfg.LookupCacheTTL),
		careforms.WithRequestTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, nil, logger, err
	}
	return sess, cfg, logger, nil
}

var stepAliases = map[string]model.Step{
	"reentry":                model.StepReentryCarePlan,
	"reentry-care-plan":      model.StepReentryCarePlan,
	"hra":                    model.StepHealthRiskAssessment,
	"health-risk-assessment": model.StepHealthRiskAssessment,
	"warm-handoff":           model.StepWarmHandoff,
	"handoff":                model.StepWarmHandoff,
}

var assessmentAliases = map[string]model.AssessmentType{
	"":         model.AssessmentNone,
	"adult":    model.AssessmentAdult,
	"juvenile": model.AssessmentJuvenile,
}

func parseStep(raw string) (model.Step, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if step, ok := stepAliases[key]; ok {
		return step, nil
	}
	for _, step := range model.Steps() {
		if strings.EqualFold(string(step), strings.TrimSpace(raw)) {
			return step, nil
		}
	}
	return "", fmt.Errorf("unknown step %q (use reentry, hra or warm-handoff)", raw)
}

func parseAssessment(raw string) (model.AssessmentType, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if assessment, ok := assessmentAliases[key]; ok {
		return assessment, nil
	}
	for _, assessment := range model.AssessmentTypes() {
		if strings.EqualFold(string(assessment), strings.TrimSpace(raw)) || strings.EqualFold(assessment.Label(), strings.TrimSpace(raw)) {
			return assessment, nil
		}
	}
	return "", fmt.Errorf("unknown assessment type %q (use adult or juvenile)", raw)
}
