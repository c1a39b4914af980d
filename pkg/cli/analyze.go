package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hibana/pkg/cli/config"
	"github.com/secmon-lab/hibana/pkg/domain/model"
	"github.com/secmon-lab/hibana/pkg/domain/types"
	"github.com/secmon-lab/hibana/pkg/usecase"
	"github.com/secmon-lab/hibana/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdAnalyze() *cli.Command {
	var limit int
	var format string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var catalogCfg config.Catalog

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of related incidents to retrieve",
			Value:       3,
			Sources:     cli.EnvVars("HIBANA_ANALYZE_LIMIT"),
			Destination: &limit,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (text or json)",
			Value:       "text",
			Sources:     cli.EnvVars("HIBANA_ANALYZE_FORMAT"),
			Destination: &format,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze a single text and print the risk report",
		ArgsUsage: "<text>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.Join(c.Args().Slice(), " ")
			if text == "" {
				return goerr.New("text argument is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			scoringCfg, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load scoring catalog")
			}

			llm, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			ucOpts := []usecase.Option{}
			if scoringCfg != nil {
				ucOpts = append(ucOpts, usecase.WithScoringConfig(scoringCfg))
			}
			if llm != nil {
				ucOpts = append(ucOpts, usecase.WithLLM(llm))
			}

			uc := usecase.New(repo, ucOpts...)
			report, err := uc.Analysis.Analyze(ctx, text, limit)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return printReportJSON(report)
			case "text":
				printReportText(report)
				return nil
			default:
				return goerr.New("invalid output format", goerr.V("format", format))
			}
		},
	}
}

func printReportJSON(report *model.AnalysisReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal report")
	}
	fmt.Println(string(data))
	return nil
}

func printReportText(report *model.AnalysisReport) {
	score := report.RiskScore
	level := score.Level()

	fmt.Printf("総合スコア: %s  %s\n", color.New(color.Bold).Sprintf("%d/100", score.OverallScore), levelColor(level).Sprint(level))
	fmt.Printf("  コンテンツ: %3d  法的: %3d  ブランド: %3d  社会的: %3d\n",
		score.ContentRisk, score.LegalRisk, score.BrandRisk, score.SocialRisk)
	fmt.Printf("カテゴリ: %s\n", score.Category)
	fmt.Printf("信頼度: %.2f\n", score.Confidence)

	if len(report.Recommendations) > 0 {
		fmt.Println("\n推奨事項:")
		for _, rec := range report.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}

	if len(report.RelatedIncidents) > 0 {
		fmt.Println("\n類似事例:")
		for _, incident := range report.RelatedIncidents {
			fmt.Printf("  [%s] %s (%s)\n",
				incident.CauseCategory,
				incident.Title,
				incident.IncidentDate.Format("2006-01-02"),
			)
		}
	}

	if report.AnalysisText != "" {
		fmt.Println("\n詳細分析:")
		fmt.Println(report.AnalysisText)
	}
}

func levelColor(level types.RiskLevel) *color.Color {
	switch level {
	case types.RiskLevelCritical, types.RiskLevelHigh:
		return color.New(color.FgRed, color.Bold)
	case types.RiskLevelMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
