package config

import (
	"os"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/hibana/pkg/domain/model/config"
	"github.com/secmon-lab/hibana/pkg/domain/types"
	"github.com/secmon-lab/hibana/pkg/service/scoring"
	"github.com/urfave/cli/v3"
)

// Catalog holds CLI flags for the scoring catalog override. The catalog is
// a TOML file that replaces sections of the built-in scoring tables;
// sections not present in the file keep their defaults.
type Catalog struct {
	path string
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "scoring-catalog",
			Usage:       "Path to a TOML scoring catalog override",
			Sources:     cli.EnvVars("HIBANA_SCORING_CATALOG"),
			Destination: &c.path,
		},
	}
}

// Path returns the configured catalog path
func (c *Catalog) Path() string {
	return c.path
}

type catalogFile struct {
	Tiers      []catalogTier     `toml:"tier"`
	Legal      []catalogFactor   `toml:"legal"`
	Brand      []catalogFactor   `toml:"brand"`
	Social     []catalogFactor   `toml:"social"`
	Categories []catalogCategory `toml:"category"`
}

type catalogTier struct {
	Name      string   `toml:"name"`
	Weight    float64  `toml:"weight"`
	BaseScore int      `toml:"base_score"`
	Patterns  []string `toml:"patterns"`
}

type catalogFactor struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
}

type catalogCategory struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
}

// Configure loads the catalog file and merges it over the built-in tables.
// A nil result means no override is configured and the defaults apply.
func (c *Catalog) Configure() (*domainConfig.ScoringConfig, error) {
	if c.path == "" {
		return nil, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read scoring catalog", goerr.V("path", c.path))
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse scoring catalog", goerr.V("path", c.path))
	}

	cfg := scoring.DefaultConfig()

	if len(file.Tiers) > 0 {
		tiers := make([]domainConfig.PatternTier, 0, len(file.Tiers))
		for _, tier := range file.Tiers {
			patterns := make([]*regexp.Regexp, 0, len(tier.Patterns))
			for _, expr := range tier.Patterns {
				re, err := regexp.Compile("(?i)" + expr)
				if err != nil {
					return nil, goerr.Wrap(ErrInvalidPattern, "failed to compile pattern",
						goerr.V("tier", tier.Name),
						goerr.V("pattern", expr),
						goerr.V("cause", err.Error()),
					)
				}
				patterns = append(patterns, re)
			}
			tiers = append(tiers, domainConfig.PatternTier{
				Name:      tier.Name,
				Patterns:  patterns,
				Weight:    tier.Weight,
				BaseScore: tier.BaseScore,
			})
		}
		cfg.Tiers = tiers
	}

	if len(file.Legal) > 0 {
		cfg.LegalFactors = toFactorRules(file.Legal)
	}
	if len(file.Brand) > 0 {
		cfg.BrandFactors = toFactorRules(file.Brand)
	}
	if len(file.Social) > 0 {
		cfg.SocialFactors = toFactorRules(file.Social)
	}

	if len(file.Categories) > 0 {
		categories := make([]domainConfig.CategoryRule, 0, len(file.Categories))
		for _, category := range file.Categories {
			categories = append(categories, domainConfig.CategoryRule{
				Category: types.CauseCategory(category.Name),
				Keywords: category.Keywords,
			})
		}
		cfg.Categories = categories
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidCatalog, "catalog validation failed",
			goerr.V("path", c.path),
			goerr.V("cause", err.Error()),
		)
	}

	return cfg, nil
}

func toFactorRules(factors []catalogFactor) []domainConfig.FactorRule {
	rules := make([]domainConfig.FactorRule, 0, len(factors))
	for _, factor := range factors {
		rules = append(rules, domainConfig.FactorRule{
			Name:     factor.Name,
			Keywords: factor.Keywords,
		})
	}
	return rules
}
