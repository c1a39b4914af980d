package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hibana/pkg/cli/config"
	"github.com/secmon-lab/hibana/pkg/domain/types"
	"github.com/secmon-lab/hibana/pkg/service/scoring"
	"github.com/secmon-lab/hibana/pkg/utils/logging"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644)).Required()
	return path
}

func TestCatalogConfigure(t *testing.T) {
	t.Run("no path yields nil config", func(t *testing.T) {
		var catalog config.Catalog
		cfg, err := catalog.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg).Nil()
	})

	t.Run("overrides tiers and keeps default factors", func(t *testing.T) {
		path := writeCatalog(t, `
[[tier]]
name = "extreme_risk"
weight = 4.0
base_score = 95
patterns = ["殺す", "死ね"]

[[legal]]
name = "名誉毀損"
keywords = ["盗作", "パクリ"]
`)

		var catalog config.Catalog
		catalog.SetPathForTest(path)

		cfg, err := catalog.Configure()
		gt.NoError(t, err).Required()

		gt.Array(t, cfg.Tiers).Length(1)
		gt.Value(t, cfg.Tiers[0].Name).Equal("extreme_risk")
		gt.Array(t, cfg.Tiers[0].Patterns).Length(2)

		gt.Array(t, cfg.LegalFactors).Length(1)
		gt.Value(t, cfg.LegalFactors[0].Name).Equal("名誉毀損")

		// untouched sections keep the built-in tables
		defaults := scoring.DefaultConfig()
		gt.Value(t, len(cfg.BrandFactors)).Equal(len(defaults.BrandFactors))
		gt.Value(t, len(cfg.Categories)).Equal(len(defaults.Categories))
	})

	t.Run("patterns are case insensitive", func(t *testing.T) {
		path := writeCatalog(t, `
[[tier]]
name = "latin"
weight = 2.0
base_score = 50
patterns = ["badword"]
`)

		var catalog config.Catalog
		catalog.SetPathForTest(path)

		cfg, err := catalog.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg.Tiers[0].Patterns[0].MatchString("BADWORD")).Equal(true)
	})

	t.Run("overrides category table", func(t *testing.T) {
		path := writeCatalog(t, `
[[category]]
name = "労働問題"
keywords = ["残業", "過労"]
`)

		var catalog config.Catalog
		catalog.SetPathForTest(path)

		cfg, err := catalog.Configure()
		gt.NoError(t, err).Required()
		gt.Array(t, cfg.Categories).Length(1)
		gt.Value(t, cfg.Categories[0].Category).Equal(types.CategoryLaborIssue)
	})

	t.Run("invalid regex fails", func(t *testing.T) {
		path := writeCatalog(t, `
[[tier]]
name = "broken"
weight = 1.0
base_score = 20
patterns = ["[unclosed"]
`)

		var catalog config.Catalog
		catalog.SetPathForTest(path)

		_, err := catalog.Configure()
		gt.Error(t, err).Is(config.ErrInvalidPattern)
	})

	t.Run("unknown category fails validation", func(t *testing.T) {
		path := writeCatalog(t, `
[[category]]
name = "存在しないカテゴリ"
keywords = ["何か"]
`)

		var catalog config.Catalog
		catalog.SetPathForTest(path)

		_, err := catalog.Configure()
		gt.Error(t, err).Is(config.ErrInvalidCatalog)
	})

	t.Run("missing file fails", func(t *testing.T) {
		var catalog config.Catalog
		catalog.SetPathForTest(filepath.Join(t.TempDir(), "missing.toml"))

		_, err := catalog.Configure()
		gt.Error(t, err)
	})
}

func TestLoggerConfigure(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		prev := logging.Default()
		defer logging.SetDefault(prev)

		var logger config.Logger
		logger.SetForTest("debug", "json", "-")

		closer, err := logger.Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("writes to file", func(t *testing.T) {
		prev := logging.Default()
		defer logging.SetDefault(prev)

		path := filepath.Join(t.TempDir(), "hibana.log")
		var logger config.Logger
		logger.SetForTest("info", "json", path)

		closer, err := logger.Configure()
		gt.NoError(t, err).Required()
		defer closer()

		_, statErr := os.Stat(path)
		gt.NoError(t, statErr)
	})

	t.Run("invalid level fails", func(t *testing.T) {
		var logger config.Logger
		logger.SetForTest("verbose", "console", "-")

		_, err := logger.Configure()
		gt.Error(t, err).Is(config.ErrInvalidLogLevel)
	})

	t.Run("invalid format fails", func(t *testing.T) {
		var logger config.Logger
		logger.SetForTest("info", "xml", "-")

		_, err := logger.Configure()
		gt.Error(t, err).Is(config.ErrInvalidLogFormat)
	})
}
