package cli

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hibana/pkg/cli/config"
	"github.com/secmon-lab/hibana/pkg/domain/model"
	"github.com/secmon-lab/hibana/pkg/domain/types"
	"github.com/secmon-lab/hibana/pkg/utils/logging"
	"github.com/secmon-lab/hibana/pkg/utils/safe"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// seedConcurrency bounds parallel incident writes against the backend
const seedConcurrency = 8

func cmdSeed() *cli.Command {
	var csvPath string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "csv",
			Usage:       "Path to the incident CSV file (required)",
			Required:    true,
			Sources:     cli.EnvVars("HIBANA_SEED_CSV"),
			Destination: &csvPath,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Import past incidents from a CSV file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			incidents, err := readIncidentCSV(ctx, csvPath)
			if err != nil {
				return err
			}

			var imported atomic.Int64
			eg, egCtx := errgroup.WithContext(ctx)
			eg.SetLimit(seedConcurrency)
			for _, incident := range incidents {
				eg.Go(func() error {
					if _, err := repo.Incident().Create(egCtx, incident); err != nil {
						return goerr.Wrap(err, "failed to import incident", goerr.V("title", incident.Title))
					}
					imported.Add(1)
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			logging.Default().Info("Incident import completed",
				"path", csvPath,
				"imported", imported.Load(),
			)
			return nil
		},
	}
}

// readIncidentCSV parses a header-mapped CSV into incidents. Column order
// does not matter; unknown columns are ignored.
func readIncidentCSV(ctx context.Context, path string) ([]*model.Incident, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open CSV file", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read CSV header", goerr.V("path", path))
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"title", "incident_text", "incident_date", "cause_category", "reasoning_text"} {
		if _, ok := columns[required]; !ok {
			return nil, goerr.New("missing required CSV column", goerr.V("column", required))
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var incidents []*model.Incident
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read CSV record", goerr.V("line", line))
		}

		date, err := parseIncidentDate(field(record, "incident_date"))
		if err != nil {
			return nil, goerr.Wrap(err, "invalid incident date", goerr.V("line", line))
		}

		incident := &model.Incident{
			Title:         field(record, "title"),
			IncidentText:  field(record, "incident_text"),
			IncidentDate:  date,
			CauseCategory: types.CauseCategory(field(record, "cause_category")),
			ReasoningText: field(record, "reasoning_text"),
			CompanyInfo:   field(record, "company_info"),
			MediaURL:      field(record, "media_url"),
			ResponseText:  field(record, "response_text"),
			Outcome:       field(record, "outcome"),
		}
		if err := incident.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid incident record", goerr.V("line", line))
		}

		incidents = append(incidents, incident)
	}

	return incidents, nil
}

func parseIncidentDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, goerr.New("unsupported date format", goerr.V("value", value))
}
