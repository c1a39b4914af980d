package narrative

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/hibana/pkg/domain/model"
)

//go:embed prompt/analysis.md
var analysisPromptTmpl string

var analysisPrompt = template.Must(
	template.New("analysis").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"orUnknown": func(s string) string {
			if s == "" {
				return "不明"
			}
			return s
		},
	}).Parse(analysisPromptTmpl),
)

type promptInput struct {
	InputText string
	Score     *model.RiskScore
	Incidents []*model.Incident
}

// Service generates the qualitative analysis narrative via an LLM. The
// narrative is advisory context on top of the deterministic score; the
// engine never depends on it.
type Service struct {
	llm gollem.LLMClient
}

func New(llm gollem.LLMClient) *Service {
	return &Service{llm: llm}
}

// Generate renders the analysis prompt and asks the LLM for the narrative
func (s *Service) Generate(ctx context.Context, text string, score *model.RiskScore, incidents []*model.Incident) (string, error) {
	prompt, err := BuildPrompt(text, score, incidents)
	if err != nil {
		return "", err
	}

	session, err := s.llm.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate analysis narrative")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("LLM returned empty narrative")
	}

	return strings.Join(resp.Texts, "\n"), nil
}

// BuildPrompt renders the analysis prompt without calling the LLM
func BuildPrompt(text string, score *model.RiskScore, incidents []*model.Incident) (string, error) {
	var buf bytes.Buffer
	input := promptInput{
		InputText: text,
		Score:     score,
		Incidents: incidents,
	}
	if err := analysisPrompt.Execute(&buf, input); err != nil {
		return "", goerr.Wrap(err, "failed to render analysis prompt")
	}
	return buf.String(), nil
}
