package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/kqlbench/kqlbench/internal/logsource"
	"github.com/kqlbench/kqlbench/internal/models"
)

// OpenAIEngine implements both collaborators against an OpenAI-compatible
// chat completions endpoint. The client reads OPENAI_API_KEY (and optionally
// OPENAI_BASE_URL) from the environment.
type OpenAIEngine struct {
	client openai.Client
	judges []judge
}

type judge struct {
	id     string
	model  string
	params judgeParams
}

// judgeParams are the optional per-judge knobs from the bench spec.
type judgeParams struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// NewOpenAIEngine builds an engine for the configured judge panel.
func NewOpenAIEngine(judgeConfigs []models.JudgeConfig) (*OpenAIEngine, error) {
	e := &OpenAIEngine{client: openai.NewClient()}
	for _, jc := range judgeConfigs {
		var params judgeParams
		if err := mapstructure.Decode(jc.Parameters, &params); err != nil {
			return nil, fmt.Errorf("decoding config for judge %q: %w", jc.ID, err)
		}
		model := jc.Model
		if model == "" {
			model = jc.ID
		}
		e.judges = append(e.judges, judge{id: jc.ID, model: model, params: params})
	}
	return e, nil
}

const explainSystemPrompt = `You are a log analysis assistant. You are given a KQL query and the
result table it produced. Explain what the results show: notable values,
trends, anomalies, and what they likely mean for the monitored system.
Be accurate — never invent values that are not in the table.`

// Explain implements Explainer.
func (e *OpenAIEngine) Explain(ctx context.Context, req *ExplainRequest) (string, error) {
	prompt := fmt.Sprintf("Query:\n%s\n\nResults:\n%s", req.Query, logsource.FormatTable(req.Table))

	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(req.ModelID),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(explainSystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("explanation call for model %s: %w", req.ModelID, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("explanation call for model %s returned no content", req.ModelID)
	}
	return resp.Choices[0].Message.Content, nil
}

// Evaluate implements JudgePanel. Each judge is called in turn; a judge that
// fails is logged and skipped. The call as a whole only errors when no judge
// produced a usable verdict.
func (e *OpenAIEngine) Evaluate(ctx context.Context, req *EvaluateRequest) (*Evaluation, error) {
	eval := &Evaluation{}
	var lastErr error

	for _, j := range e.judges {
		verdict, err := e.scoreOne(ctx, j, req)
		if err != nil {
			slog.Debug("judge call failed", "judge", j.id, "error", err)
			lastErr = err
			continue
		}
		eval.Verdicts = append(eval.Verdicts, *verdict)
	}

	if len(eval.Verdicts) == 0 {
		return nil, fmt.Errorf("every judge failed: %w", lastErr)
	}
	return eval, nil
}

func (e *OpenAIEngine) scoreOne(ctx context.Context, j judge, req *EvaluateRequest) (*models.JudgeVerdict, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(j.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(judgeSystemPrompt(req.Audience)),
			openai.UserMessage(judgeUserPrompt(req)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if j.params.Temperature > 0 {
		params.Temperature = openai.Float(j.params.Temperature)
	}
	if j.params.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(j.params.MaxTokens))
	}

	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("judge %s: %w", j.id, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("judge %s returned no choices", j.id)
	}

	verdict, err := ParseVerdict(j.id, resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("judge %s: %w", j.id, err)
	}
	return verdict, nil
}

func judgeSystemPrompt(audience models.Audience) string {
	var sb strings.Builder
	sb.WriteString("You are an expert judge scoring an explanation of KQL query results for a ")
	sb.WriteString(string(audience))
	sb.WriteString(" audience.\n\nScore each dimension from 1 (poor) to 5 (excellent):\n")
	for _, d := range models.AllDimensions() {
		sb.WriteString("- ")
		sb.WriteString(string(d))
		sb.WriteString("\n")
	}
	sb.WriteString(`
Respond with a single JSON object containing each dimension name as a key
with a numeric score, plus "confidence" (1-5) and "notes" (a short string).
Omit a dimension only if it genuinely cannot be assessed.`)
	return sb.String()
}

func judgeUserPrompt(req *EvaluateRequest) string {
	return fmt.Sprintf("Query:\n%s\n\nResults:\n%s\n\nExplanation to score:\n%s",
		req.Query, logsource.FormatTable(req.Table), req.Explanation)
}

// ParseVerdict decodes a judge's JSON response into a verdict. Unknown keys
// other than "confidence" and "notes" are rejected so malformed responses
// surface as remote-call failures instead of polluting the rubric.
func ParseVerdict(judgeID, content string) (*models.JudgeVerdict, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("malformed verdict JSON: %w", err)
	}

	verdict := &models.JudgeVerdict{JudgeID: judgeID, Scores: models.ScoreVector{}}
	for key, val := range raw {
		switch key {
		case "confidence":
			if err := json.Unmarshal(val, &verdict.Confidence); err != nil {
				return nil, fmt.Errorf("malformed confidence: %w", err)
			}
		case "notes":
			if err := json.Unmarshal(val, &verdict.Notes); err != nil {
				return nil, fmt.Errorf("malformed notes: %w", err)
			}
		default:
			d, err := models.ParseDimension(key)
			if err != nil {
				return nil, err
			}
			var score float64
			if err := json.Unmarshal(val, &score); err != nil {
				return nil, fmt.Errorf("malformed score for %s: %w", key, err)
			}
			verdict.Scores[d] = models.ClampScore(score)
		}
	}

	if len(verdict.Scores) == 0 {
		return nil, fmt.Errorf("verdict contains no dimension scores")
	}
	return verdict, nil
}
