package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dxue2012/bayclub-to-splitwise/internal/logging"
	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
)

// GeminiParser implements StatementParser using the Google Gemini API. The
// statement PDF is attached inline and the model is asked for a strict JSON
// array of rows.
type GeminiParser struct {
	apiKey    string
	modelName string
	rules     Rules
	logger    logging.Logger
}

// NewGeminiParser creates a Gemini-backed statement parser.
func NewGeminiParser(apiKey, modelName string, rules Rules, logger logging.Logger) *GeminiParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &GeminiParser{
		apiKey:    apiKey,
		modelName: modelName,
		rules:     rules,
		logger:    logger,
	}
}

// Parse uploads the statement and returns the extracted rows. This is the one
// blocking external call of a batch run; it can take a while for large
// statements.
func (g *GeminiParser) Parse(ctx context.Context, pdfPath string, memberNames []string) ([]models.RawRow, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	pdfBytes, err := os.ReadFile(pdfPath) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, fmt.Errorf("could not read statement PDF: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			g.logger.WithError(err).Warn("Failed to close Gemini client")
		}
	}()

	model := client.GenerativeModel(g.modelName)
	model.SetTemperature(0.5)

	prompt := buildPrompt(memberNames, g.rules)
	g.logger.Info("Querying the extraction model, this may take a while",
		logging.Field{Key: "model", Value: g.modelName},
		logging.Field{Key: "pdf", Value: pdfPath})

	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: "application/pdf", Data: pdfBytes},
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, fmt.Errorf("no response from Gemini API")
	}

	rows, err := DecodeRows(raw)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Got parsed statement",
		logging.Field{Key: "rows", Value: len(rows)})
	return rows, nil
}

// buildPrompt assembles the extraction instructions: the output contract, the
// member list and the responsible-person derivation rules.
func buildPrompt(memberNames []string, rules Rules) string {
	var b strings.Builder

	b.WriteString("You are a helpful assistant who is proficient at parsing PDFs and processing data.\n\n")
	b.WriteString("You will be given a PDF that represents a billing statement for a group, and you are tasked with processing it into a JSON table.\n\n")
	b.WriteString("Output contract:\n")
	b.WriteString("- Output STRICT JSON only: a JSON array of objects, no comments, no extra text.\n")
	b.WriteString("- Do NOT wrap the response in code fences or Markdown. Output must begin with \"[\" and end with \"]\".\n")
	b.WriteString("- Each object has exactly these keys: \"date\", \"amount\", \"description\", \"assigned_member\", \"reason\".\n")
	b.WriteString("- \"assigned_member\" is the responsible person: either one of the members listed below, or \"All\" or \"Unknown\".\n")
	b.WriteString("- \"reason\" is your rationale for how you derived the responsible person.\n")
	b.WriteString("- Include the full description (merge multiple lines into one if necessary) for human consumption.\n\n")

	b.WriteString("The members are: ")
	b.WriteString(strings.Join(memberNames, ", "))
	b.WriteString("\n\n")

	b.WriteString("Rules for deriving the responsible person from the row description:\n")
	for i, instruction := range rules.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, instruction)
	}
	b.WriteString("\nRemember to think step by step, and double check your work.\n")

	return b.String()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// rowPayload mirrors the contract keys with tolerant field types, since the
// model sometimes emits amounts as JSON numbers instead of strings.
type rowPayload struct {
	Date           flexString `json:"date"`
	Amount         flexString `json:"amount"`
	Description    flexString `json:"description"`
	AssignedMember flexString `json:"assigned_member"`
	Reason         flexString `json:"reason"`
}

// flexString accepts a JSON string, number, or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// DecodeRows cleans a model response and decodes it into raw rows.
func DecodeRows(raw string) ([]models.RawRow, error) {
	clean := cleanModelJSON(raw)

	var payloads []rowPayload
	if err := json.Unmarshal([]byte(clean), &payloads); err != nil {
		return nil, fmt.Errorf("could not decode extraction output: %w", err)
	}

	rows := make([]models.RawRow, 0, len(payloads))
	for _, p := range payloads {
		rows = append(rows, models.RawRow{
			Date:           string(p.Date),
			Amount:         string(p.Amount),
			Description:    string(p.Description),
			AssignedMember: string(p.AssignedMember),
			Reason:         string(p.Reason),
		})
	}
	return rows, nil
}

// cleanModelJSON strips Markdown fences and surrounding prose when the model
// ignores the strict-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost JSON array if there is still junk around it.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
