package commentary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
)

// Fallback texts returned to callers when the upstream is unavailable.
const (
	FallbackSummary = "Analysis completed using local algorithms. AI commentary unavailable."
	FallbackChat    = "I'm having trouble connecting to the AI service. Please try asking about specific procurement topics like vendor analysis, cost optimization, or contract management."
)

// maxContractRecords bounds the records sent for contract extraction.
const maxContractRecords = 20

// Summarize asks for a narrative over a finished analysis.
func (c *Client) Summarize(ctx context.Context, result *analyzer.AnalysisResult) (string, error) {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis: %w", err)
	}

	user := "Based on this procurement analysis, create a professional summary:\n\n" +
		"ANALYSIS RESULTS:\n" + string(payload) + "\n\n" +
		"Format your response as insight cards with:\n" +
		"- Clear titles and descriptions\n" +
		"- Business impact explanation\n" +
		"- Specific next steps\n" +
		"- Professional tone suitable for procurement teams"

	return c.complete(ctx, []message{
		{Role: "system", Content: "You are a procurement AI assistant. Format the following analysis into professional insight cards with clear recommendations. Focus on actionable next steps and business impact."},
		{Role: "user", Content: user},
	}, 0.3, 1200)
}

// Card is one presentation card for an insight.
type Card struct {
	Title          string   `json:"title"`
	Type           string   `json:"type"`
	Priority       string   `json:"priority"`
	Savings        float64  `json:"savings"`
	Confidence     float64  `json:"confidence"`
	Description    string   `json:"description"`
	Evidence       []string `json:"evidence"`
	NextStep       string   `json:"nextStep"`
	BusinessImpact string   `json:"businessImpact,omitempty"`
}

// CardSet is the structured insight-card document. AICommentary and
// ParseError are set only when the upstream reply could not be parsed and
// the cards were derived locally.
type CardSet struct {
	ExecutiveSummary string  `json:"executiveSummary"`
	TotalSavings     float64 `json:"totalSavings"`
	InsightCards     []Card  `json:"insightCards"`
	AICommentary     string  `json:"aiCommentary,omitempty"`
	ParseError       string  `json:"parseError,omitempty"`
}

const cardsSystemPrompt = `You are a procurement AI assistant. You must return ONLY valid JSON with no additional text or markdown formatting.

Return this exact JSON structure:
{
  "executiveSummary": "Brief overview of key findings and total savings potential",
  "totalSavings": [total savings number from analysis],
  "insightCards": [
    {
      "title": "Specific actionable title",
      "type": "duplicate_vendors",
      "priority": "HIGH",
      "savings": [savings amount],
      "confidence": [0.0 to 1.0],
      "description": "Clear explanation of the issue found",
      "evidence": ["Specific calculation", "Data point", "Supporting fact"],
      "nextStep": "Specific action to take",
      "businessImpact": "Why this matters to procurement"
    }
  ]
}

CRITICAL: Return ONLY the JSON object, no other text.`

func cardsUserPrompt(result *analyzer.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("Convert this procurement analysis into structured insight cards:\n\n")
	b.WriteString("FINDINGS:\n")
	fmt.Fprintf(&b, "- Total Savings: %s\n", analyzer.FormatMoney(result.Summary.TotalSavings))
	fmt.Fprintf(&b, "- Records Analyzed: %d\n", result.Summary.RecordsAnalyzed)
	fmt.Fprintf(&b, "- Key Insights: %d opportunities found\n\n", len(result.Insights))
	b.WriteString("DETAILED INSIGHTS:\n")
	for i := range result.Insights {
		ins := &result.Insights[i]
		fmt.Fprintf(&b, "\n- %s: %s potential impact\n", ins.Title, analyzer.FormatMoney(ins.Impact()))
		fmt.Fprintf(&b, "- Evidence: %s\n", strings.Join(ins.Evidence, ", "))
		fmt.Fprintf(&b, "- Action: %s\n", ins.NextStep)
	}
	b.WriteString("\nConvert to JSON format with professional language for procurement teams.")
	return b.String()
}

// InsightCards asks the upstream to word the analysis as cards. An
// unparseable reply falls back to cards built from the analysis itself; only
// transport and upstream failures return an error.
func (c *Client) InsightCards(ctx context.Context, result *analyzer.AnalysisResult) (*CardSet, error) {
	reply, err := c.complete(ctx, []message{
		{Role: "system", Content: cardsSystemPrompt},
		{Role: "user", Content: cardsUserPrompt(result)},
	}, 0.2, 2000)
	if err != nil {
		return nil, err
	}

	var set CardSet
	if err := json.Unmarshal([]byte(stripFences(reply)), &set); err != nil {
		fallback := FallbackCards(result)
		fallback.AICommentary = reply
		fallback.ParseError = "AI response was not valid JSON, using structured analysis"
		return fallback, nil
	}
	return &set, nil
}

// FallbackCards derives a card set directly from the analysis.
func FallbackCards(result *analyzer.AnalysisResult) *CardSet {
	cards := make([]Card, 0, len(result.Insights))
	for i := range result.Insights {
		ins := &result.Insights[i]
		cards = append(cards, Card{
			Title:       ins.Title,
			Type:        string(ins.Type),
			Priority:    string(ins.Priority),
			Savings:     ins.Impact(),
			Confidence:  ins.Confidence,
			Description: ins.Description,
			Evidence:    ins.Evidence,
			NextStep:    ins.NextStep,
		})
	}
	return &CardSet{
		ExecutiveSummary: result.ActionPlan.ExecutiveSummary,
		TotalSavings:     result.Summary.TotalSavings,
		InsightCards:     cards,
	}
}

// Chat answers a free-form question with the given summary as context.
func (c *Client) Chat(ctx context.Context, question string, summary any) (string, error) {
	if summary == nil {
		summary = map[string]any{}
	}
	encoded, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat context: %w", err)
	}

	system := "You are a procurement AI assistant. You have access to procurement data context: " +
		string(encoded) +
		". Answer questions about procurement, vendor management, cost optimization, and provide actionable advice."

	return c.complete(ctx, []message{
		{Role: "system", Content: system},
		{Role: "user", Content: question},
	}, 0.7, 600)
}

// Contract is a contract term the upstream believes it found in the data.
type Contract struct {
	Vendor       string  `json:"vendor"`
	ContractType string  `json:"contractType"`
	RenewalDate  string  `json:"renewalDate"`
	AnnualValue  float64 `json:"annualValue"`
	Confidence   float64 `json:"confidence"`
	Evidence     string  `json:"evidence"`
}

const contractPrompt = `Analyze this procurement data and identify any contract renewal dates, contract terms, or expiration dates. Look for patterns in vendor names, PO numbers, amounts, or descriptions that suggest contract renewals.

Return ONLY a JSON array of contracts found:
[
  {
    "vendor": "vendor name",
    "contractType": "annual_contract|service_agreement|license_renewal",
    "renewalDate": "YYYY-MM-DD",
    "annualValue": number,
    "confidence": 0.0-1.0,
    "evidence": "why you think this is a contract"
  }
]

Data to analyze:
`

// ExtractContracts asks the upstream to find contract renewals in the first
// records of the batch.
func (c *Client) ExtractContracts(ctx context.Context, records []analyzer.Record) ([]Contract, error) {
	if len(records) > maxContractRecords {
		records = records[:maxContractRecords]
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}

	reply, err := c.complete(ctx, []message{
		{Role: "system", Content: "You are a contract analysis expert. Return only valid JSON arrays."},
		{Role: "user", Content: contractPrompt + string(data)},
	}, 0.2, 1500)
	if err != nil {
		return nil, err
	}

	var contracts []Contract
	if err := json.Unmarshal([]byte(stripFences(reply)), &contracts); err != nil {
		return nil, fmt.Errorf("failed to parse contract list: %w", err)
	}
	return contracts, nil
}

// Ping sends a trivial prompt to verify connectivity and returns the reply.
func (c *Client) Ping(ctx context.Context) (string, error) {
	return c.complete(ctx, []message{
		{Role: "user", Content: `Hello! Please respond with a simple JSON object: {"status": "connected"}`},
	}, 0.1, 100)
}
