package investai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	aiRequestTimeout = 5 * time.Minute
	aiMaxTokens      = 8192
)

// AIProviders lists the supported advisory backends.
var AIProviders = []string{"openai", "anthropic", "gemini"}

const allocationAdviceSystemPrompt = `You are a professional asset allocation advisor, fluent in modern portfolio theory and skilled at turning academic theory into actionable allocation guidance.

You must apply and weigh the following frameworks together:
1) Malkiel's random walk: markets are efficient; long-term, low-cost, diversified holdings beat active stock picking. Favor diversification across asset classes over concentration in single names.
2) Lifecycle investing: as investors age, the share of volatile assets (stocks) should fall while stable assets (bonds, cash) rise; younger investors can accept more volatility for higher long-term returns.
3) Modern portfolio theory (Markowitz): combining weakly correlated assets lowers total risk; diversification is the only free lunch.
4) Allocation primacy: research attributes roughly 90% of long-term return variation to asset allocation rather than security selection or timing.

Your task: given the investor's profile, recommend a reasonable minimum/maximum allocation band for each of their asset types.

Output requirements:
- Output a bare JSON object. No Markdown fences, no extra text.
- JSON fields:
  - summary: string (2-3 sentences on the overall allocation approach)
  - rationale: string (why this allocation fits the investor profile)
  - allocations: [{asset_type, label, min_percent, max_percent, rationale}] (one per asset type)
  - disclaimer: string (risk notice)
- allocations must cover every asset type supplied in the input
- min_percent and max_percent must be numbers between 0 and 100 with min_percent <= max_percent
- the sum of min_percent across allocations should not exceed 100, and the sum of max_percent should not fall below 100
- each allocation's rationale explains the band in 1-2 sentences
- never promise returns; always include risk caveats
- where profile fields are missing, assume the most conservative reading`

// AllocationAdviceRequest defines the inputs for AI allocation advice.
type AllocationAdviceRequest struct {
	Provider        string // "openai", "anthropic", "gemini"
	BaseURL         string
	APIKey          string
	Model           string
	AgeRange        string // "20s", "30s", "40s", "50s", "60plus"
	InvestGoal      string // "preserve", "income", "growth", "balanced"
	RiskTolerance   string // "conservative", "balanced", "aggressive"
	Horizon         string // "short", "medium", "long"
	ExperienceLevel string // "beginner", "intermediate", "experienced"
	CustomPrompt    string
}

// AllocationAdviceEntry is one recommended allocation band for an asset type.
type AllocationAdviceEntry struct {
	AssetType  string  `json:"asset_type"`
	Label      string  `json:"label"`
	MinPercent float64 `json:"min_percent"`
	MaxPercent float64 `json:"max_percent"`
	Rationale  string  `json:"rationale"`
}

// AllocationAdviceResult is the structured response returned to clients.
type AllocationAdviceResult struct {
	GeneratedAt string                  `json:"generated_at"`
	Provider    string                  `json:"provider"`
	Model       string                  `json:"model"`
	Summary     string                  `json:"summary"`
	Rationale   string                  `json:"rationale"`
	Allocations []AllocationAdviceEntry `json:"allocations"`
	Disclaimer  string                  `json:"disclaimer"`
}

type allocationAdviceModelResponse struct {
	Summary     string                  `json:"summary"`
	Rationale   string                  `json:"rationale"`
	Allocations []AllocationAdviceEntry `json:"allocations"`
	Disclaimer  string                  `json:"disclaimer"`
}

type allocationAdvicePromptInput struct {
	AgeRange        string `json:"age_range"`
	InvestGoal      string `json:"invest_goal"`
	RiskTolerance   string `json:"risk_tolerance"`
	Horizon         string `json:"horizon"`
	ExperienceLevel string `json:"experience_level"`
	AssetTypes      []struct {
		Code  string `json:"code"`
		Label string `json:"label"`
	} `json:"asset_types"`
	CustomPrompt string `json:"custom_prompt,omitempty"`
}

type aiCompletionRequest struct {
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
	UserPrompt   string
}

type aiCompletionResult struct {
	Model   string
	Content string
}

// GetAllocationAdvice generates AI-powered asset allocation recommendations
// through the configured provider.
func (c *Core) GetAllocationAdvice(ctx context.Context, req AllocationAdviceRequest) (*AllocationAdviceResult, error) {
	if err := normalizeAllocationAdviceRequest(&req); err != nil {
		return nil, err
	}

	assetTypes, err := c.GetAssetTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset types: %w", err)
	}

	userPrompt, err := buildAllocationAdviceUserPrompt(req, assetTypes)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, aiRequestTimeout)
	defer cancel()

	completion := aiCompletionRequest{
		BaseURL:      req.BaseURL,
		APIKey:       req.APIKey,
		Model:        req.Model,
		SystemPrompt: allocationAdviceSystemPrompt,
		UserPrompt:   userPrompt,
	}

	var result aiCompletionResult
	switch req.Provider {
	case "openai":
		result, err = openaiCompletion(ctx, completion)
	case "anthropic":
		result, err = anthropicCompletion(ctx, completion)
	case "gemini":
		result, err = geminiCompletion(ctx, completion)
	}
	if err != nil {
		return nil, fmt.Errorf("AI request failed: %w", err)
	}

	parsed, err := parseAllocationAdviceResponse(result.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	allocations := make([]AllocationAdviceEntry, 0, len(parsed.Allocations))
	for _, a := range parsed.Allocations {
		entry := AllocationAdviceEntry{
			AssetType:  strings.ToLower(strings.TrimSpace(a.AssetType)),
			Label:      a.Label,
			MinPercent: clampPercent(a.MinPercent),
			MaxPercent: clampPercent(a.MaxPercent),
			Rationale:  a.Rationale,
		}
		if entry.MinPercent > entry.MaxPercent {
			entry.MinPercent, entry.MaxPercent = entry.MaxPercent, entry.MinPercent
		}
		allocations = append(allocations, entry)
	}

	return &AllocationAdviceResult{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Provider:    req.Provider,
		Model:       result.Model,
		Summary:     parsed.Summary,
		Rationale:   parsed.Rationale,
		Allocations: allocations,
		Disclaimer:  parsed.Disclaimer,
	}, nil
}

func normalizeAllocationAdviceRequest(req *AllocationAdviceRequest) error {
	req.Provider = strings.ToLower(strings.TrimSpace(req.Provider))
	req.BaseURL = strings.TrimSpace(req.BaseURL)
	req.APIKey = strings.TrimSpace(req.APIKey)
	req.Model = strings.TrimSpace(req.Model)

	if req.Provider == "" {
		req.Provider = "openai"
	}
	valid := false
	for _, p := range AIProviders {
		if p == req.Provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unsupported provider: %s", req.Provider)
	}
	if req.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if req.Model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

func buildAllocationAdviceUserPrompt(req AllocationAdviceRequest, assetTypes []AssetTypeInfo) (string, error) {
	input := allocationAdvicePromptInput{
		AgeRange:        req.AgeRange,
		InvestGoal:      req.InvestGoal,
		RiskTolerance:   req.RiskTolerance,
		Horizon:         req.Horizon,
		ExperienceLevel: req.ExperienceLevel,
		CustomPrompt:    req.CustomPrompt,
	}
	for _, at := range assetTypes {
		input.AssetTypes = append(input.AssetTypes, struct {
			Code  string `json:"code"`
			Label string `json:"label"`
		}{Code: string(at.Code), Label: at.Label})
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to serialize prompt input: %w", err)
	}

	prompt := fmt.Sprintf(`Recommend minimum/maximum allocation bands for each asset type given this investor profile:

%s

Field notes:
- age_range: investor age bracket (20s=20-29, 30s=30-39, 40s=40-49, 50s=50-59, 60plus=60 and above)
- invest_goal: preserve=capital preservation, income=steady income, growth=capital growth, balanced=mixed
- risk_tolerance: conservative, balanced or aggressive
- horizon: short=1-3 years, medium=3-10 years, long=10+ years
- experience_level: beginner, intermediate or experienced
- asset_types: the asset categories to cover (all %d must appear in allocations)

Output requirements:
1) A bare JSON object, no extra text or Markdown fences
2) allocations must contain one entry per asset type
3) min_percent sums must not exceed 100; max_percent sums must not fall below 100
4) each rationale ties the band to the investor profile`, string(payload), len(assetTypes))

	return prompt, nil
}

func parseAllocationAdviceResponse(content string) (*allocationAdviceModelResponse, error) {
	cleaned := cleanupModelJSON(content)
	var parsed allocationAdviceModelResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return &parsed, nil
}

// cleanupModelJSON strips Markdown fences and surrounding chatter, keeping
// the outermost JSON object.
func cleanupModelJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
				lines = lines[:len(lines)-1]
			}
			trimmed = strings.Join(lines, "\n")
		}
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		trimmed = trimmed[start : end+1]
	}
	return strings.TrimSpace(trimmed)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
