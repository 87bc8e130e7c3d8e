package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/competeai/competeai/pkg/domain/interfaces"
	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
)

const (
	summaryTemperature  = 0.3
	summaryMaxTokens    = 200
	newsSummaryTokens   = 150
	summaryFallbackText = "Summary generation failed"
)

// SummarySubject is a record to be summarized. Implemented by TrialSummary, CompanySummary and NewsSummary.
type SummarySubject interface {
	systemPrompt() string
	userPrompt() string
	maxTokens() int
}

// TrialSummary is the trial detail shown on the trial page
type TrialSummary struct {
	Title           string   `json:"title"`
	Phase           string   `json:"phase"`
	Status          string   `json:"status"`
	Sponsor         string   `json:"sponsor"`
	Conditions      []string `json:"conditions"`
	StudyType       string   `json:"studyType"`
	EnrollmentCount int      `json:"enrollmentCount"`
}

func (t *TrialSummary) systemPrompt() string {
	return "You are a pharmaceutical intelligence analyst. Provide clear, concise summaries of clinical trials for industry professionals."
}

func (t *TrialSummary) userPrompt() string {
	enrollment := "Not specified"
	if t.EnrollmentCount > 0 {
		enrollment = fmt.Sprintf("%d participants", t.EnrollmentCount)
	}
	conditions := "Not specified"
	if len(t.Conditions) > 0 {
		conditions = strings.Join(t.Conditions, ", ")
	}

	return fmt.Sprintf(`Summarize this clinical trial in 3 concise bullet points:

Title: %s
Phase: %s
Status: %s
Sponsor: %s
Condition: %s
Study Type: %s
Enrollment: %s

Focus on:
1. Primary objective and target patient population
2. Key details about the intervention or treatment
3. Current status and significance

Keep each bullet point under 25 words. Be specific and actionable.`,
		t.Title,
		orDefault(t.Phase, "Not specified"),
		orDefault(t.Status, "Unknown"),
		orDefault(t.Sponsor, "Unknown"),
		conditions,
		orDefault(t.StudyType, "Not specified"),
		enrollment,
	)
}

func (t *TrialSummary) maxTokens() int { return summaryMaxTokens }

// CompanySummary is the company detail shown on the company page
type CompanySummary struct {
	Name         string   `json:"name"`
	Headquarters string   `json:"headquarters"`
	TherapyAreas []string `json:"therapyAreas"`
	Type         string   `json:"type"`
	TrialCount   int      `json:"trialCount"`
	NewsCount    int      `json:"newsCount"`
}

func (c *CompanySummary) systemPrompt() string {
	return "You are a pharmaceutical intelligence analyst. Provide clear, concise company profiles for industry professionals."
}

func (c *CompanySummary) userPrompt() string {
	areas := "Not specified"
	if len(c.TherapyAreas) > 0 {
		areas = strings.Join(c.TherapyAreas, ", ")
	}

	return fmt.Sprintf(`Summarize this pharmaceutical company in 3 concise bullet points:

Company: %s
Headquarters: %s
Therapy Areas: %s
Type: %s
Active Trials: %d
Recent News: %d

Focus on:
1. Company's core focus and therapeutic areas
2. Pipeline strength and clinical activity
3. Notable characteristics or competitive position

Keep each bullet point under 25 words.`,
		c.Name,
		orDefault(c.Headquarters, "Unknown"),
		areas,
		orDefault(c.Type, "Not specified"),
		c.TrialCount,
		c.NewsCount,
	)
}

func (c *CompanySummary) maxTokens() int { return summaryMaxTokens }

// NewsSummary is a news article shown in the news feed
type NewsSummary struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Description string `json:"description"`
}

func (n *NewsSummary) systemPrompt() string {
	return "You are a pharmaceutical intelligence analyst. Provide clear, concise news summaries for industry professionals."
}

func (n *NewsSummary) userPrompt() string {
	return fmt.Sprintf(`Summarize this pharmaceutical news article in 2 concise bullet points:

Title: %s
Source: %s
Description: %s

Focus on:
1. Key development or announcement
2. Business or clinical significance

Keep each bullet point under 25 words. Focus on actionable insights.`,
		n.Title,
		orDefault(n.Source, "Unknown"),
		orDefault(n.Description, "No description available"),
	)
}

func (n *NewsSummary) maxTokens() int { return newsSummaryTokens }

// ParseSummarySubject decodes data according to the summary type
func ParseSummarySubject(summaryType string, data []byte) (SummarySubject, error) {
	var subject SummarySubject
	switch summaryType {
	case "trial":
		subject = &TrialSummary{}
	case "company":
		subject = &CompanySummary{}
	case "news":
		subject = &NewsSummary{}
	default:
		return nil, goerr.Wrap(ErrInvalidInput, `Invalid summary type. Must be "trial", "company", or "news"`,
			goerr.V("type", summaryType))
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, subject); err != nil {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid summary data", goerr.V("type", summaryType), goerr.V("error", err.Error()))
		}
	}
	return subject, nil
}

// SummaryResult is a generated summary with its cost
type SummaryResult struct {
	Summary       string           `json:"summary"`
	Model         string           `json:"model"`
	TokensUsed    model.TokenUsage `json:"tokensUsed"`
	EstimatedCost float64          `json:"estimatedCost"`
}

type SummarizeUseCase struct {
	completer interfaces.Completer
	metrics   *metrics.Metrics
}

func NewSummarizeUseCase(completer interfaces.Completer, m *metrics.Metrics) *SummarizeUseCase {
	return &SummarizeUseCase{
		completer: completer,
		metrics:   m,
	}
}

// Summarize generates a short bullet-point summary of subject
func (uc *SummarizeUseCase) Summarize(ctx context.Context, subject SummarySubject) (*SummaryResult, error) {
	if subject == nil {
		return nil, goerr.Wrap(ErrInvalidInput, "summary subject is required")
	}
	if uc.completer == nil {
		return nil, goerr.Wrap(ErrProviderNotConfigured, "completion provider is not configured")
	}

	completion, err := uc.completer.Complete(ctx, model.CompletionRequest{
		SystemPrompt: subject.systemPrompt(),
		UserPrompt:   subject.userPrompt(),
		Temperature:  summaryTemperature,
		MaxTokens:    subject.maxTokens(),
		FallbackText: summaryFallbackText,
	})
	if err != nil {
		uc.metrics.RecordProviderCall(metrics.KindCompletion, metrics.OutcomeError)
		return nil, goerr.Wrap(classify(err, ErrProviderCallFailed), "failed to generate summary")
	}
	uc.metrics.RecordProviderCall(metrics.KindCompletion, metrics.OutcomeSuccess)
	uc.metrics.RecordCompletionUsage(completion.Usage.Input, completion.Usage.Output, completion.EstimatedCost)

	return &SummaryResult{
		Summary:       completion.Text,
		Model:         completion.Model,
		TokensUsed:    completion.Usage,
		EstimatedCost: completion.EstimatedCost,
	}, nil
}

func orDefault(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
