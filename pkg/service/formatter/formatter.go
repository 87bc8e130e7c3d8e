// Package formatter renders catalog records into the canonical text that is embedded.
package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrMissingRequiredField = goerr.New("missing required field")
	ErrUnsupportedContent   = goerr.New("unsupported content")
)

const (
	notSpecified = "Not specified"
	unknown      = "Unknown"
)

// Format returns the canonical text of c. The same record always yields the same text;
// missing optional attributes render as a placeholder instead of being dropped.
func Format(c model.Content) (string, error) {
	if c == nil {
		return "", goerr.Wrap(ErrUnsupportedContent, "content is nil")
	}
	if strings.TrimSpace(c.ContentID()) == "" {
		return "", goerr.Wrap(ErrMissingRequiredField, "content ID is required",
			goerr.V("content_type", c.ContentType()))
	}

	switch v := c.(type) {
	case *model.Trial:
		return formatTrial(v), nil
	case *model.Company:
		return formatCompany(v)
	case *model.NewsArticle:
		return formatNews(v)
	case *model.Indication:
		return formatIndication(v)
	default:
		return "", goerr.Wrap(ErrUnsupportedContent, "unknown content type",
			goerr.V("type", fmt.Sprintf("%T", c)))
	}
}

func formatTrial(t *model.Trial) string {
	lines := []string{
		"Clinical Trial: " + or(t.Title, "Untitled"),
		"Phase: " + or(t.Phase, notSpecified),
		"Status: " + or(t.Status, unknown),
		"Condition: " + orJoin(t.Conditions, notSpecified),
		"Intervention: " + orJoin(t.Interventions, notSpecified),
		"Sponsor: " + or(t.Sponsor, unknown),
		"Summary: " + or(t.BriefSummary, notSpecified),
	}
	return strings.Join(lines, "\n")
}

func formatCompany(c *model.Company) (string, error) {
	if strings.TrimSpace(c.Name) == "" {
		return "", goerr.Wrap(ErrMissingRequiredField, "company name is required", goerr.V("content_id", c.ID))
	}

	lines := []string{
		"Pharmaceutical Company: " + c.Name,
		"Headquarters: " + or(c.Headquarters, unknown),
		"Therapy Areas: " + orJoin(c.TherapyAreas, notSpecified),
		"Website: " + or(c.Website, "N/A"),
	}
	return strings.Join(lines, "\n"), nil
}

func formatNews(n *model.NewsArticle) (string, error) {
	if strings.TrimSpace(n.Title) == "" {
		return "", goerr.Wrap(ErrMissingRequiredField, "news title is required", goerr.V("content_id", n.ID))
	}

	lines := []string{
		"News Article: " + n.Title,
		"Source: " + or(n.Source, unknown),
		"Summary: " + or(n.Summary, notSpecified),
		"Description: " + or(n.Description, notSpecified),
	}
	return strings.Join(lines, "\n"), nil
}

func formatIndication(i *model.Indication) (string, error) {
	if strings.TrimSpace(i.Name) == "" {
		return "", goerr.Wrap(ErrMissingRequiredField, "indication name is required", goerr.V("content_id", i.ID))
	}

	lines := []string{
		"Indication: " + i.Name,
		"Therapeutic Area: " + or(i.Category, unknown),
		"Description: " + or(i.Description, notSpecified),
		"Available Insights: " + orJoin(i.Insights(), "None"),
		"Total Reports: " + strconv.Itoa(i.TotalReports),
		"Total Trials: " + strconv.Itoa(i.TotalTrials),
	}
	return strings.Join(lines, "\n"), nil
}

// Metadata returns the denormalised fields stored next to the embedding for display and filtering
func Metadata(c model.Content) map[string]any {
	switch v := c.(type) {
	case *model.Trial:
		return compact(map[string]any{
			"title":      v.Title,
			"phase":      v.Phase,
			"status":     v.Status,
			"conditions": v.Conditions,
			"sponsor":    v.Sponsor,
		})
	case *model.Company:
		return compact(map[string]any{
			"name":         v.Name,
			"headquarters": v.Headquarters,
			"therapyAreas": v.TherapyAreas,
			"website":      v.Website,
		})
	case *model.NewsArticle:
		m := map[string]any{
			"title":     v.Title,
			"source":    v.Source,
			"category":  v.Category,
			"sourceUrl": v.SourceURL,
		}
		if !v.PublishedAt.IsZero() {
			m["publishedDate"] = v.PublishedAt.UTC().Format(time.RFC3339)
		}
		return compact(m)
	case *model.Indication:
		return compact(map[string]any{
			"name":             v.Name,
			"category":         v.Category,
			"hasMarketInsight": v.HasMarketInsight,
			"hasDrugInsight":   v.HasDrugInsight,
			"hasEpidemInsight": v.HasEpidemInsight,
		})
	default:
		return map[string]any{}
	}
}

// compact drops empty strings and empty lists
func compact(m map[string]any) map[string]any {
	for k, v := range m {
		switch x := v.(type) {
		case string:
			if x == "" {
				delete(m, k)
			}
		case []string:
			if len(x) == 0 {
				delete(m, k)
			}
		}
	}
	return m
}

func or(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func orJoin(values []string, placeholder string) string {
	var kept []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return placeholder
	}
	return strings.Join(kept, ", ")
}
