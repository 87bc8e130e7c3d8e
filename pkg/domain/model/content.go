package model

import (
	"time"

	"github.com/competeai/competeai/pkg/domain/types"
)

// Content is a catalog record that can be formatted and embedded.
// The set of implementations is closed: Trial, Company, NewsArticle and Indication.
type Content interface {
	ContentType() types.ContentType
	ContentID() string
	content()
}

// Trial is a clinical trial registered in the catalog
type Trial struct {
	ID            string   `toml:"id" json:"id"`
	Title         string   `toml:"title" json:"title"`
	Phase         string   `toml:"phase" json:"phase,omitempty"`
	Status        string   `toml:"status" json:"status,omitempty"`
	Conditions    []string `toml:"conditions" json:"conditions,omitempty"`
	Interventions []string `toml:"interventions" json:"interventions,omitempty"`
	Sponsor       string   `toml:"sponsor" json:"sponsor,omitempty"`
	BriefSummary  string   `toml:"brief_summary" json:"briefSummary,omitempty"`
}

func (t *Trial) ContentType() types.ContentType { return types.ContentTypeTrial }
func (t *Trial) ContentID() string              { return t.ID }
func (t *Trial) content()                       {}

// Company is a pharmaceutical company
type Company struct {
	ID           string   `toml:"id" json:"id"`
	Name         string   `toml:"name" json:"name"`
	Headquarters string   `toml:"headquarters" json:"headquarters,omitempty"`
	TherapyAreas []string `toml:"therapy_areas" json:"therapyAreas,omitempty"`
	Website      string   `toml:"website" json:"website,omitempty"`
}

func (c *Company) ContentType() types.ContentType { return types.ContentTypeCompany }
func (c *Company) ContentID() string              { return c.ID }
func (c *Company) content()                       {}

// NewsArticle is an industry news item
type NewsArticle struct {
	ID          string    `toml:"id" json:"id"`
	Title       string    `toml:"title" json:"title"`
	Source      string    `toml:"source" json:"source,omitempty"`
	Summary     string    `toml:"summary" json:"summary,omitempty"`
	Description string    `toml:"description" json:"description,omitempty"`
	Category    string    `toml:"category" json:"category,omitempty"`
	SourceURL   string    `toml:"source_url" json:"sourceUrl,omitempty"`
	PublishedAt time.Time `toml:"published_at" json:"publishedAt,omitzero"`
}

func (n *NewsArticle) ContentType() types.ContentType { return types.ContentTypeNews }
func (n *NewsArticle) ContentID() string              { return n.ID }
func (n *NewsArticle) content()                       {}

// Indication is a disease area tracked by the dashboard. ID is the slug.
type Indication struct {
	ID               string `toml:"id" json:"id"`
	Name             string `toml:"name" json:"name"`
	Category         string `toml:"category" json:"category,omitempty"`
	Description      string `toml:"description" json:"description,omitempty"`
	TotalReports     int    `toml:"total_reports" json:"totalReports"`
	TotalTrials      int    `toml:"total_trials" json:"totalTrials"`
	HasMarketInsight bool   `toml:"has_market_insight" json:"hasMarketInsight"`
	HasDrugInsight   bool   `toml:"has_drug_insight" json:"hasDrugInsight"`
	HasEpidemInsight bool   `toml:"has_epidem_insight" json:"hasEpidemInsight"`
}

func (i *Indication) ContentType() types.ContentType { return types.ContentTypeIndication }
func (i *Indication) ContentID() string              { return i.ID }
func (i *Indication) content()                       {}

// Insights returns the labels of the insight reports available for the indication
func (i *Indication) Insights() []string {
	var insights []string
	if i.HasMarketInsight {
		insights = append(insights, "Market Insight")
	}
	if i.HasDrugInsight {
		insights = append(insights, "Drug Insight")
	}
	if i.HasEpidemInsight {
		insights = append(insights, "Epidemiology Insight")
	}
	return insights
}

// CloneContent returns a deep copy of c
func CloneContent(c Content) Content {
	switch v := c.(type) {
	case *Trial:
		copied := *v
		copied.Conditions = append([]string(nil), v.Conditions...)
		copied.Interventions = append([]string(nil), v.Interventions...)
		return &copied
	case *Company:
		copied := *v
		copied.TherapyAreas = append([]string(nil), v.TherapyAreas...)
		return &copied
	case *NewsArticle:
		copied := *v
		return &copied
	case *Indication:
		copied := *v
		return &copied
	default:
		return c
	}
}
