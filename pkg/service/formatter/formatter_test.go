package formatter_test

import (
	"errors"
	"testing"
	"time"

	"github.com/competeai/competeai/pkg/domain/model"
	"github.com/competeai/competeai/pkg/service/formatter"
	"github.com/m-mizutani/gt"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		content model.Content
		want    string
	}{
		{
			name: "trial with all fields",
			content: &model.Trial{
				ID:            "NCT04379596",
				Title:         "Metastatic Breast Cancer Phase 3 Study",
				Phase:         "Phase 3",
				Status:        "Recruiting",
				Conditions:    []string{"Breast Cancer", "HER2-low"},
				Interventions: []string{"Trastuzumab deruxtecan"},
				Sponsor:       "Daiichi Sankyo",
				BriefSummary:  "Open-label randomized study.",
			},
			want: "Clinical Trial: Metastatic Breast Cancer Phase 3 Study\n" +
				"Phase: Phase 3\n" +
				"Status: Recruiting\n" +
				"Condition: Breast Cancer, HER2-low\n" +
				"Intervention: Trastuzumab deruxtecan\n" +
				"Sponsor: Daiichi Sankyo\n" +
				"Summary: Open-label randomized study.",
		},
		{
			name:    "trial with only an ID keeps every line",
			content: &model.Trial{ID: "NCT00000001"},
			want: "Clinical Trial: Untitled\n" +
				"Phase: Not specified\n" +
				"Status: Unknown\n" +
				"Condition: Not specified\n" +
				"Intervention: Not specified\n" +
				"Sponsor: Unknown\n" +
				"Summary: Not specified",
		},
		{
			name: "company",
			content: &model.Company{
				ID:           "pfizer",
				Name:         "Pfizer",
				Headquarters: "New York, USA",
				TherapyAreas: []string{"Oncology", "Vaccines"},
			},
			want: "Pharmaceutical Company: Pfizer\n" +
				"Headquarters: New York, USA\n" +
				"Therapy Areas: Oncology, Vaccines\n" +
				"Website: N/A",
		},
		{
			name: "news",
			content: &model.NewsArticle{
				ID:      "n-1",
				Title:   "FDA approves new ADC",
				Source:  "FiercePharma",
				Summary: "Approval for HER2-low patients.",
			},
			want: "News Article: FDA approves new ADC\n" +
				"Source: FiercePharma\n" +
				"Summary: Approval for HER2-low patients.\n" +
				"Description: Not specified",
		},
		{
			name: "indication",
			content: &model.Indication{
				ID:             "nsclc",
				Name:           "Non-Small Cell Lung Cancer",
				Category:       "Oncology",
				TotalReports:   12,
				TotalTrials:    340,
				HasDrugInsight: true,
			},
			want: "Indication: Non-Small Cell Lung Cancer\n" +
				"Therapeutic Area: Oncology\n" +
				"Description: Not specified\n" +
				"Available Insights: Drug Insight\n" +
				"Total Reports: 12\n" +
				"Total Trials: 340",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatter.Format(tt.content)
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	c := &model.Company{ID: "novartis", Name: "Novartis", TherapyAreas: []string{"Cardiology"}}

	first, err := formatter.Format(c)
	gt.NoError(t, err).Required()
	second, err := formatter.Format(c)
	gt.NoError(t, err).Required()
	gt.Value(t, first).Equal(second)
}

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		content model.Content
		wantErr error
	}{
		{name: "nil content", content: nil, wantErr: formatter.ErrUnsupportedContent},
		{name: "trial without ID", content: &model.Trial{Title: "x"}, wantErr: formatter.ErrMissingRequiredField},
		{name: "company without name", content: &model.Company{ID: "c1"}, wantErr: formatter.ErrMissingRequiredField},
		{name: "news without title", content: &model.NewsArticle{ID: "n1"}, wantErr: formatter.ErrMissingRequiredField},
		{name: "indication without name", content: &model.Indication{ID: "i1"}, wantErr: formatter.ErrMissingRequiredField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := formatter.Format(tt.content)
			gt.Bool(t, errors.Is(err, tt.wantErr)).True()
		})
	}
}

func TestMetadata(t *testing.T) {
	t.Run("news carries source URL and published date", func(t *testing.T) {
		published := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
		m := formatter.Metadata(&model.NewsArticle{
			ID:          "n-1",
			Title:       "Deal announced",
			SourceURL:   "https://example.com/deal",
			PublishedAt: published,
		})

		gt.Value(t, m["sourceUrl"]).Equal(any("https://example.com/deal"))
		gt.Value(t, m["publishedDate"]).Equal(any("2025-03-14T09:00:00Z"))
		_, hasSource := m["source"]
		gt.Bool(t, hasSource).False()
	})

	t.Run("indication keeps insight flags", func(t *testing.T) {
		m := formatter.Metadata(&model.Indication{ID: "ad", Name: "Atopic Dermatitis"})
		gt.Value(t, m["hasMarketInsight"]).Equal(any(false))
		gt.Value(t, m["name"]).Equal(any("Atopic Dermatitis"))
	})
}
