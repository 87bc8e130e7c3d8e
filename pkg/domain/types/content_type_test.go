package types_test

import (
	"testing"

	"github.com/competeai/competeai/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestContentType_IsValid(t *testing.T) {
	tests := []struct {
		name string
		ct   types.ContentType
		want bool
	}{
		{name: "trial", ct: types.ContentTypeTrial, want: true},
		{name: "company", ct: types.ContentTypeCompany, want: true},
		{name: "news", ct: types.ContentTypeNews, want: true},
		{name: "indication", ct: types.ContentTypeIndication, want: true},
		{name: "all is not storable", ct: types.ContentType("all"), want: false},
		{name: "empty", ct: types.ContentType(""), want: false},
		{name: "unknown", ct: types.ContentType("drug"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.ct.IsValid()).Equal(tt.want)
		})
	}
}

func TestParseContentType(t *testing.T) {
	ct, err := types.ParseContentType(" Trial ")
	gt.NoError(t, err)
	gt.Value(t, ct).Equal(types.ContentTypeTrial)

	_, err = types.ParseContentType("all")
	gt.Error(t, err)
}

func TestParseContentTypeFilter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.ContentType
		wantErr bool
	}{
		{name: "empty matches all", input: "", want: ""},
		{name: "all keyword", input: "all", want: ""},
		{name: "upper case all", input: "ALL", want: ""},
		{name: "news", input: "news", want: types.ContentTypeNews},
		{name: "invalid", input: "pipeline", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseContentTypeFilter(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestContentType_Matches(t *testing.T) {
	var all types.ContentType
	gt.Bool(t, all.Matches(types.ContentTypeCompany)).True()
	gt.Bool(t, types.ContentTypeTrial.Matches(types.ContentTypeTrial)).True()
	gt.Bool(t, types.ContentTypeTrial.Matches(types.ContentTypeNews)).False()
}

func TestAllContentTypes(t *testing.T) {
	all := types.AllContentTypes()
	gt.Array(t, all).Length(4)
	for _, ct := range all {
		gt.Bool(t, ct.IsValid()).True()
	}
}
