package model

import "github.com/competeai/competeai/pkg/domain/types"

// Catalog is a set of records loaded from a seed file
type Catalog struct {
	Trials      []*Trial       `toml:"trial"`
	Companies   []*Company     `toml:"company"`
	News        []*NewsArticle `toml:"news"`
	Indications []*Indication  `toml:"indication"`
}

// Contents returns every record of contentType
func (c *Catalog) Contents(contentType types.ContentType) []Content {
	var result []Content
	switch contentType {
	case types.ContentTypeTrial:
		for _, v := range c.Trials {
			result = append(result, v)
		}
	case types.ContentTypeCompany:
		for _, v := range c.Companies {
			result = append(result, v)
		}
	case types.ContentTypeNews:
		for _, v := range c.News {
			result = append(result, v)
		}
	case types.ContentTypeIndication:
		for _, v := range c.Indications {
			result = append(result, v)
		}
	}
	return result
}

// Types returns the content types that have at least one record, in indexing order
func (c *Catalog) Types() []types.ContentType {
	var result []types.ContentType
	for _, ct := range types.AllContentTypes() {
		if len(c.Contents(ct)) > 0 {
			result = append(result, ct)
		}
	}
	return result
}
