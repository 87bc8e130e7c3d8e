package types

import (
	"fmt"
	"strings"
)

// ContentType identifies the kind of domain record an embedding was built from
type ContentType string

const (
	ContentTypeTrial      ContentType = "trial"
	ContentTypeCompany    ContentType = "company"
	ContentTypeNews       ContentType = "news"
	ContentTypeIndication ContentType = "indication"
)

// ContentTypeAll is the filter value that matches every content type. It is never stored.
const ContentTypeAll = "all"

// AllContentTypes returns every content type in indexing order
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTypeIndication,
		ContentTypeCompany,
		ContentTypeNews,
		ContentTypeTrial,
	}
}

// IsValid checks if the content type is one of the stored kinds
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypeTrial,
		ContentTypeCompany,
		ContentTypeNews,
		ContentTypeIndication:
		return true
	default:
		return false
	}
}

// String returns the string representation of the content type
func (c ContentType) String() string {
	return string(c)
}

// ParseContentType parses a string into a ContentType
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.IsValid() {
		return "", fmt.Errorf("invalid content type: %s", s)
	}
	return ct, nil
}

// ParseContentTypeFilter parses a filter value. Empty and "all" yield an empty
// ContentType, which matches every record.
func ParseContentTypeFilter(s string) (ContentType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" || v == ContentTypeAll {
		return "", nil
	}
	return ParseContentType(v)
}

// Matches reports whether a record of type target passes this filter
func (c ContentType) Matches(target ContentType) bool {
	return c == "" || c == target
}
