package usecase

// Classify is exported for testing
var Classify = classify

// SourceTitle is exported for testing
var SourceTitle = sourceTitle

// SourceURL is exported for testing
var SourceURL = sourceURL

// FlattenMetadata is exported for testing
var FlattenMetadata = flattenMetadata

// SearchSystemPrompt is exported for testing
const SearchSystemPrompt = searchSystemPrompt

// SummaryPrompts returns the prompts and token budget of a summary subject
func SummaryPrompts(s SummarySubject) (system, user string, maxTokens int) {
	return s.systemPrompt(), s.userPrompt(), s.maxTokens()
}
