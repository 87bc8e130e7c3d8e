package cli

var PrintIndexSummary = printIndexSummary
