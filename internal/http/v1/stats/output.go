package stats

// SummaryGetOutput is the response wrapper for GET /{username} and GET /{username}/{forked}.
type SummaryGetOutput struct {
	Body Summary
}
