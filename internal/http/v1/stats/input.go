package stats

// SummaryGetInput defines path parameters for summarizing a user's repositories.
type SummaryGetInput struct {
	Username string `path:"username" doc:"GitHub username" example:"octocat" pattern:"^[a-zA-Z0-9][a-zA-Z0-9\\-]{0,38}$"`
}

// ForkedSummaryGetInput adds the fork inclusion token. Only true, forked, t, fork and forks
// include repositories that have been forked; every other value excludes them.
type ForkedSummaryGetInput struct {
	SummaryGetInput
	Forked string `path:"forked" doc:"Fork inclusion token" example:"forks" maxLength:"32"`
}
