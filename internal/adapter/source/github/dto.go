package github

// SearchUsersResponse is the body of GET /search/users
type SearchUsersResponse struct {
	TotalCount        int    `json:"total_count"`
	IncompleteResults bool   `json:"incomplete_results"`
	Items             []User `json:"items"`
}

// User is a search hit. Only the fields the explorer renders are decoded.
type User struct {
	ID           int64   `json:"id"`
	Login        string  `json:"login"`
	AvatarURL    string  `json:"avatar_url"`
	HTMLURL      string  `json:"html_url"`
	FollowersURL string  `json:"followers_url"`
	Type         string  `json:"type"`
	Score        float64 `json:"score"`
}

// Follower is one element of a followers_url listing
type Follower struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// ErrorResponse is GitHub's error body
type ErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}
