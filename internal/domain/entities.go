package domain

import "strings"

// Provider identifies the user directory backend
type Provider string

const (
	ProviderGitHub   Provider = "github"
	ProviderLinkedIn Provider = "linkedin"
)

// BaseUser is a search hit before follower enrichment
type BaseUser struct {
	ID           int64
	Login        string // Handle or display name used for matching
	AvatarURL    string
	HTMLURL      string // Profile page
	FollowersURL string // Empty when the provider has no follower endpoint
}

// UserRecord is a fully enriched search result.
// Records are built once per fetch cycle and never mutated afterwards.
type UserRecord struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	HTMLURL   string `json:"html_url"`
	Followers int    `json:"followers"`
}

// NewUserRecord attaches a follower count to a base search hit
func NewUserRecord(base BaseUser, followers int) UserRecord {
	name := strings.TrimSpace(base.Login)
	return UserRecord{
		ID:        base.ID,
		Login:     base.Login,
		Name:      name,
		AvatarURL: base.AvatarURL,
		HTMLURL:   base.HTMLURL,
		Followers: followers,
	}
}
