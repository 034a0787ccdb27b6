package github

import "github.com/mmcdole/gitscout/internal/domain"

// MapUsers converts search hits to domain users, preserving API order
func MapUsers(items []User) []domain.BaseUser {
	users := make([]domain.BaseUser, 0, len(items))
	for _, u := range items {
		users = append(users, domain.BaseUser{
			ID:           u.ID,
			Login:        u.Login,
			AvatarURL:    u.AvatarURL,
			HTMLURL:      u.HTMLURL,
			FollowersURL: u.FollowersURL,
		})
	}
	return users
}
