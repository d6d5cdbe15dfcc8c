package domain

// User is the authenticated principal as handed to the sync core. How the
// id is established (OAuth, SSO, dev tokens) is an external concern; only
// the resulting identity is consumed here.
type User struct {
	ID          string
	DisplayName string
	Email       string
	AvatarURL   string
}
