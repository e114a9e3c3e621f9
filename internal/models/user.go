package models

import (
	"time"
)

// User represents an app user with their custom claims and the keyset
// membership lists that drive the favorites/bought/hidden views
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	DisplayName  string    `json:"displayName" db:"display_name"`
	Nickname     string    `json:"nickname" db:"nickname"`
	Designer     bool      `json:"designer" db:"designer"`
	Editor       bool      `json:"editor" db:"editor"`
	Admin        bool      `json:"admin" db:"admin"`
	Favorites    []string  `json:"favorites" db:"-"`
	Bought       []string  `json:"bought" db:"-"`
	Hidden       []string  `json:"hidden" db:"-"`
	DateCreated  time.Time `json:"dateCreated" db:"date_created"`
	LastSignedIn time.Time `json:"lastSignedIn" db:"last_signed_in"`
}

// Info returns the identity fields recorded into changelog entries
func (u *User) Info() UserInfo {
	return UserInfo{
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Nickname:    u.Nickname,
	}
}

// ClaimsRequest is the payload for changing a user's custom claims
type ClaimsRequest struct {
	Nickname string `json:"nickname"`
	Designer bool   `json:"designer"`
	Editor   bool   `json:"editor"`
	Admin    bool   `json:"admin"`
}

// APIUser is an external API account: a key/secret pair exchanged for a
// short-lived bearer token on /apiAuth
type APIUser struct {
	Email     string `json:"email" db:"email"`
	APIKey    string `json:"-" db:"api_key"`
	APISecret string `json:"-" db:"api_secret"`
	APIAccess bool   `json:"apiAccess" db:"api_access"`
}
