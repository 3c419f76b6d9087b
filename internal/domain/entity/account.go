// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// Account is the single aggregate of the system: one user record keyed by
// its immutable UserID.
type Account struct {
	UserID       string // Unique identifier, fixed at signup.
	PasswordHash string // Opaque salted hash, never exposed through the API.
	Nickname     string // Display name. Empty means "unset".
	Comment      string // Free-form comment. Empty means "cleared/absent".
}

// EffectiveNickname returns the nickname to present to clients: the stored
// nickname, or the user_id when no nickname is set.
func (a *Account) EffectiveNickname() string {
	if a.Nickname == "" {
		return a.UserID
	}

	return a.Nickname
}
