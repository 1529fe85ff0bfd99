package domain

// AuthContext is the request-scoped identity produced by the authentication
// middleware. It is constructed once per request after a successful token
// lookup, passed explicitly to downstream code, and never persisted.
type AuthContext struct {
	User  User
	Token Token
}

// Authenticated reports whether the context carries a resolved identity.
func (a AuthContext) Authenticated() bool {
	return a.User.ID != 0 && a.Token.ID != 0
}

// Can applies the authorization gate for the token held by this context.
func (a AuthContext) Can(required Ability) bool {
	return a.Token.Abilities.Allows(required)
}
