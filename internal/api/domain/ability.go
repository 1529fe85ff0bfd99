package domain

import "strings"

// Ability is a capability attached to an API token. The vocabulary is closed:
// a token may hold any of the named abilities or the wildcard, which implies
// all of them.
type Ability string

const (
	AbilityRead   Ability = "read"
	AbilityWrite  Ability = "write"
	AbilityDelete Ability = "delete"
	AbilityAdmin  Ability = "admin"
	AbilityAll    Ability = "*"
)

// ValidAbilities is the full vocabulary, in the order it is documented.
var ValidAbilities = []Ability{
	AbilityRead,
	AbilityWrite,
	AbilityDelete,
	AbilityAdmin,
	AbilityAll,
}

// ParseAbility validates a raw string against the vocabulary.
func ParseAbility(s string) (Ability, bool) {
	a := Ability(strings.TrimSpace(s))
	for _, v := range ValidAbilities {
		if a == v {
			return a, true
		}
	}
	return "", false
}

// Abilities is an ordered set of abilities as held by a token.
type Abilities []Ability

// Allows reports whether the held abilities permit the required one. The
// wildcard permits everything. This is the entire authorization decision;
// callers must not layer additional string matching on top.
func (as Abilities) Allows(required Ability) bool {
	for _, a := range as {
		if a == required || a == AbilityAll {
			return true
		}
	}
	return false
}

// Strings returns the abilities as plain strings, preserving order.
func (as Abilities) Strings() []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = string(a)
	}
	return out
}

// JoinAbilities renders an ability set in its storage form (space-delimited).
func JoinAbilities(as Abilities) string {
	return strings.Join(as.Strings(), " ")
}

// SplitAbilities parses the storage form back into an ability set, dropping
// duplicates and unknown entries. Rows written through CreateToken never
// contain either, but the store should not choke on hand-edited data.
func SplitAbilities(s string) Abilities {
	fields := strings.Fields(s)
	out := make(Abilities, 0, len(fields))
	seen := make(map[Ability]struct{}, len(fields))
	for _, f := range fields {
		a, ok := ParseAbility(f)
		if !ok {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
