package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAbilitiesAllows(t *testing.T) {
	t.Parallel()

	t.Run("verbatim match allows", func(t *testing.T) {
		held := Abilities{AbilityRead, AbilityWrite}
		require.True(t, held.Allows(AbilityRead))
		require.True(t, held.Allows(AbilityWrite))
	})

	t.Run("missing ability denies", func(t *testing.T) {
		held := Abilities{AbilityRead}
		require.False(t, held.Allows(AbilityWrite))
		require.False(t, held.Allows(AbilityDelete))
		require.False(t, held.Allows(AbilityAdmin))
	})

	t.Run("wildcard allows everything", func(t *testing.T) {
		held := Abilities{AbilityAll}
		for _, a := range []Ability{AbilityRead, AbilityWrite, AbilityDelete, AbilityAdmin} {
			require.True(t, held.Allows(a))
		}
	})

	t.Run("empty set denies everything", func(t *testing.T) {
		require.False(t, Abilities{}.Allows(AbilityRead))
		require.False(t, Abilities(nil).Allows(AbilityRead))
	})
}

func TestParseAbility(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"read", "write", "delete", "admin", "*"} {
		a, ok := ParseAbility(valid)
		require.True(t, ok, valid)
		require.Equal(t, Ability(valid), a)
	}

	for _, invalid := range []string{"", "READ", "root", "write,delete"} {
		_, ok := ParseAbility(invalid)
		require.False(t, ok, invalid)
	}

	// surrounding whitespace is tolerated
	a, ok := ParseAbility(" read ")
	require.True(t, ok)
	require.Equal(t, AbilityRead, a)
}

func TestSplitJoinAbilities(t *testing.T) {
	t.Parallel()

	set := Abilities{AbilityRead, AbilityDelete}
	require.Equal(t, "read delete", JoinAbilities(set))
	require.Equal(t, set, SplitAbilities("read delete"))

	t.Run("drops duplicates and unknowns", func(t *testing.T) {
		require.Equal(t, Abilities{AbilityRead}, SplitAbilities("read bogus read"))
	})

	t.Run("empty storage form", func(t *testing.T) {
		require.Empty(t, SplitAbilities(""))
		require.Empty(t, SplitAbilities("   "))
	})
}
