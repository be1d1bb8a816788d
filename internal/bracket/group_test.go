package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupStageEightTeams(t *testing.T) {
	teams := testTeams(8)
	rounds, err := Build(GroupStage, teams)
	require.NoError(t, err)
	require.Len(t, rounds, 4)

	for g, r := range rounds {
		assert.Equal(t, g+1, r.Number)
		assert.Equal(t, GroupSide, r.Side)
		require.Len(t, r.Matches, 1)

		m := r.Matches[0]
		assert.Equal(t, teams[2*g].Ref(), m.Team1)
		assert.Equal(t, teams[2*g+1].Ref(), m.Team2)
		assert.Equal(t, StatusScheduled, m.Status)
		assert.False(t, m.IsBye)

		_, ok := m.WinnerTarget()
		assert.False(t, ok, "group matches feed nothing")
	}
	assert.Equal(t, "Group A", rounds[0].Label)
	assert.Equal(t, "Group D", rounds[3].Label)
}

func TestGroupStageUnevenSplit(t *testing.T) {
	rounds, err := Build(GroupStage, testTeams(5))
	require.NoError(t, err)
	require.Len(t, rounds, 4)

	// groups of 2, 1, 1 and 1 teams
	assert.Len(t, rounds[0].Matches, 1)
	for _, r := range rounds[1:] {
		assert.NotNil(t, r.Matches)
		assert.Empty(t, r.Matches)
	}
}

func TestGroupStageRoundRobinOrder(t *testing.T) {
	teams := testTeams(12)
	rounds, err := Build(GroupStage, teams)
	require.NoError(t, err)
	require.Len(t, rounds, 4)

	a, b, c := teams[0].Ref(), teams[1].Ref(), teams[2].Ref()
	group := rounds[0].Matches
	require.Len(t, group, 3)
	assert.Equal(t, [2]Ref{a, b}, [2]Ref{group[0].Team1, group[0].Team2})
	assert.Equal(t, [2]Ref{a, c}, [2]Ref{group[1].Team1, group[1].Team2})
	assert.Equal(t, [2]Ref{b, c}, [2]Ref{group[2].Team1, group[2].Team2})
	for i, m := range group {
		assert.Equal(t, i+1, m.MatchNumber)
	}
}

func TestGroupStageProperties(t *testing.T) {
	for n := 1; n <= 20; n++ {
		teams := testTeams(n)
		rounds, err := Build(GroupStage, teams)
		require.NoError(t, err, "n=%d", n)

		groups := min(DefaultGroupCount, n)
		require.Len(t, rounds, groups, "n=%d", n)

		members := make(map[Ref]int)
		sizes := make([]int, len(rounds))
		total := 0
		for g, r := range rounds {
			inGroup := make(map[Ref]bool)
			for _, m := range r.Matches {
				assert.NotEqual(t, m.Team1, m.Team2)
				inGroup[m.Team1] = true
				inGroup[m.Team2] = true
			}
			for ref := range inGroup {
				members[ref]++
			}
			sizes[g] = n / groups
			if g < n%groups {
				sizes[g]++
			}
			assert.Len(t, r.Matches, sizes[g]*(sizes[g]-1)/2, "n=%d group=%d", n, g+1)
			total += len(r.Matches)
		}

		for ref, count := range members {
			assert.Equal(t, 1, count, "n=%d team %s plays in several groups", n, ref)
		}
		for g := 1; g < len(sizes); g++ {
			assert.LessOrEqual(t, sizes[0]-sizes[g], 1)
		}

		expected := 0
		for _, s := range sizes {
			expected += s * (s - 1) / 2
		}
		assert.Equal(t, expected, total, "n=%d", n)
		assert.Equal(t, total, countReal(rounds), "n=%d", n)
	}
}

func TestGroupStageIsPure(t *testing.T) {
	seeds, err := Normalize(testTeams(10))
	require.NoError(t, err)

	b := GroupStageBuilder{Groups: 3}
	first, err := b.Build(seeds)
	require.NoError(t, err)
	second, err := b.Build(seeds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestGroupStageIgnoresByes(t *testing.T) {
	seeds, err := Normalize(testTeams(3))
	require.NoError(t, err)
	require.Len(t, seeds, 4)

	rounds, err := GroupStageBuilder{Groups: 1}.Build(seeds)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Len(t, rounds[0].Matches, 3)
	for _, m := range rounds[0].Matches {
		assert.True(t, m.Decided())
	}

	_, err = GroupStageBuilder{}.Build([]Seed{{Position: 1, Ref: Bye}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
