package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	r1m1 = Position{Round: 1, MatchNumber: 1}
	r2m1 = Position{Round: 2, MatchNumber: 1}
)

func TestAdvanceWinner(t *testing.T) {
	teams := testTeams(4)
	rounds, err := Build(SingleElimination, teams)
	require.NoError(t, err)
	arena := NewArena(matchPtrs(rounds), fixedNow)

	m, ok := arena.Get(r1m1)
	require.True(t, ok)
	require.NoError(t, m.Complete(16, 10, fixedNow))
	assert.Equal(t, teams[0].Ref(), *m.Winner)

	changed, err := arena.Advance(r1m1)
	require.NoError(t, err)
	require.Len(t, changed, 1)

	next, _ := arena.Get(r2m1)
	assert.Same(t, next, changed[0])
	assert.Equal(t, teams[0].Ref(), next.Team1)
	assert.Equal(t, TBD, next.Team2)
	assert.Equal(t, StatusScheduled, next.Status)
}

func TestAdvanceIsIdempotent(t *testing.T) {
	rounds, err := Build(SingleElimination, testTeams(4))
	require.NoError(t, err)
	arena := NewArena(matchPtrs(rounds), fixedNow)

	m, _ := arena.Get(r1m1)
	require.NoError(t, m.Complete(2, 1, fixedNow))

	_, err = arena.Advance(r1m1)
	require.NoError(t, err)
	changed, err := arena.Advance(r1m1)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestAdvanceConflict(t *testing.T) {
	teams := testTeams(4)
	rounds, err := Build(SingleElimination, teams)
	require.NoError(t, err)
	arena := NewArena(matchPtrs(rounds), fixedNow)

	next, _ := arena.Get(r2m1)
	next.Team1 = teams[3].Ref()

	m, _ := arena.Get(r1m1)
	require.NoError(t, m.Complete(2, 1, fixedNow))
	_, err = arena.Advance(r1m1)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, teams[3].Ref(), next.Team1)
}

func TestAdvanceIntoStartedMatch(t *testing.T) {
	teams := testTeams(4)
	rounds, err := Build(SingleElimination, teams)
	require.NoError(t, err)
	arena := NewArena(matchPtrs(rounds), fixedNow)

	next, _ := arena.Get(r2m1)
	next.Status = StatusInProgress

	m, _ := arena.Get(r1m1)
	require.NoError(t, m.Complete(2, 1, fixedNow))
	_, err = arena.Advance(r1m1)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, TBD, next.Team1)
}

func TestAdvanceCascadesThroughByes(t *testing.T) {
	teams := testTeams(6)
	rounds, err := Build(SingleElimination, teams)
	require.NoError(t, err)
	arena := NewArena(matchPtrs(rounds), fixedNow)

	pending, _ := arena.Get(Position{Round: 2, MatchNumber: 2})
	assert.Equal(t, TBD, pending.Team1)
	assert.Equal(t, Bye, pending.Team2)
	assert.Equal(t, StatusScheduled, pending.Status)

	r1m3 := Position{Round: 1, MatchNumber: 3}
	m, _ := arena.Get(r1m3)
	require.NoError(t, m.Complete(7, 3, fixedNow))

	changed, err := arena.Advance(r1m3)
	require.NoError(t, err)
	require.Len(t, changed, 2)

	e := teams[4].Ref()
	assert.Same(t, pending, changed[0])
	assert.Equal(t, StatusCompleted, pending.Status)
	assert.Equal(t, e, *pending.Winner)
	require.NotNil(t, pending.CompletedAt)
	assert.True(t, fixedNow.Equal(*pending.CompletedAt))

	final, _ := arena.Get(Position{Round: 3, MatchNumber: 1})
	assert.Same(t, final, changed[1])
	assert.Equal(t, TBD, final.Team1)
	assert.Equal(t, e, final.Team2)
}

func TestAdvanceUnfinishedMatch(t *testing.T) {
	rounds, err := Build(SingleElimination, testTeams(4))
	require.NoError(t, err)
	arena := NewArena(matchPtrs(rounds), fixedNow)

	_, err = arena.Advance(r1m1)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	m, _ := arena.Get(r1m1)
	require.NoError(t, m.Start())
	_, err = arena.Advance(r1m1)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = arena.Advance(Position{Round: 9, MatchNumber: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdvanceCancelledMatchSendsNobody(t *testing.T) {
	rounds, err := Build(SingleElimination, testTeams(4))
	require.NoError(t, err)
	arena := NewArena(matchPtrs(rounds), fixedNow)

	m, _ := arena.Get(r1m1)
	require.NoError(t, m.Cancel())

	changed, err := arena.Advance(r1m1)
	require.NoError(t, err)
	assert.Empty(t, changed)

	next, _ := arena.Get(r2m1)
	assert.Equal(t, TBD, next.Team1)
}

func TestAdvanceIntoCancelledMatch(t *testing.T) {
	rounds, err := Build(SingleElimination, testTeams(4))
	require.NoError(t, err)
	arena := NewArena(matchPtrs(rounds), fixedNow)

	next, _ := arena.Get(r2m1)
	require.NoError(t, next.Cancel())

	m, _ := arena.Get(r1m1)
	require.NoError(t, m.Complete(16, 10, fixedNow))
	changed, err := arena.Advance(r1m1)
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.Equal(t, TBD, next.Team1)
	assert.Equal(t, StatusCancelled, next.Status)
}

func TestAdvanceSendsLoserDown(t *testing.T) {
	teams := testTeams(4)
	rounds, err := Build(DoubleElimination, teams)
	require.NoError(t, err)
	arena := NewArena(matchPtrs(rounds), fixedNow)

	m, _ := arena.Get(r1m1)
	require.NoError(t, m.Complete(0, 2, fixedNow))

	changed, err := arena.Advance(r1m1)
	require.NoError(t, err)
	require.Len(t, changed, 2)

	winners, _ := arena.Get(r2m1)
	assert.Equal(t, teams[1].Ref(), winners.Team1)

	losers, _ := arena.Get(Position{Round: 3, MatchNumber: 1})
	assert.Equal(t, teams[0].Ref(), losers.Team1)
	assert.Equal(t, TBD, losers.Team2)
}

func TestAdvanceByeLoserDropsBye(t *testing.T) {
	teams := testTeams(3)
	rounds, err := Build(DoubleElimination, teams)
	require.NoError(t, err)
	arena := NewArena(matchPtrs(rounds), fixedNow)

	// C beat the BYE at build time, so the losers slot waiting for A-B's loser faces a BYE.
	losers, _ := arena.Get(Position{Round: 3, MatchNumber: 1})
	assert.Equal(t, TBD, losers.Team1)
	assert.Equal(t, Bye, losers.Team2)

	m, _ := arena.Get(r1m1)
	require.NoError(t, m.Complete(3, 1, fixedNow))
	_, err = arena.Advance(r1m1)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, losers.Status)
	assert.Equal(t, teams[1].Ref(), *losers.Winner)

	dropIn, _ := arena.Get(Position{Round: 4, MatchNumber: 1})
	assert.Equal(t, teams[1].Ref(), dropIn.Team1)
	assert.Equal(t, TBD, dropIn.Team2)
}
