package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationTransitions(t *testing.T) {
	allowed := map[ReservationStatus][]ReservationStatus{
		ReservationPending:   {ReservationConfirmed, ReservationCancelled},
		ReservationConfirmed: {ReservationArrived, ReservationCancelled, ReservationNoShow},
	}
	for _, from := range AllReservationStatuses {
		for _, to := range AllReservationStatuses {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatusesReleaseNothingFurther(t *testing.T) {
	for _, s := range []ReservationStatus{ReservationArrived, ReservationCancelled, ReservationNoShow} {
		assert.True(t, s.IsTerminal(), s)
	}
	assert.False(t, ReservationCancelled.HoldsTables())
	assert.False(t, ReservationNoShow.HoldsTables())
	assert.True(t, ReservationPending.HoldsTables())
	assert.True(t, ReservationConfirmed.HoldsTables())
}

func TestSourcesFor(t *testing.T) {
	assert.ElementsMatch(t, []ReservationStatus{ReservationPending, ReservationConfirmed}, SourcesFor(ReservationCancelled))
	assert.Equal(t, []ReservationStatus{ReservationConfirmed}, SourcesFor(ReservationArrived))
	assert.Empty(t, SourcesFor(ReservationPending))
}

func TestParseReservationStatus(t *testing.T) {
	st, err := ParseReservationStatus("NoShow")
	require.NoError(t, err)
	assert.Equal(t, ReservationNoShow, st)

	_, err = ParseReservationStatus("noshow")
	assert.Error(t, err)
}

func TestTableDisplayName(t *testing.T) {
	name := "Private Room"
	assert.Equal(t, "Table 4", Table{TableNumber: 4}.DisplayName())
	assert.Equal(t, name, Table{TableNumber: 8, Name: &name}.DisplayName())
}
