package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treyzar/lotto-advisor/pkg/models"
)

func completedPrimary(t *testing.T, session *Session) {
	t.Helper()
	w := session.Primary()
	w.SelectAnswer(FieldStyle, models.StyleTirage)
	w.Advance()
	w.SelectAnswer(FieldFrequency, 1.0/7.0)
	w.Advance()
	w.SelectAnswer(FieldTicketCost, 350.0)
	w.Advance()
	w.Advance()
	require.True(t, w.Advance())
}

func TestSessionServiceCreateAndGet(t *testing.T) {
	ss := NewSessionService(time.Hour, testLogger())

	session := ss.Create()
	require.NotNil(t, session.Primary())
	assert.Nil(t, session.Refine())
	assert.Nil(t, session.Profile())

	found, err := ss.Get(session.ID())
	require.NoError(t, err)
	assert.Same(t, session, found)
}

func TestSessionServiceExpiry(t *testing.T) {
	ss := NewSessionService(time.Nanosecond, testLogger())

	session := ss.Create()
	time.Sleep(time.Millisecond)

	_, err := ss.Get(session.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCompletePrimaryOpensRefinement(t *testing.T) {
	ss := NewSessionService(time.Hour, testLogger())
	session := ss.Create()
	completedPrimary(t, session)

	profile := ss.CompletePrimary(session)
	require.NotNil(t, profile.Style)
	assert.Equal(t, models.StyleTirage, *profile.Style)

	require.NotNil(t, session.Refine())
	require.NotNil(t, session.Profile())

	// Completing again keeps the same refinement wizard.
	refine := session.Refine()
	ss.CompletePrimary(session)
	assert.Same(t, refine, session.Refine())
}

// Exercises the handler access pattern: one goroutine finalizes the profile
// while others poll the session state and record shortlists. Run with -race.
func TestSessionConcurrentCompleteAndRead(t *testing.T) {
	ss := NewSessionService(time.Hour, testLogger())
	session := ss.Create()
	completedPrimary(t, session)

	var wg sync.WaitGroup
	start := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < 100; i++ {
			ss.CompletePrimary(session)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < 100; i++ {
				if refine := session.Refine(); refine != nil {
					_ = refine.State()
				}
				_ = session.Profile()
				session.SetShortlist([]models.RankedItem{{Diff: 0.1}})
				_ = session.Shortlist()
			}
		}()
	}

	close(start)
	wg.Wait()

	require.NotNil(t, session.Refine())
	require.NotNil(t, session.Profile())
}
