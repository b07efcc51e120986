package catchphrase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/mocks"
)

var testTaste = entities.MustTasteVector([]string{"forest", "snow", "hinoki"}, []string{"トロトロ"})

func testFacilities() []entities.ScoredFacility {
	return []entities.ScoredFacility{{Facility: entities.Facility{ID: 1, Name: "森の湯"}}}
}

func tightSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:      2,
		FailureRatio:     1,
		Interval:         time.Minute,
		OpenTimeout:      time.Hour,
		HalfOpenRequests: 1,
	}
}

func TestBreakerProvider_PassesThrough(t *testing.T) {
	next := mocks.NewCatchphraseProvider(t)
	next.On("GenerateCatchphrases", mock.Anything, mock.Anything, mock.Anything).
		Return([]string{"森の休日"}, nil).Once()

	bp := NewBreakerProvider(next, tightSettings(), nil)
	phrases, err := bp.GenerateCatchphrases(context.Background(), testFacilities(), testTaste)

	require.NoError(t, err)
	assert.Equal(t, []string{"森の休日"}, phrases)
	assert.Equal(t, "closed", bp.State())
}

func TestBreakerProvider_OpensAfterFailures(t *testing.T) {
	next := mocks.NewCatchphraseProvider(t)
	next.On("GenerateCatchphrases", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("upstream down")).Twice()

	bp := NewBreakerProvider(next, tightSettings(), nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := bp.GenerateCatchphrases(ctx, testFacilities(), testTaste)
		require.Error(t, err)
	}
	assert.Equal(t, "open", bp.State())

	// the wrapped provider is not called again while open
	_, err := bp.GenerateCatchphrases(ctx, testFacilities(), testTaste)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestBreakerProvider_CancellationDoesNotTrip(t *testing.T) {
	next := mocks.NewCatchphraseProvider(t)
	next.On("GenerateCatchphrases", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, context.Canceled).Times(3)

	bp := NewBreakerProvider(next, tightSettings(), nil)
	for i := 0; i < 3; i++ {
		_, err := bp.GenerateCatchphrases(context.Background(), testFacilities(), testTaste)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", bp.State())
}

func TestStaticProvider(t *testing.T) {
	facilities := append(testFacilities(), entities.ScoredFacility{Facility: entities.Facility{ID: 2}})

	phrases, err := StaticProvider{}.GenerateCatchphrases(context.Background(), facilities, testTaste)
	require.NoError(t, err)
	assert.Equal(t, []string{entities.DefaultCatchphrase, entities.DefaultCatchphrase}, phrases)
}
