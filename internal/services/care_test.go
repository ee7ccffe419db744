package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leafkeeper/leafkeeper/internal/cache"
	"github.com/leafkeeper/leafkeeper/internal/clients"
	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/leafkeeper/leafkeeper/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCareTest(t *testing.T, gen *fakeGenerator) (*services.CareService, *services.PlantService) {
	t.Helper()
	db := setupTestDB(t)
	log := logging.NewDiscard()
	plants := services.NewPlantService(db, newMemFiles(), log)
	care := services.NewCareService(db, gen, cache.NewMemory(), log)
	return care, plants
}

const generatedCareJSON = `{
	"common_name": "Parlor Palm",
	"scientific_names": ["Chamaedorea elegans"],
	"family": "Arecaceae",
	"genus": "Chamaedorea",
	"life_cycle": "perennial",
	"watering": "Weekly",
	"sunlight": ["bright indirect light"],
	"care_tips": ["Mist occasionally"],
	"common_problems": ["Brown tips from dry air"],
	"personalized_recommendations": []
}`

func TestResolveKnownSpeciesIsLocal(t *testing.T) {
	gen := &fakeGenerator{response: generatedCareJSON}
	care, _ := setupCareTest(t, gen)

	result, err := care.Resolve(context.Background(), "u1", "rosa", "")
	require.NoError(t, err)

	assert.Equal(t, services.SourceLocal, result.Source)
	assert.Equal(t, "Rosa", result.Data.CommonName)
	assert.Equal(t, 0, gen.callCount(), "local species must not reach the generative service")
}

func TestResolveCachesPerName(t *testing.T) {
	gen := &fakeGenerator{response: generatedCareJSON}
	care, _ := setupCareTest(t, gen)

	first, err := care.Resolve(context.Background(), "u1", "Chamaedorea elegans", "")
	require.NoError(t, err)
	assert.Equal(t, services.SourceGenerated, first.Source)
	assert.Equal(t, 1, gen.callCount())

	second, err := care.Resolve(context.Background(), "u1", "Chamaedorea elegans", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.callCount(), "second resolve must be served from cache")
}

func TestResolveStripsMarkdownFence(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n" + generatedCareJSON + "\n```"}
	care, _ := setupCareTest(t, gen)

	result, err := care.Resolve(context.Background(), "u1", "Chamaedorea elegans", "")
	require.NoError(t, err)
	assert.Equal(t, services.SourceGenerated, result.Source)
	assert.Equal(t, "Parlor Palm", result.Data.CommonName)
}

func TestResolveRateLimitedFallsBackToGeneric(t *testing.T) {
	gen := &fakeGenerator{err: clients.ErrRateLimited}
	care, _ := setupCareTest(t, gen)

	result, err := care.Resolve(context.Background(), "u1", "Chamaedorea elegans", "")
	require.NoError(t, err)

	assert.Equal(t, services.SourceFallback, result.Source)
	assert.NotEmpty(t, result.Advisory)
	assert.NotEmpty(t, result.Data.Watering)

	// The fallback is cached; no retry storm against a rate-limited service.
	_, err = care.Resolve(context.Background(), "u1", "Chamaedorea elegans", "")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.callCount())
}

func TestResolveOtherFailuresAreUnavailableAndUncached(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	care, _ := setupCareTest(t, gen)

	_, err := care.Resolve(context.Background(), "u1", "Chamaedorea elegans", "")
	assert.Equal(t, types.KindUnavailable, types.KindOf(err))

	// A failed resolve is not cached, so the next call retries.
	_, err = care.Resolve(context.Background(), "u1", "Chamaedorea elegans", "")
	assert.Equal(t, types.KindUnavailable, types.KindOf(err))
	assert.Equal(t, 2, gen.callCount())
}

func TestResolveErrorPayloadIsUnavailable(t *testing.T) {
	gen := &fakeGenerator{response: `{"error": "unknown species"}`}
	care, _ := setupCareTest(t, gen)

	_, err := care.Resolve(context.Background(), "u1", "Imaginarius plantus", "")
	assert.Equal(t, types.KindUnavailable, types.KindOf(err))
}

func TestResolveRequiresAName(t *testing.T) {
	care, _ := setupCareTest(t, &fakeGenerator{})

	_, err := care.Resolve(context.Background(), "u1", "", "")
	assert.Equal(t, types.KindValidation, types.KindOf(err))
}

func TestCacheJanitorClearsOnInterval(t *testing.T) {
	gen := &fakeGenerator{response: generatedCareJSON}
	db := setupTestDB(t)
	store := cache.NewMemory()
	care := services.NewCareService(db, gen, store, logging.NewDiscard())

	_, err := care.Resolve(context.Background(), "u1", "Chamaedorea elegans", "")
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	care.StartCacheJanitor(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestResolvePersonalizesFromOwnPlant(t *testing.T) {
	gen := &fakeGenerator{response: generatedCareJSON}
	care, plants := setupCareTest(t, gen)

	_, err := plants.Create(context.Background(), "u1", services.PlantInput{
		ScientificName: "Rosa chinensis",
		Location:       "south window",
	}, imageUpload("rose.jpg"))
	require.NoError(t, err)

	result, err := care.Resolve(context.Background(), "u1", "Rosa chinensis", "")
	require.NoError(t, err)
	assert.Equal(t, services.SourceLocal, result.Source)
	require.NotEmpty(t, result.Data.PersonalizedRecommendations)
	assert.Contains(t, result.Data.PersonalizedRecommendations[0], "south window")

	// Another owner without that plant gets the unpersonalized entry.
	other, err := care.Resolve(context.Background(), "u2", "Rosa chinensis", "")
	require.NoError(t, err)
	assert.NotContains(t, other.Data.PersonalizedRecommendations, result.Data.PersonalizedRecommendations[0])
}
