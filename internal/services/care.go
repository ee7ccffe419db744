package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leafkeeper/leafkeeper/internal/cache"
	"github.com/leafkeeper/leafkeeper/internal/clients"
	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/models"
	"github.com/leafkeeper/leafkeeper/internal/types"
	"gorm.io/gorm"
)

// Care guidance sources, in preference order.
const (
	SourceLocal     = "local"
	SourceGenerated = "generated"
	SourceFallback  = "generic-fallback"
)

// CareData is the structured guidance for a species.
type CareData struct {
	CommonName                  string   `json:"common_name"`
	ScientificNames             []string `json:"scientific_names"`
	Family                      string   `json:"family"`
	Genus                       string   `json:"genus"`
	LifeCycle                   string   `json:"life_cycle"`
	Watering                    string   `json:"watering"`
	Sunlight                    []string `json:"sunlight"`
	CareTips                    []string `json:"care_tips"`
	CommonProblems              []string `json:"common_problems"`
	PersonalizedRecommendations []string `json:"personalized_recommendations"`
}

// CareResult is the resolver output: guidance plus where it came from.
type CareResult struct {
	Source   string   `json:"source"`
	Advisory string   `json:"advisory,omitempty"`
	Data     CareData `json:"data"`
}

// CareService resolves care guidance: local static table first, then the
// generative text service, degrading to a generic template when the latter
// is rate-limited. Results are cached per (name, owner) until the cache's
// periodic full clear.
type CareService struct {
	db    *gorm.DB
	gen   clients.TextGenerator
	cache cache.Store
	log   logging.Logger
}

func NewCareService(db *gorm.DB, gen clients.TextGenerator, store cache.Store, log logging.Logger) *CareService {
	return &CareService{db: db, gen: gen, cache: store, log: log}
}

// StartCacheJanitor fully clears the guidance cache on a fixed interval
// until ctx is cancelled. There is no per-entry TTL.
func (s *CareService) StartCacheJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cache.Clear()
				s.log.Debug(ctx, "care guidance cache cleared")
			}
		}
	}()
}

// Resolve returns care guidance for a species name pair.
func (s *CareService) Resolve(ctx context.Context, owner, scientificName, commonName string) (*CareResult, error) {
	name := scientificName
	if name == "" {
		name = commonName
	}
	if name == "" {
		return nil, types.Validation("scientificName or commonName is required")
	}

	// Cache is per-owner: personalization makes entries owner-specific.
	key := strings.ToLower(name) + ":" + owner
	if v, ok := s.cache.Get(key); ok {
		if result, ok := v.(*CareResult); ok {
			return result, nil
		}
	}

	personalization := s.personalizationFor(owner, scientificName, commonName)

	// Local static knowledge first; no network call on a hit.
	if data, ok := lookupKnownSpecies(name); ok {
		if len(personalization) > 0 {
			data.PersonalizedRecommendations = personalization
		}
		result := &CareResult{Source: SourceLocal, Data: data}
		s.cache.Set(key, result)
		return result, nil
	}

	raw, err := s.gen.Generate(ctx, carePrompt(scientificName, commonName))
	if err != nil {
		if errors.Is(err, clients.ErrRateLimited) {
			s.log.Warn(ctx, "generative service rate limited, serving generic guidance", "name", name)
			result := &CareResult{
				Source:   SourceFallback,
				Advisory: "Care guidance is temporarily limited; showing general advice for your plant.",
				Data:     genericCareTemplate(name, personalization),
			}
			s.cache.Set(key, result)
			return result, nil
		}
		return nil, types.Unavailable("care guidance service is unavailable", err)
	}

	data, err := parseStructuredCareResponse(raw)
	if err != nil {
		return nil, types.Unavailable("care guidance service returned an unusable response", err)
	}
	if len(personalization) > 0 {
		data.PersonalizedRecommendations = personalization
	}

	result := &CareResult{Source: SourceGenerated, Data: data}
	s.cache.Set(key, result)
	return result, nil
}

// personalizationFor builds one-line recommendations from the owner's own
// plant record matching either name. No match means no personalization.
func (s *CareService) personalizationFor(owner, scientificName, commonName string) []string {
	var plant models.Plant
	query := s.db.Where("owner_id = ?", owner)
	switch {
	case scientificName != "" && commonName != "":
		query = query.Where("LOWER(scientific_name) = ? OR LOWER(common_name) = ?",
			strings.ToLower(scientificName), strings.ToLower(commonName))
	case scientificName != "":
		query = query.Where("LOWER(scientific_name) = ?", strings.ToLower(scientificName))
	default:
		query = query.Where("LOWER(common_name) = ?", strings.ToLower(commonName))
	}
	if err := query.First(&plant).Error; err != nil {
		return nil
	}
	return personalizationSentences(&plant)
}

func personalizationSentences(plant *models.Plant) []string {
	var out []string
	if plant.Location != "" {
		out = append(out, fmt.Sprintf("Your plant lives in %s; adjust light and airflow for that spot.", plant.Location))
	}
	if plant.WateringFrequency != "" {
		out = append(out, fmt.Sprintf("You water it %s; keep an eye on the soil before each watering.", strings.ToLower(plant.WateringFrequency)))
	}
	if plant.Light != "" {
		out = append(out, fmt.Sprintf("It currently gets %s light.", strings.ToLower(plant.Light)))
	}
	if plant.Notes != "" {
		out = append(out, fmt.Sprintf("Your notes: %s", plant.Notes))
	}
	return out
}

// carePrompt asks for strict JSON matching CareData; no prose, no fences.
func carePrompt(scientificName, commonName string) string {
	name := scientificName
	if commonName != "" {
		name = fmt.Sprintf("%s (%s)", scientificName, commonName)
	}
	return fmt.Sprintf(`Describe houseplant care for %s. Respond with a single JSON object only, no markdown, with keys: common_name, scientific_names (array), family, genus, life_cycle, watering, sunlight (array), care_tips (array), common_problems (array), personalized_recommendations (array, empty). If the species is unknown respond with {"error": "unknown species"}.`, name)
}

// parseStructuredCareResponse is the single owner of the fragile
// text-cleaning logic: it strips a markdown code fence if the service
// wrapped its JSON in one, then decodes and rejects error payloads.
func parseStructuredCareResponse(raw string) (CareData, error) {
	cleaned := stripCodeFence(raw)

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return CareData{}, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if probe.Error != "" {
		return CareData{}, fmt.Errorf("generative service reported: %s", probe.Error)
	}

	var data CareData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return CareData{}, fmt.Errorf("response does not match the care schema: %w", err)
	}
	return data, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// Drop the opening fence line (``` or ```json) and a trailing fence.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// genericCareTemplate is the degraded, species-agnostic guidance used when
// the generative service is rate-limited. Personalization is appended here,
// not overwritten, so the generic tips stay visible.
func genericCareTemplate(name string, personalization []string) CareData {
	data := CareData{
		CommonName: name,
		LifeCycle:  "perennial (typical for houseplants)",
		Watering:   "Water when the top 2-3cm of soil feels dry; err on the side of underwatering.",
		Sunlight:   []string{"bright indirect light"},
		CareTips: []string{
			"Use a pot with a drainage hole.",
			"Rotate the plant a quarter turn each week for even growth.",
			"Hold off fertilizing in winter.",
		},
		CommonProblems: []string{
			"Yellowing leaves usually mean overwatering.",
			"Brown crispy tips point to dry air or underwatering.",
			"Stretched, pale growth means too little light.",
		},
		PersonalizedRecommendations: []string{
			"These are general recommendations; retry later for species-specific guidance.",
		},
	}
	data.PersonalizedRecommendations = append(data.PersonalizedRecommendations, personalization...)
	return data
}
