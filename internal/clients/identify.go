package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// SpeciesCandidate is one ranked identification result. Only names and the
// confidence score are consumed.
type SpeciesCandidate struct {
	ScientificName string  `json:"scientificName"`
	CommonName     string  `json:"commonName"`
	Score          float64 `json:"score"`
}

// Identifier resolves an image to ranked species candidates.
type Identifier interface {
	Identify(ctx context.Context, filename string, image io.Reader) ([]SpeciesCandidate, error)
}

// PlantIDClient calls the external plant identification collaborator.
type PlantIDClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewPlantIDClient(baseURL, apiKey string) *PlantIDClient {
	return &PlantIDClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *PlantIDClient) Identify(ctx context.Context, filename string, image io.Reader) ([]SpeciesCandidate, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/identify", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identification service returned status %d", resp.StatusCode)
	}

	var out struct {
		Candidates []struct {
			ScientificName string  `json:"scientific_name"`
			CommonName     string  `json:"common_name"`
			Score          float64 `json:"score"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode identification response: %w", err)
	}

	candidates := make([]SpeciesCandidate, 0, len(out.Candidates))
	for _, c := range out.Candidates {
		candidates = append(candidates, SpeciesCandidate{
			ScientificName: c.ScientificName,
			CommonName:     c.CommonName,
			Score:          c.Score,
		})
	}
	return candidates, nil
}
