package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/propsignal/leadmarket/internal/config"
	"github.com/propsignal/leadmarket/internal/logger"
	"github.com/propsignal/leadmarket/internal/models"
)

// ErrMissingAPIKey indicates the GPT provider key is absent. It is checked
// when a scrape is attempted, not at startup.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// SearchRequest describes a property search. Zero fields are filled with
// production defaults before the search runs.
type SearchRequest struct {
	Location               string `json:"location"`
	MaxPrice               int    `json:"max_price"`
	MinPrice               int    `json:"min_price"`
	PropertyType           string `json:"property_type"`
	MaxResults             int    `json:"max_results"`
	IncludePhotos          *bool  `json:"include_photos"`
	EnableLatticeAnalysis  *bool  `json:"enable_lattice_analysis"`
}

func (r *SearchRequest) normalize() {
	if r.Location == "" {
		r.Location = "Austin, TX"
	}
	if r.MaxPrice == 0 {
		r.MaxPrice = 500000
	}
	if r.MinPrice == 0 {
		r.MinPrice = 50000
	}
	if r.PropertyType == "" {
		r.PropertyType = "single_family"
	}
	if r.MaxResults == 0 {
		r.MaxResults = 25
	}
	if r.IncludePhotos == nil {
		t := true
		r.IncludePhotos = &t
	}
	if r.EnableLatticeAnalysis == nil {
		t := true
		r.EnableLatticeAnalysis = &t
	}
}

// PropertySource produces candidate listings for a search.
type PropertySource interface {
	Fetch(ctx context.Context, req SearchRequest) ([]models.Property, error)
}

// OpenAISource asks a GPT model to emit candidate distressed listings as JSON.
type OpenAISource struct {
	cfg config.OpenAIConfig
	log *logger.Logger
}

func NewOpenAISource(cfg config.OpenAIConfig, log *logger.Logger) *OpenAISource {
	return &OpenAISource{cfg: cfg, log: log}
}

const sourceSystemPrompt = "You output valid JSON with real estate listings."

func (s *OpenAISource) Fetch(ctx context.Context, req SearchRequest) ([]models.Property, error) {
	if s.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	prompt := fmt.Sprintf(
		"You have Zillow access. Produce JSON with a top-level 'properties' array "+
			"for listings that might be distressed.\n"+
			"Location: %s\n"+
			"Price range: $%d - $%d\n"+
			"Property type: %s\n"+
			"For each entry include ZPID, address, price, beds/baths, sqft, "+
			"days on market, price history, Zestimate, description, "+
			"neighborhood, and photo URLs.\n"+
			"Prioritize high days on market, price reductions, and discounts.",
		req.Location, req.MinPrice, req.MaxPrice, req.PropertyType,
	)

	client := openai.NewClient(s.cfg.APIKey)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.cfg.Model,
		MaxTokens: s.cfg.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sourceSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpt scrape failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("gpt scrape failed: empty response")
	}

	properties, err := parseListings(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("gpt scrape failed: %w", err)
	}

	s.log.Info("fetched candidate listings", map[string]interface{}{
		"location": req.Location,
		"count":    len(properties),
	})
	return properties, nil
}

// wireProperty tolerates the loose typing of model output; zpid in particular
// arrives as either a string or a number.
type wireProperty struct {
	ZPID          json.Number          `json:"zpid"`
	Address       string               `json:"address"`
	Price         int                  `json:"price"`
	Bedrooms      int                  `json:"bedrooms"`
	Bathrooms     float64              `json:"bathrooms"`
	Sqft          int                  `json:"sqft"`
	LotSize       *float64             `json:"lot_size"`
	YearBuilt     *int                 `json:"year_built"`
	PropertyType  string               `json:"property_type"`
	ListingDate   string               `json:"listing_date"`
	DaysOnMarket  int                  `json:"days_on_market"`
	PriceHistory  []models.PriceEvent  `json:"price_history"`
	Photos        []string             `json:"photos"`
	Description   string               `json:"description"`
	Neighborhood  string               `json:"neighborhood"`
	Zestimate     *int                 `json:"zestimate"`
	RentZestimate *int                 `json:"rent_zestimate"`
}

func parseListings(content string) ([]models.Property, error) {
	var payload struct {
		Properties []wireProperty `json:"properties"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("malformed listing payload: %w", err)
	}

	properties := make([]models.Property, 0, len(payload.Properties))
	for _, wp := range payload.Properties {
		properties = append(properties, models.Property{
			ZPID:          wp.ZPID.String(),
			Address:       wp.Address,
			Price:         wp.Price,
			Bedrooms:      wp.Bedrooms,
			Bathrooms:     wp.Bathrooms,
			Sqft:          wp.Sqft,
			LotSize:       wp.LotSize,
			YearBuilt:     wp.YearBuilt,
			PropertyType:  wp.PropertyType,
			ListingDate:   wp.ListingDate,
			DaysOnMarket:  wp.DaysOnMarket,
			PriceHistory:  wp.PriceHistory,
			Photos:        wp.Photos,
			Description:   wp.Description,
			Neighborhood:  wp.Neighborhood,
			Zestimate:     wp.Zestimate,
			RentZestimate: wp.RentZestimate,
		})
	}
	return properties, nil
}
