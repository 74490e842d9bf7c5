package seo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/site-builder/internal/types"
)

func TestLocalBusinessJSONLD(t *testing.T) {
	record := types.BusinessRecord{
		Name:      "Ace Plumbing",
		Street:    "123 Main St",
		City:      "Springfield",
		State:     "IL",
		Zip:       "62701",
		Phone:     "+1 217-555-0100",
		Latitude:  39.78,
		Longitude: -89.65,
		Hours: []types.DayHours{
			{Day: "Monday", Open: "08:00", Close: "17:00"},
			{Day: "Sunday"}, // closed, no times
		},
	}
	services := []ServiceInfo{
		{Name: "Drain Cleaning", Description: "Fast drain and sewer cleaning."},
		{Name: "Water Heaters"},
	}
	reviews := &types.ReviewSummary{Rating: 4.8, Count: 120}

	data, err := LocalBusinessJSONLD(record, "https://ace-plumbing.example.com", services, reviews)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "https://schema.org", doc["@context"])
	assert.Equal(t, "LocalBusiness", doc["@type"])
	assert.Equal(t, "Ace Plumbing", doc["name"])

	addr := doc["address"].(map[string]any)
	assert.Equal(t, "PostalAddress", addr["@type"])
	assert.Equal(t, "Springfield", addr["addressLocality"])

	rating := doc["aggregateRating"].(map[string]any)
	assert.Equal(t, 4.8, rating["ratingValue"])
	assert.Equal(t, float64(120), rating["reviewCount"])

	offers := doc["makesOffer"].([]any)
	assert.Len(t, offers, 2)

	// The closed day carries no times and is dropped.
	hours := doc["openingHoursSpecification"].([]any)
	assert.Len(t, hours, 1)
}

func TestLocalBusinessJSONLD_MinimalRecord(t *testing.T) {
	data, err := LocalBusinessJSONLD(types.BusinessRecord{Name: "Ace"}, "", nil, nil)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	_, hasAddr := doc["address"]
	assert.False(t, hasAddr)
	_, hasGeo := doc["geo"]
	assert.False(t, hasGeo)
	_, hasRating := doc["aggregateRating"]
	assert.False(t, hasRating)
}

func TestLocalBusinessJSONLD_RequiresName(t *testing.T) {
	_, err := LocalBusinessJSONLD(types.BusinessRecord{}, "", nil, nil)
	assert.Error(t, err)
}
