package parsers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripflow-poc/server/internal/trip/parsers"
)

func TestParseTripParams_Full(t *testing.T) {
	content := `{
		"destination": "Paris",
		"budget": 2500,
		"native_currency": "eur",
		"days": 5,
		"group_size": 2,
		"activity_preferences": "museums, food markets",
		"dietary_restrictions": "vegetarian"
	}`

	params, err := parsers.ParseTripParams(content)
	require.NoError(t, err)
	assert.Equal(t, "Paris", params.Destination)
	assert.Equal(t, 5, params.Days)
	require.NotNil(t, params.Budget)
	assert.Equal(t, 2500.0, *params.Budget)
	require.NotNil(t, params.Currency)
	assert.Equal(t, "EUR", *params.Currency, "currency is normalized to upper case")
	require.NotNil(t, params.GroupSize)
	assert.Equal(t, 2, *params.GroupSize)
	assert.Nil(t, params.AccommodationType)
}

func TestParseTripParams_MinimalWithFence(t *testing.T) {
	params, err := parsers.ParseTripParams("```json\n{\"destination\": \"Tokyo\", \"days\": 3}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", params.Destination)
	assert.Equal(t, 3, params.Days)
	assert.Nil(t, params.Budget)
}

func TestParseTripParams_Invalid(t *testing.T) {
	for name, content := range map[string]string{
		"empty":               "",
		"prose":               "The user wants to go to Paris for five days.",
		"missing destination": `{"days": 5}`,
		"blank destination":   `{"destination": "  ", "days": 5}`,
		"missing days":        `{"destination": "Paris"}`,
		"zero days":           `{"destination": "Paris", "days": 0}`,
		"negative budget":     `{"destination": "Paris", "days": 5, "budget": -100}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parsers.ParseTripParams(content)
			require.Error(t, err)
		})
	}
}

func TestParseTripParams_SanitizesOptionalFields(t *testing.T) {
	params, err := parsers.ParseTripParams(`{
		"destination": "Bangkok",
		"days": 4,
		"group_size": 0,
		"native_currency": "  "
	}`)
	require.NoError(t, err)
	assert.Nil(t, params.GroupSize, "non-positive group size is dropped")
	assert.Nil(t, params.Currency, "blank currency is dropped")
}
