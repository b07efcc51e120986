package typesense

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurift/drift/pkg/config"
)

func TestOnsenSchema(t *testing.T) {
	schema := OnsenSchema()

	assert.Equal(t, OnsenCollection, schema.Name)
	require.NotNil(t, schema.DefaultSortingField)
	assert.Equal(t, "onsen_id", *schema.DefaultSortingField)

	types := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		types[f.Name] = f.Type
	}
	assert.Equal(t, "geopoint", types["location"])
	assert.Equal(t, "int32", types["price"])
	assert.Equal(t, "string[]", types["keywords"])
}

func TestClient_Integration(t *testing.T) {
	url := os.Getenv("TYPESENSE_TEST_URL")
	if url == "" {
		t.Skip("TYPESENSE_TEST_URL not set")
	}

	client, err := NewClient(&config.TypesenseConfig{URL: url, APIKey: os.Getenv("TYPESENSE_TEST_API_KEY")})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.ResetSchema(ctx))
	assert.NoError(t, client.InitSchema(ctx))
	assert.NoError(t, client.Ping(ctx))
}
