package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reel/internal/adapter"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient(nil, nil)
	assert.Error(t, err)

	cfg := adapter.DefaultConfig()
	_, err = NewClientFromConfig(cfg, nil)
	assert.ErrorContains(t, err, "API key")

	cfg.API.BaseURL = ""
	cfg.API.Key = "k"
	_, err = NewClientFromConfig(cfg, nil)
	assert.ErrorContains(t, err, "base URL")

	cfg.API.BaseURL = adapter.DefaultBaseURL
	client, err := NewClientFromConfig(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, client)
}
