package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/cookvoice/internal/logger"
)

func TestAzureSynthesize(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "application/ssml+xml", r.Header.Get("Content-Type"))
		assert.Equal(t, DefaultAudioFormat, r.Header.Get("X-Microsoft-OutputFormat"))
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte("RIFF-audio"))
	}))
	defer srv.Close()

	c := NewAzureClient("secret", "westeurope", logger.New(logger.LevelOff, nil),
		WithEndpoint(srv.URL), WithVoice("en-GB-SoniaNeural"))

	audio, err := c.Synthesize(context.Background(), "Season with salt & pepper <to taste>")
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF-audio"), audio)
	assert.Contains(t, gotBody, "name='en-GB-SoniaNeural'")
	assert.Contains(t, gotBody, "salt &amp; pepper &lt;to taste&gt;")
	assert.Equal(t, "en-GB-SoniaNeural", c.Voice())
}

func TestAzureSynthesizeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewAzureClient("wrong", "westeurope", logger.New(logger.LevelOff, nil), WithEndpoint(srv.URL))
	_, err := c.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestAzureDefaultEndpoint(t *testing.T) {
	c := NewAzureClient("k", "eastus", logger.New(logger.LevelOff, nil), WithVoice(""))
	assert.Equal(t, "https://eastus.tts.speech.microsoft.com/cognitiveservices/v1", c.endpoint)
	assert.Equal(t, DefaultVoice, c.Voice(), "empty voice keeps the default")
}
