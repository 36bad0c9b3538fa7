package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-docquery-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "llama-test",
			"message": {"role": "assistant", "content": "ok"},
			"done": true,
			"done_reason": "stop",
			"eval_count": 5,
			"prompt_eval_count": 3
		}`))
	}))
}

func TestComplete_TemperatureZeroSerialized(t *testing.T) {
	var body map[string]interface{}
	server := chatServer(t, &body)
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama-test")
	_, err := provider.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, llm.WithTemperature(0))
	require.NoError(t, err)

	options, ok := body["options"].(map[string]interface{})
	require.True(t, ok, "options must be present in the request body")
	temperature, ok := options["temperature"]
	require.True(t, ok, "temperature must be present in options")
	assert.Equal(t, 0.0, temperature)
}

func TestComplete_TemperatureDefaultsWhenUnset(t *testing.T) {
	var body map[string]interface{}
	server := chatServer(t, &body)
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama-test")
	completion, err := provider.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	options := body["options"].(map[string]interface{})
	assert.Equal(t, llm.DefaultTemperature, options["temperature"])

	assert.Equal(t, "ok", completion.Text)
	assert.Equal(t, 8, completion.TotalTokens)
	assert.Equal(t, "stop", completion.FinishReason)
}
