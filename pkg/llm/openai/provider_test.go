package openai

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

func completionServer(t *testing.T, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gpt-test",
			"choices": [{"message": {"role": "assistant", "content": "ok"}, "finish_reason": "stop"}],
			"usage": {"total_tokens": 7}
		}`))
	}))
}

func TestComplete_TemperatureZeroSerialized(t *testing.T) {
	var body map[string]interface{}
	server := completionServer(t, &body)
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "key", "gpt-test")
	_, err := provider.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, llm.WithTemperature(0))
	require.NoError(t, err)

	temperature, ok := body["temperature"]
	require.True(t, ok, "temperature must be present in the request body")
	assert.Equal(t, 0.0, temperature)
}

func TestComplete_TemperatureDefaultsWhenUnset(t *testing.T) {
	var body map[string]interface{}
	server := completionServer(t, &body)
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "key", "gpt-test")
	_, err := provider.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	assert.Equal(t, llm.DefaultTemperature, body["temperature"])
}

func TestComplete_MapsModelRoleAndUsage(t *testing.T) {
	var body map[string]interface{}
	server := completionServer(t, &body)
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "key", "gpt-test")
	completion, err := provider.Complete(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "model", Content: "earlier answer"},
	})
	require.NoError(t, err)

	messages := body["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "assistant", messages[1].(map[string]interface{})["role"])

	assert.Equal(t, "ok", completion.Text)
	assert.Equal(t, "gpt-test", completion.Model)
	assert.Equal(t, 7, completion.TotalTokens)
	assert.Equal(t, "stop", completion.FinishReason)
}
