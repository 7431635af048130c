package llm

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-cli/internal/config"
	"github.com/sells-group/campaign-cli/pkg/groq"
)

type mockGroqClient struct {
	mock.Mock
}

func (m *mockGroqClient) ChatCompletion(ctx context.Context, req groq.ChatCompletionRequest) (*groq.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*groq.ChatCompletionResponse), args.Error(1)
}

func completion(text string) *groq.ChatCompletionResponse {
	return &groq.ChatCompletionResponse{
		Choices: []groq.Choice{{Message: groq.Message{Role: "assistant", Content: text}}},
	}
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		GroqModel:   "llama-3.1-8b-instant",
		Temperature: 0.7,
		MaxTokens:   1024,
		MaxRetries:  5,
	}
}

// fastRetries removes the backoff sleeps so retry paths run instantly.
func fastRetries(c *GroqClient) {
	c.retry.Backoff = func(int) time.Duration { return 0 }
	c.retry.OnRetry = nil
}

func TestGenerate(t *testing.T) {
	api := &mockGroqClient{}
	api.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req groq.ChatCompletionRequest) bool {
		return len(req.Messages) == 2 &&
			req.Messages[0].Role == "system" && req.Messages[0].Content == "be brief" &&
			req.Messages[1].Role == "user" && req.Messages[1].Content == "hello"
	})).Return(completion("hi"), nil).Once()

	c := NewGroq(api, testLLMConfig())
	text, err := c.Generate(context.Background(), "hello", "be brief")

	require.NoError(t, err)
	assert.Equal(t, "hi", text)
	api.AssertExpectations(t)
}

func TestGenerateNoSystemPrompt(t *testing.T) {
	api := &mockGroqClient{}
	api.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req groq.ChatCompletionRequest) bool {
		return len(req.Messages) == 1 && req.Messages[0].Role == "user"
	})).Return(completion("hi"), nil).Once()

	c := NewGroq(api, testLLMConfig())
	_, err := c.Generate(context.Background(), "hello", "")

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestGenerateRetriesRateLimit(t *testing.T) {
	api := &mockGroqClient{}
	rateLimited := &groq.APIError{StatusCode: http.StatusTooManyRequests, Body: "slow down"}
	api.On("ChatCompletion", mock.Anything, mock.Anything).Return(nil, rateLimited).Twice()
	api.On("ChatCompletion", mock.Anything, mock.Anything).Return(completion("finally"), nil).Once()

	c := NewGroq(api, testLLMConfig())
	fastRetries(c)

	text, err := c.Generate(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "finally", text)
	api.AssertExpectations(t)
}

func TestGenerateExhaustsRetries(t *testing.T) {
	api := &mockGroqClient{}
	rateLimited := &groq.APIError{StatusCode: http.StatusTooManyRequests, Body: "slow down"}
	api.On("ChatCompletion", mock.Anything, mock.Anything).Return(nil, rateLimited).Times(5)

	c := NewGroq(api, testLLMConfig())
	fastRetries(c)

	text, err := c.Generate(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Empty(t, text)
	api.AssertExpectations(t)
}

func TestGenerateAbortsOnServerError(t *testing.T) {
	api := &mockGroqClient{}
	api.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(nil, &groq.APIError{StatusCode: http.StatusInternalServerError, Body: "boom"}).Once()

	c := NewGroq(api, testLLMConfig())
	fastRetries(c)

	_, err := c.Generate(context.Background(), "hello", "")
	require.Error(t, err)
	api.AssertNumberOfCalls(t, "ChatCompletion", 1)
}

func TestGenerateAbortsOnTransportError(t *testing.T) {
	api := &mockGroqClient{}
	api.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(nil, eris.New("dial tcp: connection refused")).Once()

	c := NewGroq(api, testLLMConfig())
	fastRetries(c)

	_, err := c.Generate(context.Background(), "hello", "")
	require.Error(t, err)
	api.AssertNumberOfCalls(t, "ChatCompletion", 1)
}

func TestGenerateEmptyChoices(t *testing.T) {
	api := &mockGroqClient{}
	api.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(&groq.ChatCompletionResponse{}, nil).Once()

	c := NewGroq(api, testLLMConfig())
	_, err := c.Generate(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestGenerateJSONAppendsInstruction(t *testing.T) {
	api := &mockGroqClient{}
	api.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req groq.ChatCompletionRequest) bool {
		return req.Messages[0].Role == "system" &&
			req.Messages[0].Content == "score it"+jsonInstruction
	})).Return(completion(`{}`), nil).Once()

	c := NewGroq(api, testLLMConfig())
	_, err := c.GenerateJSON(context.Background(), "lead", "score it")

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestGenerateDeterministicWithStub(t *testing.T) {
	api := &mockGroqClient{}
	api.On("ChatCompletion", mock.Anything, mock.Anything).Return(completion("same answer"), nil)

	c := NewGroq(api, testLLMConfig())
	first, err := c.Generate(context.Background(), "draft", "")
	require.NoError(t, err)
	second, err := c.Generate(context.Background(), "draft", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
