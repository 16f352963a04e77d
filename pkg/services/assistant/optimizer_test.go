package assistant

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wb-tools/seller-atlas/pkg/models/domain"
)

type mockChatAPI struct {
	mock.Mock
}

func (m *mockChatAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func sampleAnalytics() domain.PeriodAnalytics {
	return domain.PeriodAnalytics{
		TotalOrders:   42,
		OrderedAmount: 63000,
		PurchaseRate:  71.4,
		ReturnRate:    11.9,
		Expenses:      domain.ExpenseBreakdown{Total: 18900},
		ByCategory: map[string]domain.CategoryStats{
			"Shoes": {Orders: 30, Revenue: 45000, CommissionRate: 15},
		},
	}
}

func TestSuggestImprovements(t *testing.T) {
	api := new(mockChatAPI)
	api.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == openai.GPT4oMini && len(req.Messages) == 2
	})).Return(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "  - shorten the title\n"}},
		},
	}, nil)
	opt := NewOptimizerWithAPI(api, "")

	got, err := opt.SuggestImprovements(context.Background(), ListingReview{
		Title:    "Кроссовки беговые мужские",
		Category: "Shoes",
		NmID:     445566,
	}, sampleAnalytics())

	require.NoError(t, err)
	assert.Equal(t, int64(445566), got.NmID)
	assert.Equal(t, "- shorten the title", got.Advice)
	api.AssertExpectations(t)
}

func TestSuggestImprovements_APIFailure(t *testing.T) {
	api := new(mockChatAPI)
	api.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, errors.New("quota exceeded"))
	opt := NewOptimizerWithAPI(api, "")

	_, err := opt.SuggestImprovements(context.Background(), ListingReview{Title: "x", Category: "y"}, sampleAnalytics())

	assert.ErrorContains(t, err, "chat completion")
}

func TestSuggestImprovements_EmptyChoices(t *testing.T) {
	api := new(mockChatAPI)
	api.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, nil)
	opt := NewOptimizerWithAPI(api, "")

	_, err := opt.SuggestImprovements(context.Background(), ListingReview{Title: "x", Category: "y"}, sampleAnalytics())

	assert.ErrorContains(t, err, "no choices")
}

func TestBuildPrompt_IncludesCategoryStats(t *testing.T) {
	prompt := buildPrompt(ListingReview{Title: "Boots", Category: "Shoes", NmID: 7}, sampleAnalytics())

	assert.Contains(t, prompt, `"Boots"`)
	assert.Contains(t, prompt, "total orders: 42")
	assert.Contains(t, prompt, "30 orders")
	assert.Contains(t, prompt, "15.0% commission")
}
