// Package assistant produces AI-assisted listing and promotion suggestions
// from a cabinet's period analytics via a chat-completion service.
package assistant

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/wb-tools/seller-atlas/pkg/models/domain"
)

const defaultModel = openai.GPT4oMini

const systemPrompt = `You are an e-commerce listing optimization assistant for Wildberries sellers.
Given a listing and the seller's period analytics, suggest concrete improvements
to the title, description and promotion settings. Answer with short bullet
points, no preamble.`

// ChatAPI is the completion surface we depend on; *openai.Client satisfies it.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type ListingReview struct {
	Title    string
	Category string
	NmID     int64
}

type Suggestions struct {
	NmID   int64
	Advice string
}

type Optimizer struct {
	api   ChatAPI
	model string
}

func NewOptimizer(apiKey, model string) *Optimizer {
	if model == "" {
		model = defaultModel
	}
	return &Optimizer{api: openai.NewClient(apiKey), model: model}
}

// NewOptimizerWithAPI is the test seam around NewOptimizer.
func NewOptimizerWithAPI(api ChatAPI, model string) *Optimizer {
	if model == "" {
		model = defaultModel
	}
	return &Optimizer{api: api, model: model}
}

// SuggestImprovements asks the model for optimization advice grounded in the
// period analytics of the listing's category.
func (o *Optimizer) SuggestImprovements(
	ctx context.Context,
	listing ListingReview,
	analytics domain.PeriodAnalytics,
) (*Suggestions, error) {
	resp, err := o.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(listing, analytics)},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("assistant: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("assistant: no choices in response")
	}

	return &Suggestions{
		NmID:   listing.NmID,
		Advice: strings.TrimSpace(resp.Choices[0].Message.Content),
	}, nil
}

func buildPrompt(listing ListingReview, a domain.PeriodAnalytics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Listing: %q (category %q, nmId %d)\n\n", listing.Title, listing.Category, listing.NmID)
	fmt.Fprintf(&b, "Period analytics:\n")
	fmt.Fprintf(&b, "- total orders: %d\n", a.TotalOrders)
	fmt.Fprintf(&b, "- purchase rate: %.1f%%, return rate: %.1f%%\n", a.PurchaseRate, a.ReturnRate)
	fmt.Fprintf(&b, "- total expenses: %.0f of %.0f revenue\n", a.Expenses.Total, a.OrderedAmount)
	if cat, ok := a.ByCategory[listing.Category]; ok {
		fmt.Fprintf(&b, "- category %q: %d orders, %.0f revenue, %.1f%% commission\n",
			listing.Category, cat.Orders, cat.Revenue, cat.CommissionRate)
	}
	return b.String()
}
