package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/tripflow-poc/server/internal/trip/tools"
)

//go:embed template/classifier_prompt.txt
var classifierSystemPrompt string

//go:embed template/analyzer_prompt.txt
var analyzerSystemPrompt string

//go:embed template/lodging_prompt.txt
var lodgingSystemPrompt string

//go:embed template/weather_prompt.txt
var weatherSystemPrompt string

//go:embed template/attractions_prompt.txt
var attractionsSystemPrompt string

//go:embed template/budget_prompt.txt
var budgetSystemPrompt string

//go:embed template/summary_prompt.txt
var summarySystemPrompt string

// render pushes the finished system prompt through the Eino prompt component
// so prompt callbacks fire, and returns the final string.
func render(ctx context.Context, content string) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// RenderClassifierSystem renders the gate classifier system prompt.
func RenderClassifierSystem(ctx context.Context) (string, error) {
	return render(ctx, classifierSystemPrompt)
}

// RenderAnalyzerSystem renders the trip parameter extraction system prompt.
func RenderAnalyzerSystem(ctx context.Context) (string, error) {
	return render(ctx, analyzerSystemPrompt)
}

// RenderLodgingSystem renders the lodging capability system prompt.
func RenderLodgingSystem(ctx context.Context, today string) (string, error) {
	content := strings.NewReplacer(
		"{today}", today,
		"{search_tool}", tools.ToolSearchLodging,
	).Replace(lodgingSystemPrompt)
	return render(ctx, content)
}

// RenderWeatherSystem renders the weather capability system prompt.
func RenderWeatherSystem(ctx context.Context, today string) (string, error) {
	content := strings.NewReplacer("{today}", today).Replace(weatherSystemPrompt)
	return render(ctx, content)
}

// RenderAttractionsSystem renders the attractions capability system prompt.
func RenderAttractionsSystem(ctx context.Context, today string) (string, error) {
	content := strings.NewReplacer(
		"{today}", today,
		"{search_tool}", tools.ToolSearchAttractions,
	).Replace(attractionsSystemPrompt)
	return render(ctx, content)
}

// RenderBudgetSystem renders the budget capability system prompt.
func RenderBudgetSystem(ctx context.Context, today string) (string, error) {
	content := strings.NewReplacer(
		"{today}", today,
		"{calc_tool}", tools.ToolCalculate,
		"{currency_tool}", tools.ToolConvertCurrency,
	).Replace(budgetSystemPrompt)
	return render(ctx, content)
}

// RenderSummarySystem renders the summary system prompt, listing the stages
// the control line may legally target.
func RenderSummarySystem(ctx context.Context, regenTargets []string) (string, error) {
	content := strings.NewReplacer(
		"{targets}", strings.Join(regenTargets, ", "),
	).Replace(summarySystemPrompt)
	return render(ctx, content)
}
