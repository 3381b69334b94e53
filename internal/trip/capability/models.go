package capability

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/tool"
	"google.golang.org/genai"

	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/tools"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	APIKey           string
	BaseURL          string
	ClassifierConfig *model.ClassifierModelConfig
	AnalyzerConfig   *model.AnalyzerModelConfig
	PlannerConfig    *model.PlannerModelConfig
}

// ChatModels holds one chat model per capability. Separate instances because
// tool bindings differ: lodging, attractions, and budget each carry their own
// tool set; the rest are plain generation.
type ChatModels struct {
	Classifier  *gemini.ChatModel
	Analyzer    *gemini.ChatModel
	Lodging     *gemini.ChatModel
	Weather     *gemini.ChatModel
	Attractions *gemini.ChatModel
	Budget      *gemini.ChatModel
	Summary     *gemini.ChatModel

	ClassifierModelName string
	AnalyzerModelName   string
	PlannerModelName    string
}

// NewChatModels creates every capability chat model from a single Gemini
// client and binds the domain tool sets.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	newModel := func(name string, maxTokens int, temperature float32) (*gemini.ChatModel, error) {
		return gemini.NewChatModel(ctx, &gemini.Config{
			Client:      client,
			Model:       name,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		})
	}

	cms := &ChatModels{
		ClassifierModelName: config.ClassifierConfig.Model,
		AnalyzerModelName:   config.AnalyzerConfig.Model,
		PlannerModelName:    config.PlannerConfig.Model,
	}

	if cms.Classifier, err = newModel(config.ClassifierConfig.Model, config.ClassifierConfig.MaxTokens, config.ClassifierConfig.Temperature); err != nil {
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}
	if cms.Analyzer, err = newModel(config.AnalyzerConfig.Model, config.AnalyzerConfig.MaxTokens, config.AnalyzerConfig.Temperature); err != nil {
		return nil, fmt.Errorf("error creating analyzer model: %w", err)
	}

	planner := config.PlannerConfig
	if cms.Lodging, err = newModel(planner.Model, planner.MaxTokens, planner.Temperature); err != nil {
		return nil, fmt.Errorf("error creating lodging model: %w", err)
	}
	if cms.Weather, err = newModel(planner.Model, planner.MaxTokens, planner.Temperature); err != nil {
		return nil, fmt.Errorf("error creating weather model: %w", err)
	}
	if cms.Attractions, err = newModel(planner.Model, planner.MaxTokens, planner.Temperature); err != nil {
		return nil, fmt.Errorf("error creating attractions model: %w", err)
	}
	if cms.Budget, err = newModel(planner.Model, planner.MaxTokens, planner.Temperature); err != nil {
		return nil, fmt.Errorf("error creating budget model: %w", err)
	}
	if cms.Summary, err = newModel(planner.Model, planner.MaxTokens, planner.Temperature); err != nil {
		return nil, fmt.Errorf("error creating summary model: %w", err)
	}

	if err := bindTools(ctx, cms.Lodging, tools.LodgingTools()); err != nil {
		return nil, fmt.Errorf("bind lodging tools: %w", err)
	}
	if err := bindTools(ctx, cms.Attractions, tools.AttractionTools()); err != nil {
		return nil, fmt.Errorf("bind attraction tools: %w", err)
	}
	if err := bindTools(ctx, cms.Budget, tools.BudgetTools()); err != nil {
		return nil, fmt.Errorf("bind budget tools: %w", err)
	}

	return cms, nil
}

func bindTools(ctx context.Context, cm *gemini.ChatModel, set []tool.BaseTool) error {
	infos, err := tools.GetToolInfos(ctx, set)
	if err != nil {
		return err
	}
	if err := cm.BindTools(infos); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}
	return nil
}
