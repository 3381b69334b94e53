package model

// ================ Config ================
type PipelineConfig struct {
	StageTimeout string `envconfig:"PIPELINE_STAGE_TIMEOUT" default:"45s"`
	CycleLimit   int    `envconfig:"PIPELINE_CYCLE_LIMIT" default:"3"`
	Retry        struct {
		MaxAttempts int    `envconfig:"PIPELINE_RETRY_MAX_ATTEMPTS" default:"2"`
		Backoff     string `envconfig:"PIPELINE_RETRY_BACKOFF" default:"500ms"`
	}
	Run struct {
		TTL string `envconfig:"RUN_RECORD_TTL" default:"24h"`
	}
	Tools struct {
		MaxCalls int `envconfig:"PIPELINE_TOOL_MAX_CALLS" default:"6"`
	}
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"256"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.0"`
}

type AnalyzerModelConfig struct {
	Model       string  `envconfig:"ANALYZER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ANALYZER_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"ANALYZER_TEMPERATURE" default:"0.1"`
}

// PlannerModelConfig drives the domain capabilities (lodging, weather,
// attractions, budget) and the narrative summary.
type PlannerModelConfig struct {
	Model       string  `envconfig:"PLANNER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"PLANNER_MAX_TOKENS" default:"2048"`
	Temperature float32 `envconfig:"PLANNER_TEMPERATURE" default:"0.4"`
}
