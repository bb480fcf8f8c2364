package config

const (
	defaultProvider        = "gemini"
	defaultModelType       = "gemini-1.5-flash"
	defaultMaxOutputTokens = 150
	defaultTemperature     = 0.7
	defaultTopP            = 0.95
	defaultTopK            = 40
	defaultReportsDir      = "reports"
)

// DefaultSystemPrompt is the fixed instruction sent with every question.
const DefaultSystemPrompt = "You are a helpful medical assistant. Answer the " +
	"user's health question briefly and practically, in plain language, in " +
	"under 100 words. Give concrete advice first and keep disclaimers to a " +
	"single short sentence at most."

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Chat: ChatConfig{
			Provider:        defaultProvider,
			ModelType:       defaultModelType,
			MaxOutputTokens: defaultMaxOutputTokens,
			Temperature:     defaultTemperature,
			TopP:            defaultTopP,
			TopK:            defaultTopK,
			SystemPrompt:    DefaultSystemPrompt,
		},
		Providers: ProvidersConfig{
			Gemini: &ProviderConfig{
				APIKey: "",
			},
		},
		Reports: ReportsConfig{
			Dir: defaultReportsDir,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		Stdout:  false,
		File:    "logs/medibot.log",
	}
}

func (c *Config) applyDefaults() {
	if c.Chat.Provider == "" {
		c.Chat.Provider = defaultProvider
	}
	if c.Chat.ModelType == "" {
		c.Chat.ModelType = defaultModelType
	}
	if c.Chat.MaxOutputTokens <= 0 {
		c.Chat.MaxOutputTokens = defaultMaxOutputTokens
	}
	if c.Chat.Temperature == 0 {
		c.Chat.Temperature = defaultTemperature
	}
	if c.Chat.TopP == 0 {
		c.Chat.TopP = defaultTopP
	}
	if c.Chat.TopK <= 0 {
		c.Chat.TopK = defaultTopK
	}
	if c.Chat.SystemPrompt == "" {
		c.Chat.SystemPrompt = DefaultSystemPrompt
	}

	if c.Providers.Gemini == nil {
		c.Providers.Gemini = &ProviderConfig{}
	}
	if c.Reports.Dir == "" {
		c.Reports.Dir = defaultReportsDir
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.File == "" && !c.Logging.Stdout {
		c.Logging.File = def.File
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
