package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App        AppConfig
	Server     ServerConfig
	AI         AIConfig
	Agent      AgentConfig
	Translate  TranslateConfig
	Classifier ClassifierConfig
	Storage    StorageConfig
	Tools      ToolsConfig
	Session    SessionConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string
	Environment string
	Version     string
	Debug       bool
	LogLevel    string
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string
	Port         int
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

// AIConfig LLM 配置
type AIConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// AgentConfig 对话 Agent 配置
type AgentConfig struct {
	MaxIterations    int
	MaxExecutionTime time.Duration
	FallbackTimeout  time.Duration
	MemorySize       int
}

// TranslateConfig 翻译配置
type TranslateConfig struct {
	Provider string // llm, gemini
	Gemini   GeminiConfig
}

// GeminiConfig Gemini 翻译后端配置
type GeminiConfig struct {
	APIKey string
	Model  string
}

// ClassifierConfig 病害识别配置
type ClassifierConfig struct {
	ModelPath      string
	ModelSource    string
	InputName      string
	OutputName     string
	SharedLibrary  string
	MaxUploadBytes int64
}

// StorageConfig 模型文件远端存储配置
type StorageConfig struct {
	MinIO MinIOConfig
}

// MinIOConfig MinIO 配置
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// ToolsConfig Agent 工具配置
type ToolsConfig struct {
	WikipediaLanguage string
	ArxivBaseURL      string
	TopK              int
	DocMaxChars       int
	SearchMaxResults  int
	SearchTimeRange   string
}

// SessionConfig 会话配置
type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

var globalConfig *Config

// Load 加载配置
// 优先级：环境变量 > 配置文件 > 默认值。启动时先读取 .env
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using process environment")
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}

	// 环境变量
	v.SetEnvPrefix("AGRI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("ai.apiKey", "AGRI_AI_APIKEY", "GROQ_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("translate.gemini.apiKey", "AGRI_TRANSLATE_GEMINI_APIKEY", "GEMINI_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded")
	}
	return globalConfig
}

// Validate 校验必填项
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.AI,
		validation.Field(&c.AI.APIKey, validation.Required.Error("LLM api key is required (set GROQ_API_KEY)")),
		validation.Field(&c.AI.Model, validation.Required),
		validation.Field(&c.AI.Provider, validation.In("groq", "openai", "deepseek")),
	); err != nil {
		return fmt.Errorf("ai: %w", err)
	}

	if err := validation.ValidateStruct(&c.Agent,
		validation.Field(&c.Agent.MaxIterations, validation.Required, validation.Min(1)),
		validation.Field(&c.Agent.MaxExecutionTime, validation.Required),
		validation.Field(&c.Agent.MemorySize, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("agent: %w", err)
	}

	if err := validation.ValidateStruct(&c.Translate,
		validation.Field(&c.Translate.Provider, validation.In("llm", "gemini")),
	); err != nil {
		return fmt.Errorf("translate: %w", err)
	}
	if c.Translate.Provider == "gemini" && c.Translate.Gemini.APIKey == "" {
		return errors.New("translate: gemini api key is required for the gemini provider")
	}

	if err := validation.ValidateStruct(&c.Classifier,
		validation.Field(&c.Classifier.ModelPath, validation.Required),
		validation.Field(&c.Classifier.InputName, validation.Required),
		validation.Field(&c.Classifier.OutputName, validation.Required),
		validation.Field(&c.Classifier.MaxUploadBytes, validation.Min(int64(1))),
	); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}

	return nil
}

// GetAddr 获取服务器地址
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "agri-assist")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.logLevel", "info")

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 90)

	// AI
	v.SetDefault("ai.provider", "groq")
	v.SetDefault("ai.baseUrl", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.model", "llama3-70b-8192")
	v.SetDefault("ai.temperature", 0.2)

	// Agent
	v.SetDefault("agent.maxIterations", 15)
	v.SetDefault("agent.maxExecutionTime", 60*time.Second)
	v.SetDefault("agent.fallbackTimeout", 20*time.Second)
	v.SetDefault("agent.memorySize", 5)

	// Translate
	v.SetDefault("translate.provider", "llm")
	v.SetDefault("translate.gemini.model", "gemini-2.5-flash")

	// Classifier
	v.SetDefault("classifier.modelPath", "./data/plant_disease_model.onnx")
	v.SetDefault("classifier.modelSource", "")
	v.SetDefault("classifier.inputName", "input")
	v.SetDefault("classifier.outputName", "output")
	v.SetDefault("classifier.sharedLibrary", "")
	v.SetDefault("classifier.maxUploadBytes", 10<<20)

	// Tools
	v.SetDefault("tools.wikipediaLanguage", "en")
	v.SetDefault("tools.arxivBaseUrl", "https://export.arxiv.org/api/query")
	v.SetDefault("tools.topK", 1)
	v.SetDefault("tools.docMaxChars", 200)
	v.SetDefault("tools.searchMaxResults", 2)
	v.SetDefault("tools.searchTimeRange", "y")

	// Session
	v.SetDefault("session.idleTTL", 2*time.Hour)
	v.SetDefault("session.sweepInterval", 5*time.Minute)
}
