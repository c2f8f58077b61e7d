package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderSim      = "sim"
)

type GovernanceConfig struct {
	Enforce          bool    `json:"enforce" yaml:"enforce"`
	MaxTradeSizePct  float64 `json:"max_trade_size_pct" yaml:"max_trade_size_pct"`
	MaxVaRThreshold  float64 `json:"max_var_threshold" yaml:"max_var_threshold"`
	MaxBetaThreshold float64 `json:"max_beta_threshold" yaml:"max_beta_threshold"`
}

type Config struct {
	ProjectDir string `json:"project_dir" yaml:"project_dir"`
	ResultsDir string `json:"results_dir" yaml:"results_dir"`
	DataDir    string `json:"data_dir" yaml:"data_dir"`

	// Brokerage simulator
	InitialCash float64            `json:"initial_cash" yaml:"initial_cash"`
	PriceTable  map[string]float64 `json:"price_table" yaml:"price_table"`

	LLMProvider      string `json:"llm_provider" yaml:"llm_provider"`
	DeepThinkLLM     string `json:"deep_think_llm" yaml:"deep_think_llm"`
	QuickThinkLLM    string `json:"quick_think_llm" yaml:"quick_think_llm"`
	BackendURL       string `json:"backend_url" yaml:"backend_url"`
	LLMTimeoutSecs   int    `json:"llm_timeout" yaml:"llm_timeout"`
	LLMRatePerMinute int    `json:"llm_rate_per_minute" yaml:"llm_rate_per_minute"`
	MaxTokens        int    `json:"max_tokens" yaml:"max_tokens"`

	// AI Model API Keys
	GeminiAPIKey   string `json:"gemini_api_key" yaml:"gemini_api_key"`
	OpenAIAPIKey   string `json:"openai_api_key" yaml:"openai_api_key"`
	DeepSeekAPIKey string `json:"deepseek_api_key" yaml:"deepseek_api_key"`

	HTTPAddr    string `json:"http_addr" yaml:"http_addr"`
	JournalPath string `json:"journal_path" yaml:"journal_path"`
	Debug       bool   `json:"debug" yaml:"debug"`

	// Eino Debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled" yaml:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port" yaml:"eino_debug_port"`

	Governance GovernanceConfig `json:"governance" yaml:"governance"`
}

// DefaultPriceTable is the fixed quote sheet of the simulated brokerage.
func DefaultPriceTable() map[string]float64 {
	return map[string]float64{
		"AAPL":  175.0,
		"GOOGL": 140.0,
		"MSFT":  370.0,
		"TSLA":  245.0,
		"AMZN":  145.0,
	}
}

func newDefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	return &Config{
		ProjectDir: currentDir,
		ResultsDir: filepath.Join(currentDir, "results"),
		DataDir:    filepath.Join(currentDir, "data"),

		InitialCash: 100000.0,
		PriceTable:  DefaultPriceTable(),

		LLMProvider:      ProviderGemini,
		DeepThinkLLM:     "gemini-2.0-flash",
		QuickThinkLLM:    "gemini-1.5-flash",
		BackendURL:       "",
		LLMTimeoutSecs:   60,
		LLMRatePerMinute: 30,
		MaxTokens:        2000,

		HTTPAddr:    ":8080",
		JournalPath: "",
		Debug:       false,

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,

		Governance: GovernanceConfig{
			Enforce:          false,
			MaxTradeSizePct:  5.0,
			MaxVaRThreshold:  10000,
			MaxBetaThreshold: 1.5,
		},
	}
}

// DefaultConfig returns the built-in defaults overridden by .env and the process environment.
func DefaultConfig() *Config {
	cfg := newDefaultConfig()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()
	return cfg
}

// LoadFile overlays a YAML (or JSON) file on the defaults; the environment still wins.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := newDefaultConfig()
	// a price table in the file replaces the default sheet instead of merging into it
	cfg.PriceTable = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if cfg.PriceTable == nil {
		cfg.PriceTable = DefaultPriceTable()
	}

	_ = godotenv.Load()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}

	if val := os.Getenv("INITIAL_CASH"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.InitialCash = v
		}
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = strings.ToLower(val)
	}
	if val := os.Getenv("DEEP_THINK_LLM"); val != "" {
		c.DeepThinkLLM = val
	}
	if val := os.Getenv("QUICK_THINK_LLM"); val != "" {
		c.QuickThinkLLM = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("LLM_TIMEOUT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.LLMTimeoutSecs = v
		}
	}
	if val := os.Getenv("LLM_RATE_PER_MINUTE"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.LLMRatePerMinute = v
		}
	}

	if val := os.Getenv("GEMINI_API_KEY"); val != "" {
		c.GeminiAPIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}

	if val := os.Getenv("HTTP_ADDR"); val != "" {
		c.HTTPAddr = val
	}
	if val := os.Getenv("JOURNAL_PATH"); val != "" {
		c.JournalPath = val
	}

	if val := os.Getenv("QUANTHEDGE_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}

	if val := os.Getenv("GOVERNANCE_ENFORCE"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Governance.Enforce = enabled
		}
	}
}

func (c *Config) Validate() error {
	if c.InitialCash < 0 {
		return fmt.Errorf("initial_cash must be non-negative, got %v", c.InitialCash)
	}
	if len(c.PriceTable) == 0 {
		return fmt.Errorf("price_table must list at least one symbol")
	}
	for symbol, price := range c.PriceTable {
		if strings.TrimSpace(symbol) == "" {
			return fmt.Errorf("price_table contains an empty symbol")
		}
		if price <= 0 {
			return fmt.Errorf("price for %s must be positive, got %v", symbol, price)
		}
	}

	switch c.LLMProvider {
	case ProviderGemini, ProviderOpenAI, ProviderDeepSeek, ProviderSim:
	default:
		return fmt.Errorf("unknown llm_provider %q", c.LLMProvider)
	}

	if c.LLMTimeoutSecs < 0 {
		return fmt.Errorf("llm_timeout must be non-negative")
	}
	if c.Governance.MaxTradeSizePct < 0 || c.Governance.MaxVaRThreshold < 0 || c.Governance.MaxBetaThreshold < 0 {
		return fmt.Errorf("governance thresholds must be non-negative")
	}
	return nil
}

// APIKey returns the credential of the configured provider.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderDeepSeek:
		return c.DeepSeekAPIKey
	}
	return ""
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir}
	if c.JournalPath != "" {
		dirs = append(dirs, filepath.Dir(c.JournalPath))
	}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
