package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	APITimeout    time.Duration `yaml:"timeout"`
	AdminPassword string        `yaml:"admin_password"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenDuration time.Duration `yaml:"token_duration"`

	// Storage backend selection, fixed at startup.
	UseSupabase  bool           `yaml:"use_supabase"`
	DatabasePath string         `yaml:"database_path"`
	UploadDir    string         `yaml:"upload_dir"`
	Supabase     SupabaseConfig `yaml:"supabase"`

	Community CommunityConfig `yaml:"community"`
	Engine    EngineConfig    `yaml:"engine"`
	Ollama    OllamaConfig    `yaml:"ollama"`
}

// SupabaseConfig holds the remote backend connection parameters. Key is a
// service-role key; the schema itself is managed in Supabase.
type SupabaseConfig struct {
	URL          string        `yaml:"url"`
	Key          string        `yaml:"key"`
	Bucket       string        `yaml:"bucket"`
	SignedURLTTL time.Duration `yaml:"signed_url_ttl"`
}

// CommunityConfig parameterizes the two fixed micro-quests.
type CommunityConfig struct {
	TelegramLink string `yaml:"telegram_link"`
	XHandle      string `yaml:"x_handle"`
}

// EngineConfig configures the generative quest engine.
type EngineConfig struct {
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("SPRINT_ADDR", ":8080"),
		APITimeout:    15 * time.Second,
		AdminPassword: getEnv("SPRINT_ADMIN_PASSWORD", ""),
		JWTSecret:     getEnv("SPRINT_JWT_SECRET", "supersecretkey"),
		TokenDuration: 1 * time.Hour,
		UseSupabase:   envBool("SPRINT_USE_SUPABASE", false),
		DatabasePath:  getEnv("SPRINT_DATABASE_PATH", "sprint.db"),
		UploadDir:     getEnv("SPRINT_UPLOAD_DIR", "uploads"),
		Supabase: SupabaseConfig{
			URL:          getEnv("SUPABASE_URL", ""),
			Key:          getEnv("SUPABASE_SERVICE_KEY", ""),
			Bucket:       getEnv("SUPABASE_BUCKET", "proofs"),
			SignedURLTTL: 1 * time.Hour,
		},
		Community: CommunityConfig{
			TelegramLink: getEnv("SPRINT_TELEGRAM_LINK", "https://t.me/+communityforge"),
			XHandle:      getEnv("SPRINT_X_HANDLE", "@communityforge"),
		},
		Engine: EngineConfig{
			Model:   getEnv("SPRINT_QUEST_MODEL", "llama3.2"),
			Timeout: 20 * time.Second,
		},
		Ollama: OllamaConfig{
			BaseURL:                 getEnv("OLLAMA_BASE_URL", ""),
			Timeout:                 10 * time.Second,
			Retries:                 2,
			Backoff:                 500 * time.Millisecond,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.UseSupabase && (cfg.Supabase.URL == "" || cfg.Supabase.Key == "") {
		return nil, fmt.Errorf("supabase backend selected but url or key missing")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
