package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"footycards/database"
)

// Config holds all application configuration
type Config struct {
	// Discord
	DiscordToken string
	GuildID      string // empty registers commands globally

	// Database
	DatabaseURL  string
	DatabaseName string

	// Football data provider
	FootballAPIURL        string
	FootballAPIKey        string
	FootballAPIHost       string
	FootballLeagues       []int
	FootballSeason        int
	FallbackRosterEnabled bool

	// Drops
	DropCooldown       time.Duration
	RarityWeightEpic   int
	RarityWeightRare   int
	RarityWeightCommon int
	PoolTTL            time.Duration
	PoolFallbackTTL    time.Duration
	PoolRefreshWait    time.Duration
	PoolFetchTimeout   time.Duration
	PoolWarmupSchedule string
	CollectionPageSize int

	// Trades
	TradeExpiry time.Duration

	// Event forwarding; empty disables NATS
	NATSServers string

	// Metrics
	MetricsExporter  string
	OTelOTLPEndpoint string

	LogLevel    string
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	p := &parser{}

	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		FootballAPIURL:        os.Getenv("FOOTBALL_API_URL"),
		FootballAPIKey:        os.Getenv("FOOTBALL_API_KEY"),
		FootballAPIHost:       os.Getenv("FOOTBALL_API_HOST"),
		FootballLeagues:       p.intList("FOOTBALL_LEAGUES", []int{39, 140, 135, 78, 61}),
		FootballSeason:        p.int("FOOTBALL_SEASON", 2024),
		FallbackRosterEnabled: p.bool("FALLBACK_ROSTER_ENABLED", true),

		DropCooldown:       p.duration("DROP_COOLDOWN", 5*time.Minute),
		RarityWeightEpic:   p.int("RARITY_WEIGHT_EPIC", 8),
		RarityWeightRare:   p.int("RARITY_WEIGHT_RARE", 27),
		RarityWeightCommon: p.int("RARITY_WEIGHT_COMMON", 65),
		PoolTTL:            p.duration("POOL_TTL", 6*time.Hour),
		PoolFallbackTTL:    p.duration("POOL_FALLBACK_TTL", 15*time.Minute),
		PoolRefreshWait:    p.duration("POOL_REFRESH_WAIT", 30*time.Second),
		PoolFetchTimeout:   p.duration("POOL_FETCH_TIMEOUT", 20*time.Second),
		PoolWarmupSchedule: getEnvWithDefault("POOL_WARMUP_SCHEDULE", "0 5 */6 * * *"),
		CollectionPageSize: p.int("COLLECTION_PAGE_SIZE", 12),

		TradeExpiry: p.duration("TRADE_EXPIRY", 5*time.Minute),

		NATSServers: os.Getenv("NATS_SERVERS"),

		MetricsExporter:  getEnvWithDefault("METRICS_EXPORTER", "none"),
		OTelOTLPEndpoint: getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := p.err(); err != nil {
		return nil, err
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	if config.RarityWeightEpic < 0 || config.RarityWeightRare < 0 || config.RarityWeightCommon < 0 ||
		config.RarityWeightEpic+config.RarityWeightRare+config.RarityWeightCommon == 0 {
		return nil, fmt.Errorf("rarity weights must be non-negative with a positive sum")
	}
	if config.DropCooldown < 0 || config.TradeExpiry <= 0 {
		return nil, fmt.Errorf("DROP_COOLDOWN must be >= 0 and TRADE_EXPIRY > 0")
	}
	if config.CollectionPageSize <= 0 {
		return nil, fmt.Errorf("COLLECTION_PAGE_SIZE must be positive")
	}

	return config, nil
}

// parser collects every malformed variable instead of stopping at the first
type parser struct {
	invalid []string
}

func (p *parser) fail(key, value string) {
	p.invalid = append(p.invalid, fmt.Sprintf("%s=%q", key, value))
}

func (p *parser) err() error {
	if len(p.invalid) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(p.invalid, ", "))
}

func (p *parser) int(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		p.fail(key, value)
		return defaultValue
	}
	return parsed
}

func (p *parser) bool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		p.fail(key, value)
		return defaultValue
	}
	return parsed
}

func (p *parser) duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		p.fail(key, value)
		return defaultValue
	}
	return parsed
}

func (p *parser) intList(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			p.fail(key, value)
			return defaultValue
		}
		out = append(out, id)
	}
	return out
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		DiscordToken:       "test-token",
		FootballLeagues:    []int{39},
		FootballSeason:     2024,
		DropCooldown:       5 * time.Minute,
		RarityWeightEpic:   8,
		RarityWeightRare:   27,
		RarityWeightCommon: 65,
		PoolTTL:            6 * time.Hour,
		PoolFallbackTTL:    15 * time.Minute,
		PoolRefreshWait:    30 * time.Second,
		PoolFetchTimeout:   20 * time.Second,
		PoolWarmupSchedule: "0 5 */6 * * *",
		CollectionPageSize: 12,
		TradeExpiry:        5 * time.Minute,
		MetricsExporter:    "none",
		LogLevel:           "info",
		Environment:        "test",
	}
}
