package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Elastic   ElasticConfig
	AI        AIConfig
	Agent     AgentConfig
	Hotel     HotelConfig
	Weather   WeatherConfig
	Geocode   GeocodeConfig
	WebSearch WebSearchConfig
	Policy    PolicyConfig
	Store     StoreConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Tracing   TracingConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string
	Environment string
	Version     string
	Debug       bool
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string
	Port         int
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// ElasticConfig Elasticsearch配置
type ElasticConfig struct {
	Host     string
	Username string
	Password string
}

// AIConfig AI配置
type AIConfig struct {
	Provider  string
	OpenAI    OpenAIConfig
	Alibaba   AlibabaConfig
	DeepSeek  DeepSeekConfig
	Embedding EmbeddingConfig
}

// OpenAIConfig OpenAI配置
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout int
}

// AlibabaConfig 阿里云配置
type AlibabaConfig struct {
	AccessKeySecret string
	Model           string
	Timeout         int
}

// DeepSeekConfig DeepSeek配置
type DeepSeekConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout int
}

// EmbeddingConfig Embedding配置
type EmbeddingConfig struct {
	Provider   string
	Model      string
	APIKey     string
	Timeout    int
	Dimensions int
}

// AgentConfig 行程规划 Agent 配置
type AgentConfig struct {
	MaxIterations     int
	Temperature       float64
	PolicyTemperature float64
	ToolTimeout       int
	ToolConcurrency   int
	DefaultUserID     string
	DefaultUserName   string
	WikiLanguage      string
}

// HotelConfig Xotelo 酒店价格接口配置
type HotelConfig struct {
	XoteloAPIKey string
	XoteloHost   string
	BaseURL      string
	Timeout      int
	CacheTTL     int
	// EnrichLinks 是否通过网络搜索补充预订链接
	EnrichLinks  bool
	MaxLinkRooms int
}

// WeatherConfig WeatherAPI 配置
type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Timeout int
}

// GeocodeConfig 地理编码配置（Nominatim 兼容）
type GeocodeConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   int
}

// WebSearchConfig 网络搜索配置
type WebSearchConfig struct {
	Enabled    bool
	MaxResults int
	Timeout    int
}

// PolicyConfig 酒店政策检索配置
type PolicyConfig struct {
	Index string
	TopK  int
}

// StoreConfig JSON 文件存储配置
type StoreConfig struct {
	ChatPath    string
	BookingPath string
}

// AuthConfig JWKS 认证配置
type AuthConfig struct {
	JWKSURL  string
	Issuer   string
	Audience string
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string
	MaxAge       int
}

// TracingConfig OpenTelemetry 配置
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// Load 加载配置
// 文件不存在时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	// 环境变量
	v.SetEnvPrefix("TRAVEL_PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetAddr 获取服务器地址
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAddr 获取 Redis 地址
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "travel-planner")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", true)

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 300)

	// Database
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "travel_planner")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.maxLifetime", 300)

	// Redis
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Elastic
	v.SetDefault("elastic.host", "http://localhost:9200")
	v.SetDefault("elastic.username", "")
	v.SetDefault("elastic.password", "")

	// AI
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.openai.apiKey", "")
	v.SetDefault("ai.openai.baseUrl", "https://api.openai.com/v1")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.timeout", 30)
	v.SetDefault("ai.alibaba.accessKeySecret", "")
	v.SetDefault("ai.alibaba.model", "qwen-plus")
	v.SetDefault("ai.alibaba.timeout", 30)
	v.SetDefault("ai.deepseek.apiKey", "")
	v.SetDefault("ai.deepseek.baseUrl", "https://api.deepseek.com/v1")
	v.SetDefault("ai.deepseek.model", "deepseek-chat")
	v.SetDefault("ai.deepseek.timeout", 30)
	v.SetDefault("ai.embedding.provider", "dashscope")
	v.SetDefault("ai.embedding.model", "text-embedding-v3")
	v.SetDefault("ai.embedding.apiKey", "")
	v.SetDefault("ai.embedding.timeout", 30)
	v.SetDefault("ai.embedding.dimensions", 1024)

	// Agent
	v.SetDefault("agent.maxIterations", 50)
	v.SetDefault("agent.temperature", 0.3)
	v.SetDefault("agent.policyTemperature", 0.2)
	v.SetDefault("agent.toolTimeout", 30)
	v.SetDefault("agent.toolConcurrency", 1)
	v.SetDefault("agent.defaultUserId", "guest")
	v.SetDefault("agent.defaultUserName", "John Smith")
	v.SetDefault("agent.wikiLanguage", "en")

	// Hotel
	v.SetDefault("hotel.xoteloApiKey", "")
	v.SetDefault("hotel.xoteloHost", "xotelo-hotel-prices.p.rapidapi.com")
	v.SetDefault("hotel.baseUrl", "https://xotelo-hotel-prices.p.rapidapi.com/api")
	v.SetDefault("hotel.timeout", 30)
	v.SetDefault("hotel.cacheTtl", 86400)
	v.SetDefault("hotel.enrichLinks", true)
	v.SetDefault("hotel.maxLinkRooms", 5)

	// Weather
	v.SetDefault("weather.apiKey", "")
	v.SetDefault("weather.baseUrl", "http://api.weatherapi.com/v1")
	v.SetDefault("weather.timeout", 30)

	// Geocode
	v.SetDefault("geocode.baseUrl", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.userAgent", "travel-planner/1.0")
	v.SetDefault("geocode.timeout", 30)

	// WebSearch
	v.SetDefault("webSearch.enabled", true)
	v.SetDefault("webSearch.maxResults", 5)
	v.SetDefault("webSearch.timeout", 30)

	// Policy
	v.SetDefault("policy.index", "hotel_policies")
	v.SetDefault("policy.topK", 5)

	// Store
	v.SetDefault("store.chatPath", "./data/chat_sessions.json")
	v.SetDefault("store.bookingPath", "./data/bookings.json")

	// Auth
	v.SetDefault("auth.jwksUrl", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")

	// CORS
	v.SetDefault("cors.allowOrigins", []string{"http://localhost:3001"})
	v.SetDefault("cors.maxAge", 84900)

	// Tracing
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sampleRatio", 0.1)
}
