package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret              string        `mapstructure:"jwt_secret"`
	AccessTokenTTL         time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL        time.Duration `mapstructure:"refresh_token_ttl"`
	LoginRateLimit         int           `mapstructure:"login_rate_limit"`          // 窗口内允许的登录请求数
	LoginRateLimitWindowSec int          `mapstructure:"login_rate_limit_window_s"` // 窗口时长（秒）
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PipelineConfig 审批-指标流水线配置
type PipelineConfig struct {
	// StandardWorkdayMinutes 标准工作日时长（分钟），利用率分母
	StandardWorkdayMinutes int `mapstructure:"standard_workday_minutes"`
	// DefaultStandardTimeMinutes 未知工序的兜底标准工时（分钟）
	DefaultStandardTimeMinutes int `mapstructure:"default_standard_time_minutes"`
	// EfficiencyAlertThreshold 效率低于此值（%）触发 warning 告警
	EfficiencyAlertThreshold float64 `mapstructure:"efficiency_alert_threshold"`
	// UtilizationAlertThreshold 利用率低于此值（%）触发 info 告警
	UtilizationAlertThreshold float64 `mapstructure:"utilization_alert_threshold"`
	// DueSoonDays 距截止日期不足该天数时工单展示状态为 due_soon
	DueSoonDays int `mapstructure:"due_soon_days"`
	// StrictActorBinding 为 true 时审批人无法核验直接拒绝，
	// 为 false 时回退到花名册中的首个主管（沿用旧系统的宽松策略）
	StrictActorBinding bool `mapstructure:"strict_actor_binding"`
	// DashboardCacheTTL 仪表盘汇总缓存时长（秒），0 关闭缓存
	DashboardCacheTTL int `mapstructure:"dashboard_cache_ttl"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "altamayyoz")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Riyadh")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_rate_limit_window_s", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("pipeline.standard_workday_minutes", 540)
	v.SetDefault("pipeline.default_standard_time_minutes", 30)
	v.SetDefault("pipeline.efficiency_alert_threshold", 80.0)
	v.SetDefault("pipeline.utilization_alert_threshold", 60.0)
	v.SetDefault("pipeline.due_soon_days", 3)
	v.SetDefault("pipeline.strict_actor_binding", false)
	v.SetDefault("pipeline.dashboard_cache_ttl", 30)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("TMYZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 关键配置项校验
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret 不能为空（可通过 TMYZ_AUTH_JWT_SECRET 设置）")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret 长度至少 32 字符")
	}
	if c.Pipeline.StandardWorkdayMinutes <= 0 {
		return fmt.Errorf("pipeline.standard_workday_minutes 必须为正数")
	}
	if c.Pipeline.DefaultStandardTimeMinutes <= 0 {
		return fmt.Errorf("pipeline.default_standard_time_minutes 必须为正数")
	}
	if c.Pipeline.DueSoonDays < 0 {
		return fmt.Errorf("pipeline.due_soon_days 不能为负数")
	}
	return nil
}
