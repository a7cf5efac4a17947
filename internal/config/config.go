// config предоставляет структуру конфигурации news-analyzer
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

// Драйверы хранилища.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Бэкенды тональности (дублируют classify, чтобы config не зависел от него).
const (
	SentimentLexicon  = "lexicon"
	SentimentAdvanced = "advanced"
)

// Config — корневая конфигурация.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTP       HTTPConfig       `yaml:"http"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	DB         DBConfig         `yaml:"db"`
	Fetcher    FetcherConfig    `yaml:"fetcher"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Alerts     AlertsConfig     `yaml:"alerts"`
	Limits     LimitsConfig     `yaml:"limits"`
	Reports    ReportsConfig    `yaml:"reports"`
	Timeouts   TimeoutConfig    `yaml:"timeouts"`
}

// TimeoutConfig — таймауты HTTP-запросов дашборда и остановки.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service"  env:"SERVICE_TIMEOUT"  env-default:"5s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// HTTPConfig — сетевые настройки дашборда.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"127.0.0.1"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8501"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// MetricsConfig — HTTP-эндпойнт /metrics, /livez, /healthz для цикла опроса.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"false"`
	Host    string `yaml:"host"    env:"METRICS_HOST"    env-default:"127.0.0.1"`
	Port    string `yaml:"port"    env:"METRICS_PORT"    env-default:"9464"`
}

// Addr возвращает адрес в формате host:port.
func (m MetricsConfig) Addr() string {
	return net.JoinHostPort(m.Host, m.Port)
}

// DBConfig — настройки хранилища.
type DBConfig struct {
	// Driver — sqlite (файловое хранилище по умолчанию) или postgres.
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	// Path — путь к файлу SQLite; пустой -> $XDG_DATA_HOME/news-analyzer/news.db.
	Path string `yaml:"path" env:"DB_PATH"`
	// URL — DSN PostgreSQL, обязателен при driver=postgres.
	URL string `yaml:"url" env:"DATABASE_URL"`
}

// SQLitePath возвращает путь к файлу базы.
func (d DBConfig) SQLitePath() string {
	if d.Path != "" {
		return d.Path
	}

	return DefaultDBPath()
}

// DefaultDBPath — путь к базе по умолчанию в XDG data home.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, "news-analyzer", "news.db")
}

// Source — именованная RSS-лента.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Sources — упорядоченный список лент (имя -> URL).
// Из ENV задаётся как RSS_SOURCES="Name=URL,Name2=URL2".
type Sources []Source

// SetValue реализует cleanenv.Setter для разбора RSS_SOURCES.
func (s *Sources) SetValue(value string) error {
	var out Sources
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, url, ok := strings.Cut(part, "=")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			return fmt.Errorf("invalid source %q: want Name=URL", part)
		}

		out = append(out, Source{Name: name, URL: url})
	}

	*s = out

	return nil
}

// DefaultSources — исходный набор лент (EN + TR).
func DefaultSources() Sources {
	return Sources{
		{Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml"},
		{Name: "TRT Haber Manşet", URL: "https://www.trthaber.com/manset_articles.rss"},
		{Name: "TRT Haber Dünya", URL: "https://www.trthaber.com/dunya_articles.rss"},
		{Name: "AA Teyit Hattı - Tüm", URL: "https://www.aa.com.tr/tr/teyithatti/rss/news?cat=0"},
		{Name: "DW Türkçe", URL: "https://rss.dw.com/rdf/rss-tur-all"},
	}
}

// FetcherConfig — параметры периодического опроса RSS.
type FetcherConfig struct {
	Sources Sources `yaml:"sources" env:"RSS_SOURCES"`
	// Interval — пауза между циклами опроса.
	Interval time.Duration `yaml:"interval" env:"POLL_INTERVAL" env-default:"60s"`
	// Timeout — ограничение на загрузку одной ленты.
	Timeout time.Duration `yaml:"timeout" env:"FETCH_TIMEOUT" env-default:"15s"`
	// MaxConcurrent — сколько лент загружается параллельно.
	MaxConcurrent int    `yaml:"max_concurrent" env:"FETCH_MAX_CONCURRENT" env-default:"6"`
	UserAgent     string `yaml:"user_agent"     env:"FETCH_USER_AGENT"     env-default:"news-analyzer/1.0"`
}

// ClassifierConfig — выбор бэкенда тональности.
type ClassifierConfig struct {
	SentimentBackend string `yaml:"sentiment_backend" env:"SENTIMENT_BACKEND" env-default:"lexicon"`
}

// AlertsConfig — флаги доставки алертов; по умолчанию всё выключено.
type AlertsConfig struct {
	EnableDesktop bool           `yaml:"enable_desktop_alerts" env:"ENABLE_DESKTOP_ALERTS" env-default:"false"`
	EnableChat    bool           `yaml:"enable_chat_alerts"    env:"ENABLE_CHAT_ALERTS"    env-default:"false"`
	Telegram      TelegramConfig `yaml:"telegram"`
	Kafka         KafkaConfig    `yaml:"kafka"`
	// SendTimeout — предел одной отправки алерта в любой канал.
	SendTimeout time.Duration `yaml:"send_timeout" env:"ALERT_SEND_TIMEOUT" env-default:"5s"`
}

// TelegramConfig — чат-вебхук (Telegram Bot API sendMessage).
type TelegramConfig struct {
	BotToken string        `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID   string        `yaml:"chat_id"   env:"TELEGRAM_CHAT_ID"`
	APIURL   string        `yaml:"api_url"   env:"TELEGRAM_API_URL"   env-default:"https://api.telegram.org"`
	Timeout  time.Duration `yaml:"timeout"   env:"TELEGRAM_TIMEOUT"   env-default:"5s"`
	// PerMinute — ограничение частоты отправки сообщений.
	PerMinute int `yaml:"per_minute" env:"TELEGRAM_PER_MINUTE" env-default:"20"`
}

// KafkaConfig — публикация алертов в топик Kafka.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ALERTS_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"        env-separator:","`
	Topic   string   `yaml:"topic"   env:"KAFKA_ALERTS_TOPIC"   env-default:"news-alerts"`
}

// LimitsConfig — лимиты выдачи слоя запросов.
type LimitsConfig struct {
	// Применяется при запросе с limit<=0.
	Default int `yaml:"default" env:"DEFAULT_LIMIT" env-default:"300"`
	// Верхняя граница для limit.
	Max int `yaml:"max" env:"MAX_LIMIT" env-default:"1000"`
}

// ReportsConfig — параметры консольных отчётов.
type ReportsConfig struct {
	MostNegative    int    `yaml:"most_negative"    env:"REPORT_MOST_NEGATIVE"    env-default:"10"`
	Recent          int    `yaml:"recent"           env:"REPORT_RECENT"           env-default:"20"`
	DefaultCategory string `yaml:"default_category" env:"REPORT_DEFAULT_CATEGORY" env-default:"conflict"`
	DefaultHours    int    `yaml:"default_hours"    env:"REPORT_DEFAULT_HOURS"    env-default:"24"`
	ExportFile      string `yaml:"export_file"      env:"REPORT_EXPORT_FILE"      env-default:"news_export.csv"`
	// ScanLimit — сколько строк (по свежести) просматривает отчёт перед сортировкой по тональности.
	ScanLimit int `yaml:"scan_limit" env:"REPORT_SCAN_LIMIT" env-default:"100000"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	finish := func(c *Config) (*Config, error) {
		c.applyDefaults()
		if err := c.validate(); err != nil {
			return nil, err
		}
		return c, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}
		return finish(c)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}
		return finish(c)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
		return finish(&cfg)
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return finish(&cfg)
}

// applyDefaults заполняет то, что нельзя выразить тегом env-default.
func (c *Config) applyDefaults() {
	if len(c.Fetcher.Sources) == 0 {
		c.Fetcher.Sources = DefaultSources()
	}
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	c.Classifier.SentimentBackend = strings.ToLower(strings.TrimSpace(c.Classifier.SentimentBackend))
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("db.url is required for driver %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("db.driver must be %q or %q", DriverSQLite, DriverPostgres)
	}

	seen := make(map[string]struct{}, len(c.Fetcher.Sources))
	for _, s := range c.Fetcher.Sources {
		if s.Name == "" || s.URL == "" {
			return fmt.Errorf("fetcher.sources: name and url are required")
		}
		if _, ok := seen[s.Name]; ok {
			return fmt.Errorf("fetcher.sources: duplicate source name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}

	if c.Fetcher.Interval <= 0 {
		return fmt.Errorf("fetcher.interval must be > 0")
	}
	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be > 0")
	}
	if c.Fetcher.MaxConcurrent <= 0 {
		return fmt.Errorf("fetcher.max_concurrent must be > 0")
	}

	switch c.Classifier.SentimentBackend {
	case SentimentLexicon, SentimentAdvanced:
	default:
		return fmt.Errorf("classifier.sentiment_backend must be %q or %q", SentimentLexicon, SentimentAdvanced)
	}

	if c.Alerts.EnableChat && (c.Alerts.Telegram.BotToken == "" || c.Alerts.Telegram.ChatID == "") {
		return fmt.Errorf("alerts.telegram.bot_token and chat_id are required when chat alerts are enabled")
	}
	if c.Alerts.SendTimeout <= 0 {
		return fmt.Errorf("alerts.send_timeout must be > 0")
	}
	if c.Alerts.Kafka.Enabled && len(c.Alerts.Kafka.Brokers) == 0 {
		return fmt.Errorf("alerts.kafka.brokers is required when kafka alerts are enabled")
	}

	if c.Limits.Default <= 0 {
		return fmt.Errorf("limits.default must be > 0")
	}
	if c.Limits.Max <= 0 {
		return fmt.Errorf("limits.max must be > 0")
	}
	if c.Limits.Default > c.Limits.Max {
		return fmt.Errorf("limits.default must be <= limits.max")
	}

	if c.Reports.MostNegative <= 0 || c.Reports.Recent <= 0 || c.Reports.ScanLimit <= 0 {
		return fmt.Errorf("reports limits must be > 0")
	}
	return nil
}
