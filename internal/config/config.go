package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
		Locale   string // тег языка для сортировки каталога
	} `mapstructure:"app"`

	Telegram struct {
		Token          string
		AdminChatID    int64   `mapstructure:"admin_chat_id"`
		AllowedChatIDs []int64 `mapstructure:"allowed_chat_ids"`
		TimeoutSec     int     `mapstructure:"timeout_sec"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr      string
		PublicURL string `mapstructure:"public_url"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN        string
		Migrations string
	} `mapstructure:"postgres"`

	Storage struct {
		Driver string
	} `mapstructure:"storage"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Inventory struct {
		PageSize int `mapstructure:"page_size"`
	} `mapstructure:"inventory"`
}

// setDefaults также делает ключи известными viper: без этого AutomaticEnv
// не подхватит переменную для ключа, которого нет в файле.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Europe/Moscow")
	v.SetDefault("app.locale", "ru")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_chat_id", 0)
	v.SetDefault("telegram.timeout_sec", 30)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.public_url", "")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.migrations", "migrations")
	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("inventory.page_size", 25)
}

// Load читает YAML-конфиг; переменные окружения APP_* (в том числе из .env)
// перекрывают значения из файла: APP_POSTGRES_DSN → postgres.dsn.
func Load(path string) (Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required for the postgres storage driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Inventory.PageSize <= 0 {
		return errors.New("inventory.page_size must be positive")
	}
	return nil
}

// ChatAllowed: пустой список разрешает всех.
func (c Config) ChatAllowed(chatID int64) bool {
	if len(c.Telegram.AllowedChatIDs) == 0 || chatID == c.Telegram.AdminChatID {
		return true
	}
	for _, id := range c.Telegram.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
