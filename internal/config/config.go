package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

var (
	ErrUnknownBackend     = errors.New("backend de dados desconhecido")
	ErrEmptyDatasetPath   = errors.New("caminho do arquivo de dados não informado")
	ErrInvalidDelimiter   = errors.New("delimitador deve ter exatamente um caractere")
	ErrMissingAuthSecret  = errors.New("segredo de autenticação não informado")
	ErrMissingEditorLogin = errors.New("credenciais do editor não informadas")
	ErrInvalidIdleTimeout = errors.New("tempo máximo de inatividade da sessão deve ser positivo")
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Dataset        Dataset        `mapstructure:",squash"`
	Export         Export         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	SessionCleanup SessionCleanup `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// Dataset define de onde a tabela de vendas é carregada e para onde as edições são salvas
type Dataset struct {
	Backend   string `mapstructure:"dataset_backend"`
	Path      string `mapstructure:"dataset_path"`
	Delimiter string `mapstructure:"dataset_delimiter"`
}

type Export struct {
	FileName  string `mapstructure:"export_file_name"`
	SheetName string `mapstructure:"export_sheet_name"`
}

type Auth struct {
	Enabled            bool   `mapstructure:"auth_enabled"`
	Secret             string `mapstructure:"auth_secret"`
	EditorEmail        string `mapstructure:"auth_editor_email"`
	EditorPasswordHash string `mapstructure:"auth_editor_password_hash"`
}

type SessionCleanup struct {
	CronSchedule   string        `mapstructure:"session_cleanup_cron"`
	MaxIdleMinutes int           `mapstructure:"session_cleanup_max_idle_minutes"`
	Enabled        bool          `mapstructure:"session_cleanup_enabled"`
	MaxIdle        time.Duration `mapstructure:"-"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8501")

	viper.SetDefault("DATASET_BACKEND", BackendCSV)
	viper.SetDefault("DATASET_PATH", "equiv.csv")
	viper.SetDefault("DATASET_DELIMITER", ",")

	viper.SetDefault("EXPORT_FILE_NAME", "vendas_filtradas.xlsx")
	viper.SetDefault("EXPORT_SHEET_NAME", "Vendas")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("AUTH_EDITOR_EMAIL", "")
	viper.SetDefault("AUTH_EDITOR_PASSWORD_HASH", "")

	viper.SetDefault("SESSION_CLEANUP_CRON", "*/15 * * * *") // A cada 15 minutos
	viper.SetDefault("SESSION_CLEANUP_MAX_IDLE_MINUTES", 60) // Sessões paradas há mais de 1h
	viper.SetDefault("SESSION_CLEANUP_ENABLED", true)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Dataset.Backend = strings.ToLower(strings.TrimSpace(config.Dataset.Backend))
	config.SessionCleanup.MaxIdle = time.Duration(config.SessionCleanup.MaxIdleMinutes) * time.Minute

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica combinações de configuração que impediriam o serviço de funcionar
func (c *Config) Validate() error {
	switch c.Dataset.Backend {
	case BackendCSV:
		if strings.TrimSpace(c.Dataset.Path) == "" {
			return ErrEmptyDatasetPath
		}
		if c.Dataset.Delimiter != "" && len([]rune(c.Dataset.Delimiter)) != 1 {
			return fmt.Errorf("%w: %q", ErrInvalidDelimiter, c.Dataset.Delimiter)
		}
	case BackendPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Dataset.Backend)
	}

	if c.Auth.Enabled {
		if c.Auth.Secret == "" {
			return ErrMissingAuthSecret
		}
		if c.Auth.EditorEmail == "" || c.Auth.EditorPasswordHash == "" {
			return ErrMissingEditorLogin
		}
	}

	if c.SessionCleanup.Enabled && c.SessionCleanup.MaxIdleMinutes <= 0 {
		return ErrInvalidIdleTimeout
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
