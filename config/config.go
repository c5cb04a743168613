package config

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Backend    BackendConfig    `yaml:"backend"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Logger     LoggerConfig     `yaml:"logger"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	Host         string `yaml:"host"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
}

// BackendConfig points at the upstream API that owns users, upload
// counting and image links.
type BackendConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
	Timeout int    `yaml:"timeout"` // in seconds
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloudName"`
	APIKey    string `yaml:"apiKey"`
	APISecret string `yaml:"apiSecret"`
	Folder    string `yaml:"folder"`
}

type AuthConfig struct {
	JWTSecret     string       `yaml:"jwtSecret"`
	SessionSecret string       `yaml:"sessionSecret"`
	SessionDays   int          `yaml:"sessionDays"` // sliding session window, in days
	Google        OAuth2Config `yaml:"google"`
	FrontendURL   string       `yaml:"frontendUrl"`
}

type OAuth2Config struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	RedirectURL  string `yaml:"redirectUrl"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	SSLMode      string `yaml:"sslmode"`
	MaxIdleConns int    `yaml:"maxIdleConns"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
	MaxLifetime  int    `yaml:"maxLifetime"` // in minutes
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"outputPath"`
}

var (
	config *Config
	once   sync.Once
)

// Load reads the configuration file and returns a Config struct
func Load(configPath string) (*Config, error) {
	once.Do(func() {
		config = &Config{}

		data, err := os.ReadFile(configPath)
		if err != nil {
			panic(err)
		}

		err = yaml.Unmarshal(data, config)
		if err != nil {
			panic(err)
		}

		// Override with environment variables if they exist
		if envPort := os.Getenv("SERVER_PORT"); envPort != "" {
			config.Server.Port = envPort
		}
		if backendURL := os.Getenv("BACKEND_API_URL"); backendURL != "" {
			config.Backend.BaseURL = backendURL
		}
		if backendKey := os.Getenv("BACKEND_API_KEY"); backendKey != "" {
			config.Backend.APIKey = backendKey
		}
		if cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME"); cloudName != "" {
			config.Cloudinary.CloudName = cloudName
		}
		if cloudKey := os.Getenv("CLOUDINARY_API_KEY"); cloudKey != "" {
			config.Cloudinary.APIKey = cloudKey
		}
		if cloudSecret := os.Getenv("CLOUDINARY_API_SECRET"); cloudSecret != "" {
			config.Cloudinary.APISecret = cloudSecret
		}
		if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" {
			config.Auth.Google.ClientID = clientID
		}
		if clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET"); clientSecret != "" {
			config.Auth.Google.ClientSecret = clientSecret
		}
		if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
			config.Auth.JWTSecret = jwtSecret
		}
		if sessionSecret := os.Getenv("SESSION_SECRET"); sessionSecret != "" {
			config.Auth.SessionSecret = sessionSecret
		}
		if frontendURL := os.Getenv("AUTH_FRONTEND_URL"); frontendURL != "" {
			config.Auth.FrontendURL = frontendURL
		}
		if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
			config.Database.Host = dbHost
		}
		if dbPort := os.Getenv("DB_PORT"); dbPort != "" {
			config.Database.Port = dbPort
		}
		if dbUser := os.Getenv("DB_USER"); dbUser != "" {
			config.Database.User = dbUser
		}
		if dbPass := os.Getenv("DB_PASSWORD"); dbPass != "" {
			config.Database.Password = dbPass
		}
		if dbName := os.Getenv("DB_NAME"); dbName != "" {
			config.Database.DBName = dbName
		}

		if config.Auth.SessionDays <= 0 {
			config.Auth.SessionDays = 30
		}
		if config.Cloudinary.Folder == "" {
			config.Cloudinary.Folder = "moco"
		}
		if config.Backend.Timeout <= 0 {
			config.Backend.Timeout = 30
		}
	})

	return config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	if config == nil {
		panic("Config not loaded")
	}
	return config
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return "postgresql://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}
