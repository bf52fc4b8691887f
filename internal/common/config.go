package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	PDF     PDFConfig
	OCR     OCRConfig
	LLM     LLMConfig
	Storage StorageConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string
	CORSOrigins string // comma-separated
	LogLevel    string
}

// PDFConfig holds rasterization and enhancement configuration
type PDFConfig struct {
	DPI         int
	MaxFileSize int64
	Contrast    float64 // multiplier, 1.0 = identity
	Sharpness   float64
	Brightness  float64
}

// OCRConfig holds OCR backend selection and credentials
type OCRConfig struct {
	Provider      string // "azure" | "tesseract"
	AzureEndpoint string
	AzureKey      string
	Tesseract     string // binary name or absolute path
	PSM           int
	OEM           int
}

// LLMConfig holds language-model configuration
type LLMConfig struct {
	APIKey                string
	Model                 string
	TemperatureExtraction float32
	TemperatureSummary    float32
	MaxRetries            int
	Timeout               time.Duration
}

// StorageConfig holds output file paths
type StorageConfig struct {
	CSVPath  string
	XLSXPath string // empty disables the mirror
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("ADDR", ":8000"),
			CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),
			LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		},
		PDF: PDFConfig{
			DPI:         getEnvAsInt("PDF_DPI", 300),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024),
			Contrast:    getEnvAsFloat64("IMAGE_CONTRAST_FACTOR", 2.0),
			Sharpness:   getEnvAsFloat64("IMAGE_SHARPNESS_FACTOR", 1.5),
			Brightness:  getEnvAsFloat64("IMAGE_BRIGHTNESS_FACTOR", 1.1),
		},
		OCR: OCRConfig{
			Provider:      getEnv("OCR_PROVIDER", "azure"),
			AzureEndpoint: getEnv("AZURE_CV_ENDPOINT", ""),
			AzureKey:      getEnv("AZURE_CV_KEY", ""),
			Tesseract:     getEnv("TESSERACT_PATH", "tesseract"),
			PSM:           getEnvAsInt("TESSERACT_PSM", 6),
			OEM:           getEnvAsInt("TESSERACT_OEM", 3),
		},
		LLM: LLMConfig{
			APIKey:                getEnv("OPENAI_API_KEY", ""),
			Model:                 getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			TemperatureExtraction: getEnvAsFloat32("OPENAI_TEMPERATURE_EXTRACTION", 0.1),
			TemperatureSummary:    getEnvAsFloat32("OPENAI_TEMPERATURE_SUMMARY", 0.3),
			MaxRetries:            getEnvAsInt("OPENAI_MAX_RETRIES", 3),
			Timeout:               getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Storage: StorageConfig{
			CSVPath:  getEnv("CSV_PATH", "Extracted Data.csv"),
			XLSXPath: getEnv("XLSX_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" || c.LLM.APIKey == "placeholder-key" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Storage.CSVPath == "" {
		return NewAppError("CONFIG_ERROR", "CSV_PATH is required", ErrInvalidInput)
	}
	if c.PDF.MaxFileSize < 1024*1024 {
		return NewAppError("CONFIG_ERROR", "MAX_FILE_SIZE below 1MB", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "ADDR is required", ErrInvalidInput)
	}
	return nil
}
