package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cfoia/backend/internal/dto"
)

type Config struct {
	ProjectID           string
	LogLevel            string
	PlaidClientID       string
	PlaidSecret         string
	PlaidEnvironment    dto.PlaidEnvironment
	WhatsAppAPIURL      string
	WhatsAppPhoneID     string
	WhatsAppAccessToken string
	WhatsAppVerifyToken string
	LLMProvider         string
	LLMModel            string
	LLMAPIKey           string
	LLMAPIURL           string
	LLMTimeout          time.Duration
	JobToken            string
	PendingActionTTL    time.Duration
}

func New() *Config {
	return &Config{
		ProjectID:           os.Getenv("PROJECTID"),
		LogLevel:            os.Getenv("LOGLEVEL"),
		PlaidClientID:       os.Getenv("PLAIDCLIENTID"),
		PlaidSecret:         os.Getenv("PLAIDSECRET"),
		PlaidEnvironment:    getPlaidEnvironment(os.Getenv("PLAIDENVIRONMENT")),
		WhatsAppAPIURL:      getDefault("WHATSAPP_API_URL", "https://graph.facebook.com/v20.0"),
		WhatsAppPhoneID:     os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		WhatsAppAccessToken: os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppVerifyToken: os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		LLMProvider:         getDefault("LLM_PROVIDER", "openai"),
		LLMModel:            getDefault("LLM_MODEL", "gpt-4o-mini"),
		LLMAPIKey:           os.Getenv("LLM_API_KEY"),
		LLMAPIURL:           os.Getenv("LLM_API_URL"),
		LLMTimeout:          getDurationMS("LLM_TIMEOUT_MS", 5000),
		JobToken:            os.Getenv("JOB_TOKEN"),
		PendingActionTTL:    getDurationMS("PENDING_ACTION_TTL_MS", 10*60*1000),
	}
}

func getDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationMS(key string, fallback int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Millisecond
	}
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return time.Duration(fallback) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

func getPlaidEnvironment(env string) dto.PlaidEnvironment {
	switch env {
	case "sandbox":
		return dto.PlaidSandbox
	case "development":
		return dto.PlaidDevelopment
	default: // "production"
		return dto.PlaidProduction
	}
}
