package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/klede-lab/waitlist/config"
	"github.com/klede-lab/waitlist/pkg/crypto"
	"github.com/klede-lab/waitlist/pkg/enum"
	"github.com/klede-lab/waitlist/pkg/logger"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

type dbDriver string

var (
	driverMemory   = enum.New(dbDriver("memory"))
	driverSqlite   = enum.New(dbDriver("sqlite"))
	driverMysql    = enum.New(dbDriver("mysql"))
	driverPostgres = enum.New(dbDriver("postgres"))
)

type emailTransport string

var (
	transportLog    = enum.New(emailTransport("log"))
	transportSMTP   = enum.New(emailTransport("smtp"))
	transportResend = enum.New(emailTransport("resend"))
)

func (s *srv) loadConfig() {
	// A missing .env file is fine, the environment is used as is.
	_ = godotenv.Load()

	s.ctx = xcontext.WithConfigs(s.ctx, config.Configs{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		Database: config.DatabaseConfigs{
			Driver: getEnv("DB_DRIVER", string(driverSqlite)),
			DSN:    getEnv("DB_DSN", "waitlist.db"),
		},
		ApiServer: config.ServerConfigs{
			Host:           getEnv("API_HOST", ""),
			Port:           getEnv("API_PORT", "8080"),
			AllowedOrigins: parseList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getSecretEnv("TOKEN_SECRET"),
			AccessToken: config.TokenConfigs{
				Name:       getEnv("ACCESS_TOKEN_NAME", "access_token"),
				Expiration: parseDuration(getEnv("ACCESS_TOKEN_EXPIRATION", "24h")),
			},
		},
		Session: config.SessionConfigs{
			Secret: getSecretEnv("SESSION_SECRET"),
			Name:   getEnv("SESSION_NAME", "waitlist-session"),
		},
		Admin: config.AdminConfigs{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin"),
		},
		Email: config.EmailConfigs{
			Transport:   getEnv("EMAIL_TRANSPORT", string(transportLog)),
			From:        getEnv("EMAIL_FROM", ""),
			Concurrency: parseInt(getEnv("EMAIL_CONCURRENCY", "10")),
			SMTP: config.SMTPConfigs{
				Host:     getEnv("EMAIL_HOST", "smtp.gmail.com"),
				Port:     getEnv("EMAIL_PORT", "587"),
				User:     getEnv("EMAIL_USER", ""),
				Password: getEnv("EMAIL_PASS", ""),
			},
			Resend: config.ResendConfigs{
				Endpoint: getEnv("RESEND_ENDPOINT", ""),
				APIKey:   getEnv("RESEND_API_KEY", ""),
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Kafka: config.KafkaConfigs{
			Addrs: parseList(getEnv("KAFKA_ADDRS", "")),
		},
		Catalog: config.CatalogConfigs{
			File: getEnv("CATALOG_FILE", ""),
		},
	})
}

func (s *srv) loadLogger() {
	level := logger.ParseLevel(xcontext.Configs(s.ctx).LogLevel)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

// getSecretEnv falls back to a random secret, tokens and sessions are then
// invalidated on every restart.
func getSecretEnv(key string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	secret, err := crypto.GenerateRandomString()
	if err != nil {
		panic(err)
	}

	return secret
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}

	return duration
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}

	return i
}

func parseList(s string) []string {
	result := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}

	return result
}
