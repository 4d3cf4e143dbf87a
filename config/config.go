package config

import (
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Session   SessionConfigs
	Admin     AdminConfigs
	Email     EmailConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Catalog   CatalogConfigs
}

type DatabaseConfigs struct {
	// Driver is one of memory, sqlite, mysql or postgres.
	Driver string
	DSN    string
}

type ServerConfigs struct {
	Host           string
	Port           string
	AllowedOrigins []string
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type AdminConfigs struct {
	Username string
	Password string
}

type EmailConfigs struct {
	// Transport is one of log, smtp or resend.
	Transport   string
	From        string
	Concurrency int

	SMTP   SMTPConfigs
	Resend ResendConfigs
}

type SMTPConfigs struct {
	Host     string
	Port     string
	User     string
	Password string
}

type ResendConfigs struct {
	Endpoint string
	APIKey   string
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addrs []string
}

type CatalogConfigs struct {
	// File overrides the embedded catalog when it is not empty.
	File string
}
