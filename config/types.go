package config

import "time"

type Config struct {
	Server   Server   `mapstructure:"server"`
	Backend  Backend  `mapstructure:"backend"`
	Session  Session  `mapstructure:"session"`
	Database Database `mapstructure:"database"`
	Log      Log      `mapstructure:"log"`
	Locale   string   `mapstructure:"locale"`
}

type Server struct {
	Addr string `mapstructure:"addr"`
}

type Backend struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Session struct {
	CookieName    string        `mapstructure:"cookie_name"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	Secure        bool          `mapstructure:"secure"`
}

type Database struct {
	Type      string    `mapstructure:"type"`
	Firestore Firestore `mapstructure:"firestore"`
	SQLite    SQLite    `mapstructure:"sqlite"`
}

type Firestore struct {
	ProjectID           string `mapstructure:"project_id"`
	CredentialsFile     string `mapstructure:"credentials_file"`
	SessionCollectionID string `mapstructure:"session_collection_id"`
}

type SQLite struct {
	ConnectionString string `mapstructure:"connection_string"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}
