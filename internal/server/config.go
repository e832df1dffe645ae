package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	EnvJWTSecret    = "FAMLINK_JWT_SECRET"
	EnvSMTPPassword = "FAMLINK_SMTP_PASSWORD"
)

// Duration is a time.Duration read from strings such as "168h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`

	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`

	Admin struct {
		Address string `toml:"address"`
	} `toml:"admin"`

	Family struct {
		Address string   `toml:"address"`
		Cert    string   `toml:"cert"`
		Key     string   `toml:"key"`
		Hosts   []string `toml:"hosts"`
	} `toml:"family"`

	Invitations struct {
		Expiry          Duration `toml:"expiry"`
		DispatchTimeout Duration `toml:"dispatchTimeout"`
		RatePerMinute   int      `toml:"ratePerMinute"`
		RateBurst       int      `toml:"rateBurst"`
	} `toml:"invitations"`

	Token struct {
		Issuer string   `toml:"issuer"`
		TTL    Duration `toml:"ttl"`
		Secret string   `toml:"-"`
	} `toml:"token"`

	SMTP struct {
		Host     string `toml:"host"`
		Port     int    `toml:"port"`
		Username string `toml:"username"`
		From     string `toml:"from"`
		AppURL   string `toml:"appURL"`
		Password string `toml:"-"`
	} `toml:"smtp"`
}

func DefaultConfig() Config {
	var c Config
	c.Log.Level = "info"
	c.Database.DSN = "file:famlink.db"
	c.Admin.Address = "127.0.0.1:7401"
	c.Family.Address = ":7400"
	c.Family.Hosts = []string{"localhost", "127.0.0.1"}
	c.Invitations.Expiry = Duration{7 * 24 * time.Hour}
	c.Invitations.DispatchTimeout = Duration{10 * time.Second}
	c.Invitations.RatePerMinute = 10
	c.Invitations.RateBurst = 5
	c.Token.Issuer = "famlink"
	c.Token.TTL = Duration{30 * 24 * time.Hour}
	c.SMTP.Port = 587
	return c
}

// LoadConfig reads path over the defaults and takes secrets from the
// environment. envFile, when it exists, is loaded into the environment first
// without overriding variables that are already set.
func LoadConfig(path, envFile string) (Config, error) {
	c := DefaultConfig()
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return c, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &c)
		if err != nil {
			return c, fmt.Errorf("failed to read config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return c, fmt.Errorf("failed to read config: unknown key %q", undecoded[0].String())
		}
	}
	c.Token.Secret = os.Getenv(EnvJWTSecret)
	c.SMTP.Password = os.Getenv(EnvSMTPPassword)
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Token.Secret == "" {
		return fmt.Errorf("invalid config: %s is not set", EnvJWTSecret)
	}
	if c.Database.DSN == "" {
		return errors.New("invalid config: database.dsn is empty")
	}
	if c.Invitations.Expiry.Duration < 0 {
		return errors.New("invalid config: invitations.expiry is negative")
	}
	if (c.Family.Cert == "") != (c.Family.Key == "") {
		return errors.New("invalid config: family.cert and family.key must be set together")
	}
	return nil
}

// SMTPEnabled reports whether invitation emails are sent over SMTP.
func (c Config) SMTPEnabled() bool {
	return c.SMTP.Host != ""
}
