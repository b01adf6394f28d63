package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	Debug    bool
	TestMode bool
	AppName  string
	WorkDir  string

	// school API
	APIBaseURL        string
	APIToken          string
	SchoolID          int
	RequestTimeout    time.Duration // 0: no timeout
	CompensateOrphans bool

	// services
	RollbarToken     string
	SendgridApiKey   string
	defaultFromEmail string
	ContactEmail     string

	// stub API
	StubAddress string
	SecretKey   string
}

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: "noreply@localhost"}
	}
	return *addr
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Darasa")
	conf.SetDefault("apiBaseURL", "http://localhost:8080")
	conf.SetDefault("apiToken", "")
	conf.SetDefault("schoolID", 0)
	conf.SetDefault("requestTimeout", 30*time.Second)
	conf.SetDefault("compensateOrphans", true)
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("defaultFromEmail", "Darasa <noreply@localhost>")
	conf.SetDefault("contactEmail", "contact@localhost")
	conf.SetDefault("stubAddress", ":8080")
	conf.SetDefault("secretKey", "t6f$wq9)4ol!k2+v*bz1=hy&e0rx7(m#u3d^n8c5s@a_g-pj")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	workDir := Getwd()
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:               env,
		Debug:             conf.GetBool("debug"),
		TestMode:          conf.GetBool("testMode"),
		AppName:           conf.GetString("appName"),
		WorkDir:           workDir,
		APIBaseURL:        strings.TrimRight(conf.GetString("apiBaseURL"), "/"),
		APIToken:          conf.GetString("apiToken"),
		SchoolID:          conf.GetInt("schoolID"),
		RequestTimeout:    conf.GetDuration("requestTimeout"),
		CompensateOrphans: conf.GetBool("compensateOrphans"),
		RollbarToken:      conf.GetString("rollbarToken"),
		SendgridApiKey:    conf.GetString("sendgridApiKey"),
		defaultFromEmail:  conf.GetString("defaultFromEmail"),
		ContactEmail:      conf.GetString("contactEmail"),
		StubAddress:       conf.GetString("stubAddress"),
		SecretKey:         conf.GetString("secretKey"),
	}
}
