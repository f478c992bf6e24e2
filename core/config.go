package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug        bool
		TestMode     bool
		Env          string
		AppName      string
		SecretKey    string
		Build        string
		RollbarToken string
		// MetricsSeed seeds the pseudo-random fallback values synthesized for
		// fields the LMS does not provide. Tests pin it for determinism.
		MetricsSeed int64

		Server ServerConfig
		LMS    LMSConfig
	}

	ServerConfig struct {
		Host                      string
		Addr                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	// LMSConfig points the gateway at a Moodle/IOMAD site.
	// WSToken is the static web-service token used on every data call;
	// Service is the service shortname exchanged at login/token.php.
	LMSConfig struct {
		BaseURL string
		WSToken string
		Service string
		Timeout time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "SomaHub")
	v.SetDefault("secretKey", "x2m$7kq)wrn&+hd0=ze!uape5(j!y)#*c9(#gh4t^$cewq2dnv")
	v.SetDefault("build", "dev")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("lmsBaseUrl", "http://localhost:8080")
	v.SetDefault("lmsWsToken", "")
	v.SetDefault("lmsService", "moodle_mobile_app")
	v.SetDefault("lmsTimeout", 150*time.Second)
	v.SetDefault("metricsSeed", time.Now().UnixNano())

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Env:          env,
		AppName:      v.GetString("appName"),
		SecretKey:    v.GetString("secretKey"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		MetricsSeed:  v.GetInt64("metricsSeed"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			Addr:                      v.GetString("serverAddr"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		LMS: LMSConfig{
			BaseURL: strings.TrimRight(v.GetString("lmsBaseUrl"), "/"),
			WSToken: v.GetString("lmsWsToken"),
			Service: v.GetString("lmsService"),
			Timeout: v.GetDuration("lmsTimeout"),
		},
	}
}
