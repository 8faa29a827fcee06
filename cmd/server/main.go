package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/papan-digital/minbar/internal/db"
	"github.com/papan-digital/minbar/internal/http/middleware"
	"github.com/papan-digital/minbar/internal/prayertimes"
	"github.com/papan-digital/minbar/internal/redis"
	"github.com/papan-digital/minbar/internal/scheduling"
)

const expirySweepInterval = 5 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment")
	}

	env := LoadEnvironment()

	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)

	if env.MQTTBrokerURL != "" {
		middleware.SetBrokerURL(env.MQTTBrokerURL)
		if err := middleware.InitMQTT("minbar-server"); err != nil {
			log.Error().Err(err).Msg("mqtt init failed, display refresh pushes disabled")
		}
	}

	store := db.NewStore(nil)
	storageSystem := InitStorage(env)
	engine := scheduling.NewEngine(store, prayertimes.NewClient())

	go runExpirySweep(engine)

	r := gin.Default()
	RegisterRoutes(r, env, store, engine, storageSystem)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// runExpirySweep periodically moves active content past its valid_until to expired.
func runExpirySweep(engine *scheduling.Engine) {
	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		n, err := engine.ExpireDueContent(now.UTC())
		if err != nil {
			log.Error().Err(err).Msg("expiry sweep failed")
			continue
		}
		if n > 0 {
			log.Info().Int("expired", n).Msg("expiry sweep")
		}
	}
}
