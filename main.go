package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wotd-in/go-server/internal/auth"
	"github.com/wotd-in/go-server/internal/config"
	"github.com/wotd-in/go-server/internal/daily"
	"github.com/wotd-in/go-server/internal/db"
	"github.com/wotd-in/go-server/internal/dictionary"
	"github.com/wotd-in/go-server/internal/forms"
	"github.com/wotd-in/go-server/internal/httpserver"
	"github.com/wotd-in/go-server/internal/prefs"
	"github.com/wotd-in/go-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var (
		wordStore  words.Store
		formsStore *forms.Store
		prefsStore *prefs.Store
		dict       *dictionary.Client
		authSvc    auth.Service
	)

	if cfg.Configured() {
		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		defer conn.Close()
		if err := db.Migrate(conn); err != nil {
			log.Fatal().Err(err).Msg("apply migrations")
		}
		wordStore = words.NewSQLStore(conn)
		formsStore = forms.NewStore(conn)
		prefsStore = prefs.NewStore(conn)
		dict = dictionary.NewClient(conn, cfg.DictionaryAPIURL)
		authSvc = auth.NewSQLService(conn, cfg.JWTSecret, cfg.JWTExpiresDays)
	} else {
		for _, problem := range cfg.Validate() {
			log.Warn().Msg(problem)
		}
		log.Warn().Msg("backing service not configured - running in demo mode")
		wordStore = words.NewDemoStore(time.Now())
		dict = dictionary.NewClient(nil, cfg.DictionaryAPIURL)
		authSvc = auth.NewMockService()
	}

	bridge := auth.NewBridge()
	defer bridge.Close()

	// Log session changes for the lifetime of the process.
	events, unsubscribe := bridge.Subscribe()
	defer unsubscribe()
	go func() {
		for e := range events {
			if e.Session != nil {
				log.Info().Str("event", string(e.Type)).Str("email", e.Session.Email).Msg("auth state changed")
			} else {
				log.Info().Str("event", string(e.Type)).Msg("auth state changed")
			}
		}
	}()

	srv := httpserver.New(cfg, wordStore, formsStore, prefsStore, dict, authSvc, bridge)
	srv.ReloadDaily()

	sched := daily.NewScheduler(srv.ReloadDaily)
	sched.Start()
	defer sched.Stop()

	httpSrv := &http.Server{Addr: ":" + cfg.Port, Handler: srv.Router()}
	go func() {
		log.Info().Str("port", cfg.Port).Bool("demo", !cfg.Configured()).Msg("starting wotd server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
}
