package main

import (
	"flag"
	"net"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/campuscms/campuscms/internal/common/logtrace"
	"github.com/campuscms/campuscms/internal/templatesrv/catalog"
	"github.com/campuscms/campuscms/internal/templatesrv/config"
	"github.com/campuscms/campuscms/internal/templatesrv/db/dbmanager"
	"github.com/campuscms/campuscms/internal/templatesrv/db/postgresql"
	"github.com/campuscms/campuscms/internal/templatesrv/resolver"
	"github.com/campuscms/campuscms/internal/templatesrv/server"
	"github.com/campuscms/campuscms/internal/templatesrv/store"
)

func main() {
	configFile := flag.String("config", "templatesrv.conf", "path to the configuration file")
	flag.Parse()

	logtrace.InitLogger()

	if err := config.LoadConfig(*configFile); err != nil {
		log.Fatal().Err(err).Str("config", *configFile).Msg("failed to load configuration")
	}
	cfg := config.Config()

	pool, err := dbmanager.NewPostgresPool(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to datastore")
	}
	defer pool.Close()

	pgStore := postgresql.New(pool)

	templateStore := store.New(catalog.Definitions, cfg.Cache.GetTTLOrDefault())
	rsv := resolver.New(templateStore)

	srv := server.New(cfg, rsv, pgStore, pool)

	addr := net.JoinHostPort(cfg.ServerHostName, cfg.ServerPort)
	log.Info().Str("addr", addr).Msg("starting template service")
	if err := http.ListenAndServe(addr, srv.Router); err != nil {
		log.Error().Err(err).Msg("server terminated")
		os.Exit(1)
	}
}
