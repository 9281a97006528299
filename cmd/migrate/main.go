// Comando migrate aplica o revierte las migraciones de esquema.
//
//	go run ./cmd/migrate -cmd up
//	go run ./cmd/migrate -cmd down
//	go run ./cmd/migrate -cmd steps -n -1
//	go run ./cmd/migrate -cmd version
package main

import (
	"flag"
	"os"

	"github.com/jhoicas/gestoria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gestoria-api/pkg/config"
	"github.com/jhoicas/gestoria-api/pkg/logger"
)

func main() {
	cmd := flag.String("cmd", "up", "up | down | steps | version")
	n := flag.Int("n", 1, "número de pasos para -cmd steps (negativo revierte)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}

	switch *cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(*n)
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = m.Version()
		if err == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión de esquema")
		}
	default:
		log.Error().Str("cmd", *cmd).Msg("comando desconocido")
		_ = m.Close()
		os.Exit(2)
	}
	if cerr := m.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("cerrar migrador")
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("migración fallida")
	}
}
