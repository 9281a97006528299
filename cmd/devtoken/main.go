// Comando devtoken emite un JWT firmado con JWT_SECRET para pruebas locales.
// En producción los tokens los emite el proveedor de identidad.
//
//	go run ./cmd/devtoken -user 7f1c... -role admin
package main

import (
	"flag"
	"fmt"

	"github.com/jhoicas/gestoria-api/pkg/config"
	"github.com/jhoicas/gestoria-api/pkg/jwt"
	"github.com/jhoicas/gestoria-api/pkg/logger"
)

func main() {
	userID := flag.String("user", "", "id del usuario (sub)")
	role := flag.String("role", "", "admin | operador; vacío para resolverlo desde user_roles")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if *userID == "" {
		log.Fatal().Msg("-user es obligatorio")
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	fmt.Println(tok)
}
