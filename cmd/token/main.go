// Command token emite un JWT para la API usando JWT_SECRET de la configuración.
//
//	go run ./cmd/token -user maria -role operador
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/produccion-api/pkg/config"
	"github.com/jhoicas/produccion-api/pkg/jwt"
)

func main() {
	user := flag.String("user", "", "identificador del usuario (queda en el historial)")
	role := flag.String("role", jwt.RoleOperador, "rol: admin | operador")
	exp := flag.Int("exp", 0, "minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "-user es requerido")
		os.Exit(2)
	}
	if *role != jwt.RoleAdmin && *role != jwt.RoleOperador {
		fmt.Fprintf(os.Stderr, "rol inválido %q (admin|operador)\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	minutes := cfg.JWT.Expiration
	if *exp > 0 {
		minutes = *exp
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
