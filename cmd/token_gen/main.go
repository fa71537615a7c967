package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"quadramall/apienvelope/internal/auth"
	"quadramall/apienvelope/internal/config"
	"quadramall/apienvelope/internal/constants"
)

// Issues a bearer token for calling the write endpoints during development.
func main() {
	envFile := flag.String("env", ".env", "optional env file")
	subject := flag.String("sub", "", "user id to put in the token")
	role := flag.String("role", string(constants.RoleSeller), "buyer, seller or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	token, err := auth.NewTokenService([]byte(cfg.JWTSecret)).Issue(*subject, constants.Role(*role), *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println(token)
}
