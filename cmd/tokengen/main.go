// Command tokengen signs an API token with the configured secret, for
// handing out credentials without a running server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"botflow-backend/infrastructure/config"
	"botflow-backend/pkg/auth"
)

func main() {
	userID := flag.String("user", "", "user id to embed in the token (required)")
	email := flag.String("email", "", "email to embed in the token (required)")
	role := flag.String("role", "user", "role: admin, user, or guest")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	switch auth.Role(*role) {
	case auth.RoleAdmin, auth.RoleUser, auth.RoleGuest:
	default:
		log.Fatalf("unknown role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	svc := auth.NewService(cfg.JWTSecret, cfg.JWTIssuer, *ttl)
	token, err := svc.Sign(*userID, *email, auth.Role(*role))
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
}
