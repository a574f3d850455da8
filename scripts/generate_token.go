package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/kingrain94/tenant-user-sync/internal/domain"
)

// Claims are read back by middleware.AuthMiddleware as map claims.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	subject := flag.String("sub", "tenant-service", "Caller the token is issued to")
	roles := flag.String("roles", string(domain.RoleEventPublisher), "Comma-separated list of roles")
	expirationHours := flag.Int("exp", 24, "Token expiration in hours")
	flag.Parse()

	rolesList := []string{}
	for _, role := range strings.Split(*roles, ",") {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if !domain.IsValidRole(role) {
			log.Fatalf("Unknown role %q", role)
		}
		rolesList = append(rolesList, role)
	}

	secret := os.Getenv("EVENT_AUTH_SECRET")
	if secret == "" {
		log.Fatal("EVENT_AUTH_SECRET is required")
	}

	claims := &Claims{
		Roles: rolesList,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   *subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(*expirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("Error signing token: %v", err)
	}

	fmt.Printf("Generated JWT Token:\n%s\n", tokenString)
}
