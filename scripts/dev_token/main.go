// Command dev_token prints a buyer token signed with JWT_SECRET for
// calling the API locally.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/internal/middleware"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	buyer := flag.String("buyer", "dev-buyer", "buyer id (token subject)")
	name := flag.String("name", "Dev Buyer", "buyer display name")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := middleware.IssueToken(secret, os.Getenv("JWT_ISSUER"), *buyer, *name, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
