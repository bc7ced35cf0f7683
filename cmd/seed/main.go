package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub/config"
	"github.com/oksasatya/eventhub/internal/container"
	"github.com/oksasatya/eventhub/internal/infrastructure/seed"
	"github.com/oksasatya/eventhub/pkg/helpers"
)

// seed writes (or clears) the persisted session record in the configured
// backend so the server starts already signed in as a fixture identity.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	email := flag.String("email", "alex@example.com", "fixture identity to sign in as")
	reset := flag.Bool("clear", false, "remove the persisted session instead")
	flag.Parse()

	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	cfg.LoginLatency = 0

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() { _ = c.Close() }()

	if *reset {
		c.Identity.Logout(ctx)
		helpers.LogInfo(logger, "session cleared", logrus.Fields{"backend": cfg.SessionBackend})
		return
	}

	u, err := c.Identity.Login(ctx, *email, seed.DefaultPassword)
	if err != nil {
		log.Fatalf("failed to sign in %s: %v", *email, err)
	}
	fmt.Printf("seeded session: id=%s email=%s name=%s backend=%s\n", u.ID, u.Email, u.Name, cfg.SessionBackend)
}
