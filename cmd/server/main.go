package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/akamensky/argparse"
	"github.com/godilite/a11y-check/internal/app"
	"github.com/godilite/a11y-check/internal/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	parser := argparse.NewParser("a11y-check", "Accessibility checks backed by PageSpeed Insights")

	envFile := parser.String("e", "env-file", &argparse.Options{
		Default: ".env",
		Help:    "Path to a dotenv file loaded before reading the environment",
	})
	port := parser.Int("p", "port", &argparse.Options{
		Help: "HTTP port. Overrides PORT",
	})
	variant := parser.Selector("v", "variant", []string{config.VariantVersioned, config.VariantDiagnostics}, &argparse.Options{
		Help: "Route set to serve. Overrides API_VARIANT",
	})
	rulesPath := parser.String("s", "security-rules", &argparse.Options{
		Help: "YAML file with bot user agents and allowed IPs. Overrides SECURITY_RULES",
	})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(2)
	}

	_ = godotenv.Load(*envFile)

	cfg := config.LoadFromEnv()
	if *port > 0 {
		cfg.HTTPPort = *port
	}
	if *variant != "" {
		cfg.Variant = *variant
	}
	if *rulesPath != "" {
		cfg.SecurityRulesPath = *rulesPath
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	rules, found, err := config.LoadSecurityRules(cfg.SecurityRulesPath)
	if err != nil {
		logger.Fatal("Failed to load security rules", zap.Error(err))
	}
	if !found {
		logger.Warn("Security rules file not found, bot filtering has no entries",
			zap.String("path", cfg.SecurityRulesPath))
	}

	ctx := context.Background()
	application, err := app.NewApp(ctx, cfg, rules, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		logger.Fatal("Application exited with error", zap.Error(err))
	}
}
