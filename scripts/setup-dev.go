package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

const envTemplate = `PORT=5000
ENV=development
POSTERS_DIR=posters

# Leave empty to run without payments or with the local chat responder.
STRIPE_SECRET_KEY=
STRIPE_WEBHOOK_SECRET=
GEMINI_API_KEY=

KAFKA_ENABLED=true
KAFKA_BROKERS=localhost:9092
REDIS_ADDR=localhost:6379
`

func main() {
	fmt.Println("🚀 Setting up Movie Booking development environment")

	if err := writeEnvFile(".env"); err != nil {
		fmt.Printf("⚠️  Could not write .env: %v\n", err)
	}

	if err := checkDocker(); err != nil {
		fmt.Printf("⚠️  Docker issue detected: %v\n", err)
		fmt.Println("💡 You can still run without Kafka or Redis: KAFKA_ENABLED=false REDIS_ADDR= go run .")
		return
	}

	fmt.Println("✅ Docker is running")
	fmt.Println("🐳 Starting Kafka and Redis...")

	cmd := exec.Command("docker", "compose", "up", "-d", "kafka", "redis")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Failed to start services: %v\n", err)
		return
	}

	fmt.Println("✅ Services started")
	fmt.Println("🎯 Run: go run dev-watch.go")
}

// writeEnvFile creates a starter .env unless one already exists.
func writeEnvFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Println("ℹ️  .env already present, leaving it alone")
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(path, []byte(envTemplate), 0o600); err != nil {
		return err
	}
	fmt.Println("📝 Wrote starter .env")
	return nil
}

func checkDocker() error {
	return exec.Command("docker", "info").Run()
}
