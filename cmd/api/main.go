package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/jrobz00/Joseph1/internal/app/bootstrap"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/default.yaml"
	}

	runtime, err := bootstrap.NewRuntime(context.Background(), configPath)
	if err != nil {
		log.Fatalf("bootstrap runtime: %v", err)
	}
	if err := runtime.RunAPI(context.Background()); err != nil {
		log.Fatalf("run api: %v", err)
	}
}
