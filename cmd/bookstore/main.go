//go:generate swag init -g internal/bookstore/http/router.go -d ../../ -o ../../api/bookstore --parseDependency

package main

import (
	"context"
	"log"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/app"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
