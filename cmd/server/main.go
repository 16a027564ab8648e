// Command server runs the climbstory prompt scheduling API.
//
// Configuration is read from CONFIG_PATH (YAML) with environment variable
// overrides; see internal/config.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"

	"github.com/panshun/climbstory-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
