// Command fleetml serves and manages the fleet predictive-maintenance models.
//
// @title Fleet Guardian API
// @version 1.0
// @description Predictive maintenance for vehicle fleets.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// Version is set at build time
var Version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(Version)); err != nil {
		os.Exit(1)
	}
}
