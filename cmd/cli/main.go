package main

import (
	"context"
	"log"
	"os"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/buildinfo"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/cli"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
