package main

import (
	"fmt"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/stahnma/gh-repofeed/internal/commands"
	"github.com/stahnma/gh-repofeed/internal/config"
	lambdapkg "github.com/stahnma/gh-repofeed/internal/lambda"
	"github.com/stahnma/gh-repofeed/internal/logging"
)

var (
	GitSHA   string
	GitDirty string
)

func main() {
	cfg, err := config.FromEnvironment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.MustNew(cfg.DebugMode)
	defer logger.Sync() //nolint:errcheck

	app := commands.NewApp(cfg, logger, GitSHA, GitDirty)

	if os.Getenv("LAMBDA_TASK_ROOT") != "" {
		awslambda.Start(lambdapkg.NewHandler(app, nil))
		return
	}

	if err := app.Run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync() //nolint:errcheck
		os.Exit(1)
	}
}
