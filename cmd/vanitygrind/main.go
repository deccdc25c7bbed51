package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"VanityGrind/internal/cli"
	"VanityGrind/pkg/appcfg"
	"VanityGrind/pkg/logx"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "getwd: %v\n", err)
		os.Exit(2)
	}

	appConf, err := appcfg.Load(context.Background(), filepath.Join(cwd, "configs", "app.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config: %v (using defaults)\n", err)
		appConf = appcfg.Default()
	}

	if err := logx.Init(logx.Config{
		Level:                appConf.LogLevel,
		ConsoleOnly:          true,
		HideSecretsInConsole: appConf.HideSecretsInConsole,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "log init: %v\n", err)
		os.Exit(1)
	}

	logx.S().Debugw("vanitygrind started",
		"cwd", cwd,
		"lang", appConf.Language,
		"log_level", appConf.LogLevel,
		"cores", appConf.Cores,
		"hide_secrets_in_console", appConf.HideSecretsInConsole,
	)

	err = cli.NewRunner(appConf).Command().Execute()
	logx.Close()
	if err != nil {
		os.Exit(1)
	}
}
