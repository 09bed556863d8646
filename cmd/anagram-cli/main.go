package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"path"
	"slices"

	"code.anagramas.org/golang/internal/config"
	"code.anagramas.org/golang/internal/observability"
)

const usageFmt = `
Command Usage: %s [Flags] <command> [command flags] [args]
  Anagramas API client.

Commands:
---------
  login -u <username> [-p <password>]
  register -u <username> [-p <password>]
  logout
  whoami
  generate [-no-cache] <letters>
  cache-status
  total <letters>

Settings are read from ANAGRAMAS_* environment variables.

Flags:
------
`

type Cmd struct {
	DotEnv string
	Lang   string
	Args   []string
}

func parseFlags(progname string, args []string) *Cmd {
	cmd := Cmd{}

	flags := flag.NewFlagSet(progname, flag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, usageFmt, path.Base(progname))
		flags.PrintDefaults()
	}

	flags.StringVar(&cmd.DotEnv, "env", ".env", `path of a dotenv file, ignored if missing`)
	flags.StringVar(&cmd.Lang, "lang", "", `message language, overrides ANAGRAMAS_LANG`)

	flags.Parse(args)
	cmd.Args = flags.Args()
	if 0 == len(cmd.Args) {
		flags.Usage()
		os.Exit(2)
	}

	return &cmd
}

func main() {
	cmd := parseFlags(os.Args[0], os.Args[1:])

	cfg, err := config.Load(cmd.DotEnv)
	if nil != err {
		fmt.Fprintf(os.Stderr, "Invalid configuration, got error %v\n", err)
		os.Exit(1)
	}
	if "" != cmd.Lang {
		cfg.Lang = cmd.Lang
	}

	log := observability.NewLogger(os.Stderr, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = observability.SetObservability(ctx, &observability.Observability{Logger: log})

	app, err := NewApp(ctx, cfg, log, os.Stdin, os.Stdout)
	if nil != err {
		log.Error("failed initializing client", "error", err)
		stop()
		os.Exit(1)
	}

	err = app.Run(ctx, cmd.Args)
	if errors.Is(err, errUsage) {
		fmt.Fprintf(os.Stderr, "%v, run %s -h for help\n", err, path.Base(os.Args[0]))
	}
	if nil != err {
		log.Debug("command failed", "command", cmd.Args[0], "error", err)
		stop()
		os.Exit(1)
	}
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
