package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"code.anagramas.org/golang/internal/config"
	"code.anagramas.org/golang/internal/observability"
	"code.anagramas.org/golang/pkg/anagrams"
	"code.anagramas.org/golang/pkg/augment"
	"code.anagramas.org/golang/pkg/guard"
	"code.anagramas.org/golang/pkg/messages"
	"code.anagramas.org/golang/pkg/session"
	"code.anagramas.org/golang/pkg/session/boltdb"
)

var (
	errLoginRequired = errors.New("login required")
	errUsage         = errors.New("invalid command usage")
)

// App wires the client components and runs the anagram-cli commands.
type App struct {
	Store    *session.Store
	Guard    *guard.Guard
	Anagrams *anagrams.Client
	Tag      language.Tag

	out io.Writer
	in  *bufio.Reader
	p   *message.Printer
}

type command struct {
	name      string
	protected bool
	run       func(self *App, ctx context.Context, args []string) error
}

var commands = []command{
	{name: "login", run: (*App).login},
	{name: "register", run: (*App).register},
	{name: "logout", run: (*App).logout},
	{name: "whoami", run: (*App).whoami},
	{name: "generate", protected: true, run: (*App).generate},
	{name: "cache-status", protected: true, run: (*App).cacheStatus},
	{name: "total", protected: true, run: (*App).total},
}

// NewApp builds the App components from cfg.
// A single session.Store is shared by the guard and the anagrams client.
func NewApp(ctx context.Context, cfg config.Config, log *slog.Logger, in io.Reader, out io.Writer) (*App, error) {
	persist, err := boltdb.New(cfg.SessionDB, cfg.SessionEncoding)
	if nil != err {
		return nil, err
	}

	base := observability.Transport{Logger: log}
	store, err := session.NewStore(ctx, session.StoreCfg{
		ApiUrl:      cfg.ApiUrl,
		Client:      &http.Client{Transport: base, Timeout: cfg.HttpTimeout},
		Persistence: persist,
	})
	if nil != err {
		return nil, err
	}

	app := &App{
		Store: store,
		Tag:   messages.Match(cfg.Lang),
		out:   out,
		in:    bufio.NewReader(in),
	}
	app.p = messages.Printer(app.Tag)

	app.Guard, err = guard.New(store, app.redirect, "login")
	if nil != err {
		return nil, err
	}

	app.Anagrams, err = anagrams.New(cfg.ApiUrl, augment.NewClient(store, base, cfg.HttpTimeout))
	if nil != err {
		return nil, err
	}

	return app, nil
}

// Run executes the command named by args[0].
func (self *App) Run(ctx context.Context, args []string) error {
	if 0 == len(args) {
		return errUsage
	}
	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		if cmd.protected && !self.Guard.CanActivate() {
			return errLoginRequired
		}
		return cmd.run(self, ctx, args[1:])
	}

	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func (self *App) redirect(dest string) {
	fmt.Fprintln(self.out, self.p.Sprintf(messages.KeyLoginRequired))
	fmt.Fprintf(self.out, "  anagram-cli %s -u <username>\n", dest)
}

func (self *App) login(ctx context.Context, args []string) error {
	if s, present := self.Store.Current(); present {
		fmt.Fprintln(self.out, self.p.Sprintf(messages.KeyLoggedInAs, s.Username, s.Role))
		return nil
	}
	return self.authenticate(ctx, "login", args, self.Store.Authenticate)
}

func (self *App) register(ctx context.Context, args []string) error {
	return self.authenticate(ctx, "register", args, self.Store.Register)
}

func (self *App) authenticate(
	ctx context.Context,
	name string,
	args []string,
	exchange func(context.Context, session.Credentials) (session.Session, error),
) error {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(self.out)
	var creds session.Credentials
	flags.StringVar(&creds.Username, "u", "", `username`)
	flags.StringVar(&creds.Password, "p", "", `password, read from stdin if not set`)
	err := flags.Parse(args)
	if nil != err {
		return errUsage
	}

	if "" == creds.Password {
		fmt.Fprint(self.out, "password: ")
		line, err := self.in.ReadString('\n')
		if nil != err && !errors.Is(err, io.EOF) {
			return err
		}
		creds.Password = strings.TrimRight(line, "\r\n")
	}

	s, err := exchange(ctx, creds)
	if nil != err {
		fmt.Fprintln(self.out, messages.AuthMessage(self.Tag, err, "register" == name))
		return err
	}
	fmt.Fprintln(self.out, self.p.Sprintf(messages.KeyLoggedInAs, s.Username, s.Role))

	return nil
}

func (self *App) logout(ctx context.Context, _ []string) error {
	self.Store.Logout(ctx)
	fmt.Fprintln(self.out, self.p.Sprintf(messages.KeyLoggedOut))
	return nil
}

func (self *App) whoami(_ context.Context, _ []string) error {
	sub := self.Store.Subscribe(func(s session.Session, ok bool) {
		if !ok {
			fmt.Fprintln(self.out, self.p.Sprintf(messages.KeyNotLoggedIn))
			return
		}
		fmt.Fprintln(self.out, self.p.Sprintf(messages.KeyLoggedInAs, s.Username, s.Role))
		fmt.Fprintf(self.out, "token: %s\n", session.Fingerprint(s.Token))
		if exp, found := s.ExpiresAt(); found {
			fmt.Fprintf(self.out, "expires: %s\n", exp.Format(time.RFC3339))
		}
	})
	sub.Unsubscribe()

	return nil
}

func (self *App) generate(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags.SetOutput(self.out)
	noCache := flags.Bool("no-cache", false, `bypass the server cache`)
	err := flags.Parse(args)
	if nil != err || 1 != flags.NArg() {
		return errUsage
	}

	gen := self.Anagrams.Generate
	if *noCache {
		gen = self.Anagrams.GenerateWithoutCache
	}
	resp, err := gen(ctx, flags.Arg(0))
	if nil != err {
		fmt.Fprintln(self.out, messages.AnagramsMessage(self.Tag, err))
		return err
	}

	fmt.Fprintf(
		self.out, "%s: %d anagrams (cache=%t, %dms)\n",
		resp.OriginalLetters, resp.TotalAnagrams, resp.FromCache, resp.ProcessingTimeMs,
	)
	for _, anagram := range resp.Anagrams {
		fmt.Fprintln(self.out, anagram)
	}

	return nil
}

func (self *App) cacheStatus(ctx context.Context, _ []string) error {
	status, err := self.Anagrams.CacheStatus(ctx)
	if nil != err {
		fmt.Fprintln(self.out, messages.AnagramsMessage(self.Tag, err))
		return err
	}
	printMap(self.out, status)
	return nil
}

func (self *App) total(ctx context.Context, args []string) error {
	if 1 != len(args) {
		return errUsage
	}
	total, err := self.Anagrams.CalculateTotal(ctx, args[0])
	if nil != err {
		fmt.Fprintln(self.out, messages.AnagramsMessage(self.Tag, err))
		return err
	}
	printMap(self.out, total)
	return nil
}

func printMap(w io.Writer, m map[string]any) {
	for _, k := range sortedKeys(m) {
		fmt.Fprintf(w, "%s: %v\n", k, m[k])
	}
}
