package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"eskimo_admin/internal/api"
	"eskimo_admin/internal/config"
	"eskimo_admin/internal/orders"
	"eskimo_admin/internal/payments"
	"eskimo_admin/internal/printer"
	"eskimo_admin/internal/session"
	"eskimo_admin/internal/users"

	"go.uber.org/zap"
)

const appName = "eskimo-admin"

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("invalid arguments")
	errForbidden      = errors.New("permission denied")
)

type Runner struct {
	options  Options
	cfg      config.Config
	logger   *zap.Logger
	sessions *session.Manager
	guard    *session.Guard
	api      *api.Client
	orders   *orders.ViewModel
	users    *users.Service
	printer  *printer.Client
	payments *payments.Verifier

	in      *bufio.Reader
	stdinFd int // -1 disables the no-echo prompt
	out     io.Writer
	errOut  io.Writer
}

func NewRunner(
	cfg config.Config,
	logger *zap.Logger,
	sessions *session.Manager,
	guard *session.Guard,
	client *api.Client,
	vm *orders.ViewModel,
	userService *users.Service,
	printerClient *printer.Client,
	verifier *payments.Verifier,
) *Runner {
	return &Runner{
		options: Options{
			Debug:   cfg.Debug,
			Timeout: cfg.Timeout,
			Args:    os.Args[1:],
		},
		cfg:      cfg,
		logger:   logger.Named("cli"),
		sessions: sessions,
		guard:    guard,
		api:      client,
		orders:   vm,
		users:    userService,
		printer:  printerClient,
		payments: verifier,
		in:       bufio.NewReader(os.Stdin),
		stdinFd:  int(os.Stdin.Fd()),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

func (r *Runner) Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return r.run(ctx, r.options.Args)
}

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

func (r *Runner) commands() map[string]command {
	return map[string]command{
		"login":         {"login --email E [--password P]", r.cmdLogin},
		"logout":        {"logout", r.cmdLogout},
		"whoami":        {"whoami", r.cmdWhoami},
		"store":         {"store [select <efapi|palmital|passo>|clear]", r.cmdStore},
		"orders":        {"orders list|watch|confirm|deliver|cancel|delete|clear|report|export", r.cmdOrders},
		"products":      {"products list|page|create|update|delete", r.cmdProducts},
		"categories":    {"categories list|create|update|delete", r.cmdCategories},
		"subcategories": {"subcategories list|create|update|delete", r.cmdSubcategories},
		"stock":         {"stock list|set", r.cmdStock},
		"settings":      {"settings show|set", r.cmdSettings},
		"payments":      {"payments list|show|set|delete|verify", r.cmdPayments},
		"keepalive":     {"keepalive status|enable|disable", r.cmdKeepalive},
		"users":         {"users list|create|update|delete|enable|disable|presets", r.cmdUsers},
		"printer":       {"printer status|config|set|test", r.cmdPrinter},
	}
}

func (r *Runner) run(ctx context.Context, args []string) error {
	var timeoutSeconds int

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(r.errOut)
	fs.Usage = r.usage
	fs.BoolVar(&r.options.JSON, "json", r.options.JSON, "Output JSON format")
	fs.BoolVar(&r.options.Yes, "yes", r.options.Yes, "Answer yes to confirmations")
	fs.IntVar(&timeoutSeconds, "timeout", int(r.options.Timeout.Seconds()), "Timeout in seconds for one-shot commands")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if timeoutSeconds > 0 {
		r.options.Timeout = time.Duration(timeoutSeconds) * time.Second
	}

	rest := fs.Args()
	if len(rest) == 0 {
		r.usage()
		return nil
	}

	name := strings.ToLower(rest[0])
	cmd, ok := r.commands()[name]
	if !ok {
		r.usage()
		return &userError{err: fmt.Errorf("%w: %s", errUnknownCommand, rest[0])}
	}

	r.logger.Info("command",
		zap.String("name", name),
		zap.Strings("args", redact(rest[1:])),
		zap.Bool("json", r.options.JSON),
	)

	if err := cmd.run(ctx, rest[1:]); err != nil {
		r.logger.Warn("command failed", zap.String("name", name), zap.Error(err))
		return &userError{err: err}
	}
	return nil
}

func (r *Runner) usage() {
	fmt.Fprintln(r.errOut, banner())
	fmt.Fprintf(r.errOut, "Uso: %s [--json] [--yes] <comando> [argumentos]\n\nComandos:\n", appName)

	cmds := r.commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.errOut, "  %s\n", cmds[name].usage)
	}
}

// withTimeout bounds one-shot commands; long-running ones use ctx directly.
func (r *Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.options.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.options.Timeout)
}

// protected checks the stored token and returns the derived session.
func (r *Runner) protected() (session.Session, error) {
	if err := r.guard.Require(); err != nil {
		return session.Session{}, err
	}
	return r.sessions.Current(), nil
}

func (r *Runner) requireAdmin() (session.Session, error) {
	s, err := r.protected()
	if err != nil {
		return s, err
	}
	if !s.IsAdmin() {
		return s, fmt.Errorf("%w: admin only", errForbidden)
	}
	return s, nil
}

func redact(args []string) []string {
	out := make([]string, len(args))
	hide := false
	for i, a := range args {
		switch {
		case hide:
			out[i] = "***"
			hide = false
		case strings.HasPrefix(a, "--password") || strings.HasPrefix(a, "-password") ||
			strings.HasPrefix(a, "--access-token") || strings.HasPrefix(a, "-access-token"):
			if strings.Contains(a, "=") {
				out[i] = a[:strings.Index(a, "=")+1] + "***"
			} else {
				out[i] = a
				hide = true
			}
		default:
			out[i] = a
		}
	}
	return out
}
