// Package main provides an interactive CLI for driving the auth service
// through the full hook pipeline against a configurable store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/jvillano/hookgate"
	"github.com/jvillano/hookgate/gateway"
	"github.com/jvillano/hookgate/internal/tt"
	"github.com/jvillano/hookgate/plugins/logging"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr,
			"%sError: %v%s\n",
			colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := gateway.LoadConfig(os.Getenv("HOOKGATE_CONFIG"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()
	st, err := cfg.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	log := logging.NewLogger(cfg.Log)
	defer log.Sync()

	// Trace every pass so the pipeline's plugin order is visible per call.
	rec := tt.NewRecorder()
	auth := gateway.NewAuth(st, gateway.WithLogger(log)).Use(
		tt.Trace[gateway.Params](rec, "trace",
			hookgate.HookBefore,
			hookgate.HookSuccess,
			hookgate.HookError,
			hookgate.HookName(gateway.ActionLogin, hookgate.PhaseBefore),
			hookgate.HookName(gateway.ActionLogin, hookgate.PhaseSuccess),
			hookgate.HookName(gateway.ActionRegister, hookgate.PhaseBefore),
			hookgate.HookName(gateway.ActionRegister, hookgate.PhaseSuccess),
		),
		logging.New[gateway.Params](log),
	)

	rl, err := readline.New(
		colorCyan + "hookgate> " + colorReset)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	fmt.Printf("%s%sHookgate Auth CLI%s (store: %s)\n",
		colorBold, colorGreen, colorReset, cfg.Store.Backend)
	printHelp()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("readline failed: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		rec.Reset()
		if done := dispatch(ctx, auth, fields); done {
			return nil
		}
		if calls := rec.Calls(); len(calls) > 0 {
			fmt.Printf("%spipeline: %s%s\n",
				colorDim, strings.Join(calls, " -> "), colorReset)
		}
	}
}

func dispatch(ctx context.Context, auth *gateway.Auth, fields []string) bool {
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "q", "quit", "exit":
		return true

	case "help":
		printHelp()

	case "register":
		if len(args) < 2 {
			usage("register <user> <password> [key=value ...]")
			break
		}
		report(auth.Register(ctx, args[0], args[1], parseInfo(args[2:])))

	case "login":
		if len(args) != 2 {
			usage("login <user> <password>")
			break
		}
		token, err := auth.Login(ctx, args[0], args[1])
		if err != nil {
			report(err)
			break
		}
		fmt.Printf("%stoken: %s%s\n", colorGreen, token, colorReset)

	case "logout":
		if len(args) != 1 {
			usage("logout <user>")
			break
		}
		report(auth.Logout(ctx, args[0]))

	case "info":
		if len(args) != 1 {
			usage("info <user>")
			break
		}
		printInfo(auth.UserInfo(ctx, args[0]))

	case "refresh":
		if len(args) < 2 {
			usage("refresh <user> <key=value ...>")
			break
		}
		printInfo(auth.RefreshUserInfo(ctx, args[0], parseInfo(args[1:])))

	default:
		fmt.Printf("%sUnknown command %q, try 'help'%s\n",
			colorYellow, cmd, colorReset)
	}
	return false
}

func printHelp() {
	fmt.Printf(`%sCommands:%s
  register <user> <password> [key=value ...]
  login    <user> <password>
  logout   <user>
  info     <user>
  refresh  <user> <key=value ...>
  help
  q
`, colorBold, colorReset)
}

func usage(s string) {
	fmt.Printf("%sUsage: %s%s\n", colorYellow, s, colorReset)
}

func report(err error) {
	if err != nil {
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		return
	}
	fmt.Printf("%sok%s\n", colorGreen, colorReset)
}

func printInfo(info map[string]any, err error) {
	if err != nil {
		report(err)
		return
	}
	out, merr := json.MarshalIndent(info, "", "  ")
	if merr != nil {
		report(errors.New("failed to render user info"))
		return
	}
	fmt.Printf("%s%s%s\n", colorGreen, out, colorReset)
}

func parseInfo(pairs []string) map[string]any {
	if len(pairs) == 0 {
		return nil
	}
	info := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			info[pair] = true
			continue
		}
		info[key] = value
	}
	return info
}
