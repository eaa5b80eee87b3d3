// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/buildkite/shellwords"
	"github.com/spf13/cobra"

	"github.com/stonemud/stonemud/internal/access"
	"github.com/stonemud/stonemud/internal/command"
	"github.com/stonemud/stonemud/internal/command/handlers"
	"github.com/stonemud/stonemud/internal/config"
	"github.com/stonemud/stonemud/internal/game"
	"github.com/stonemud/stonemud/internal/logging"
	"github.com/stonemud/stonemud/internal/observability"
)

// NewServeCmd creates the serve subcommand: an interactive console bound
// to the command framework.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start an interactive console over the command framework",
		Long: `Start an interactive console that registers the core command set and
dispatches each input line. Lines prefixed with '?' print tab-completion
suggestions for the remainder instead of executing it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("log.format", "json", "log format (json or text)")
	cmd.Flags().String("metrics.addr", "127.0.0.1:9100", "metrics/health HTTP address (empty = disabled)")

	return cmd
}

// runServe wires the framework and pumps input lines until EOF or "quit".
func runServe(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	logging.SetDefault(logging.Options{
		Service: "stonemud",
		Version: version,
		Format:  cfg.Log.Format,
	})

	var obs *observability.Server
	if cfg.Metrics.Addr != "" {
		obs = observability.NewServer(cfg.Metrics.Addr)
		command.RegisterMetrics(obs.Registry())
		if err := obs.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = obs.Shutdown(shutdownCtx)
		}()
	}

	perms, err := access.NewStaticPermissions(access.DefaultRoles())
	if err != nil {
		return err
	}

	directory := game.NewDirectory()
	directory.AddWorld(game.World{Name: "overworld"})
	directory.AddWorld(game.World{Name: "nether"})
	services := &command.Services{Actors: directory, Worlds: directory}

	types := command.NewTypeRegistry()
	graph := command.NewGraph()
	proc := command.NewProcessor(types)

	if err := handlers.RegisterAll(proc, graph); err != nil {
		return err
	}

	cooldowns := command.NewCooldownTracker(command.CooldownTrackerConfig{
		SweepInterval: cfg.Cooldown.SweepInterval,
		MaxAge:        cfg.Cooldown.MaxAge,
	})
	defer cooldowns.Close()

	limiter := command.NewRateLimiter(command.RateLimiterConfig{
		BurstCapacity: cfg.RateLimit.Burst,
		SustainedRate: cfg.RateLimit.Sustained,
	})
	defer limiter.Close()

	dispatcher, err := command.NewDispatcher(graph, types, perms,
		command.WithServices(services),
		command.WithCooldowns(cooldowns),
		command.WithRateLimiter(limiter),
	)
	if err != nil {
		return err
	}

	completer := command.NewCompleter(graph, types, perms, services, command.CompleterConfig{
		Limit:            cfg.Completion.Limit,
		SuggestTTL:       cfg.Completion.TTL,
		SuggestCacheSize: cfg.Completion.CacheSize,
	})

	if obs != nil {
		obs.SetReady(true)
	}
	slog.Info("console ready", "commands", graph.Names())

	sender := access.Console()
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "stonemud console - 'quit' to exit, '?<input>' for completions")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			return scanner.Err()
		case strings.HasPrefix(line, "?"):
			printCompletions(ctx, completer, sender, line[1:], out)
		default:
			if err := dispatcher.DispatchLine(ctx, sender, out, line); err != nil {
				fmt.Fprintln(out, command.UserMessage(err))
			}
		}
	}
	return scanner.Err()
}

// printCompletions runs the completer against a partial input line.
func printCompletions(ctx context.Context, completer *command.Completer, sender access.Subject, line string, out io.Writer) {
	tokens, err := shellwords.SplitPosix(strings.TrimLeft(line, " "))
	if err != nil {
		tokens = strings.Fields(line)
	}
	if strings.HasSuffix(line, " ") {
		// Cursor sits on a fresh, empty token.
		tokens = append(tokens, "")
	}
	if len(tokens) == 0 {
		return
	}

	suggestions := completer.Complete(ctx, sender, tokens[0], tokens[1:])
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "(no completions)")
		return
	}
	fmt.Fprintln(out, strings.Join(suggestions, "  "))
}
