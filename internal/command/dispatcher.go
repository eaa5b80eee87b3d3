// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/buildkite/shellwords"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stonemud/stonemud/internal/access"
)

var tracer = otel.Tracer("stonemud/command")

// Dispatcher runs the end-to-end invocation pipeline: resolve, authorize,
// rate-limit, cooldown, parse, invoke, report. Handlers run serialized on
// the caller's goroutine; the dispatcher itself is safe for concurrent use.
type Dispatcher struct {
	graph     *Graph
	types     *TypeRegistry
	perms     access.Permissions
	services  *Services
	cooldowns *CooldownTracker // optional, can be nil
	limiter   *RateLimiter     // optional, can be nil
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithCooldowns enables per-command cooldown tracking.
func WithCooldowns(t *CooldownTracker) DispatcherOption {
	return func(d *Dispatcher) {
		d.cooldowns = t
	}
}

// WithRateLimiter enables the flood limiter.
func WithRateLimiter(rl *RateLimiter) DispatcherOption {
	return func(d *Dispatcher) {
		d.limiter = rl
	}
}

// WithServices supplies host collaborators to handlers and type parsers.
func WithServices(s *Services) DispatcherOption {
	return func(d *Dispatcher) {
		d.services = s
	}
}

// NewDispatcher creates a dispatcher over the given graph, type registry,
// and permission checker. Returns an error if any of them is nil.
func NewDispatcher(graph *Graph, types *TypeRegistry, perms access.Permissions, opts ...DispatcherOption) (*Dispatcher, error) {
	if graph == nil {
		return nil, ErrProcessing("dispatcher", "graph is required")
	}
	if types == nil {
		return nil, ErrProcessing("dispatcher", "type registry is required")
	}
	if perms == nil {
		return nil, ErrProcessing("dispatcher", "permission checker is required")
	}
	d := &Dispatcher{
		graph:    graph,
		types:    types,
		perms:    perms,
		services: &Services{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DispatchLine tokenizes a raw input line and dispatches it. Quoting
// follows POSIX shell word splitting; unbalanced quotes fall back to plain
// whitespace splitting.
func (d *Dispatcher) DispatchLine(ctx context.Context, sender access.Subject, out io.Writer, line string) error {
	tokens, err := shellwords.SplitPosix(strings.TrimSpace(line))
	if err != nil {
		tokens = strings.Fields(line)
	}
	return d.Dispatch(ctx, sender, out, tokens)
}

// Dispatch resolves and executes a tokenized command. The pipeline is
// terminal on first failure; every failure is reported as a coded error
// whose UserMessage is safe to show the sender.
func (d *Dispatcher) Dispatch(ctx context.Context, sender access.Subject, out io.Writer, tokens []string) (err error) {
	if len(tokens) == 0 {
		return ErrUnknownCommand("")
	}

	recorder := NewMetricsRecorder()
	defer recorder.Record()

	res, ok := d.graph.Resolve(tokens)
	if !ok {
		recorder.SetCommandName(strings.ToLower(tokens[0]))
		recorder.SetStatus(StatusNotFound)
		return ErrUnknownCommand(tokens[0])
	}

	pathName := strings.Join(res.Path, " ")
	recorder.SetCommandName(res.Root.Name())

	ctx, span := tracer.Start(ctx, "command.dispatch",
		trace.WithAttributes(
			attribute.String("command.path", pathName),
			attribute.String("sender.key", sender.Key()),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	node := res.Node
	if !node.Executable() {
		recorder.SetStatus(StatusNotFound)
		err = ErrUnknownCommand(pathName)
		return err
	}

	// Permission check walks the resolved chain so a subcommand cannot be
	// reached through an unpermitted parent.
	if err = d.checkPermissions(ctx, sender, res); err != nil {
		recorder.SetStatus(StatusPermissionDenied)
		return err
	}

	if node.PlayerOnly() && sender.Class != access.ClassPlayer {
		recorder.SetStatus(StatusPlayerOnly)
		err = ErrPlayerOnly(pathName)
		return err
	}

	// Flood limiter: bounds overall throughput per sender.
	if d.limiter != nil && sender.Class != access.ClassConsole &&
		!d.perms.Has(ctx, sender, PermissionRateLimitBypass) {
		allowed, cooldownMs := d.limiter.Allow(sender.Key())
		if !allowed {
			span.SetAttributes(attribute.Bool("command.rate_limited", true))
			recorder.SetStatus(StatusRateLimited)
			err = ErrRateLimited(cooldownMs)
			return err
		}
	}

	// Per-command cooldown: started before invocation, never retried, and
	// independent of command success or failure.
	if d.cooldowns != nil && node.Cooldown() > 0 && sender.Class != access.ClassConsole &&
		!d.perms.Has(ctx, sender, PermissionCooldownBypass) {
		remaining, allowed := d.cooldowns.CheckAndStart(CooldownKey(sender.Key(), res.Path), node.Cooldown())
		if !allowed {
			span.SetAttributes(attribute.Int64("command.cooldown_remaining_ms", remaining.Milliseconds()))
			recorder.SetStatus(StatusCooldown)
			err = ErrCooldownActive(pathName, remaining)
			return err
		}
	}

	flags, positional := ParseFlags(res.Args, node.flags)
	if flags.Has("help") || flags.Has("h") {
		writeUsage(out, pathName, node)
		recorder.SetStatus(StatusSuccess)
		return nil
	}

	tc := &TypeContext{Context: ctx, Sender: sender, Services: d.services}
	parser := NewArgParser(d.types, res.Root.Owner())
	args, err := parser.Parse(tc, positional, node.args)
	if err != nil {
		recorder.SetStatus(StatusParseError)
		return err
	}

	exec := &Execution{
		Sender:   sender,
		Label:    strings.ToLower(tokens[0]),
		Path:     res.Path,
		Args:     args,
		Flags:    flags,
		Output:   out,
		Services: d.services,
	}

	if err = d.invoke(ctx, node.executor, exec); err != nil {
		recorder.SetStatus(StatusError)
		slog.WarnContext(ctx, "command execution failed",
			"command", pathName,
			"sender", sender.Key(),
			"error", err,
		)
		err = ErrHandlerFailure(pathName, err)
		return err
	}

	recorder.SetStatus(StatusSuccess)
	return nil
}

// checkPermissions verifies every permission along the resolved chain.
func (d *Dispatcher) checkPermissions(ctx context.Context, sender access.Subject, res Resolution) error {
	node := &res.Root.Node
	for depth := 0; ; depth++ {
		if p := node.Permission(); p != "" && !d.perms.Has(ctx, sender, p) {
			return ErrPermissionDenied(strings.Join(res.Path[:depth+1], " "), p)
		}
		if depth+1 >= len(res.Path) {
			return nil
		}
		child, ok := node.Child(res.Path[depth+1])
		if !ok {
			return nil
		}
		node = child
	}
}

// invoke runs the compiled executor, converting panics into errors so a
// handler bug never takes down the host thread.
func (d *Dispatcher) invoke(ctx context.Context, exec Executor, e *Execution) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return exec(ctx, e)
}

// writeUsage prints a short usage line for a node in response to --help.
func writeUsage(out io.Writer, pathName string, node *Node) {
	if out == nil {
		return
	}
	line := "Usage: " + pathName
	if u := Usage(node.args); u != "" {
		line += " " + u
	}
	if children := node.Children(); len(children) > 0 {
		names := make([]string, 0, len(children))
		for _, c := range children {
			names = append(names, c.Name())
		}
		line += "\nSubcommands: " + strings.Join(names, ", ")
	}
	if node.help != "" {
		line += "\n" + node.help
	}
	fmt.Fprintln(out, line)
}
