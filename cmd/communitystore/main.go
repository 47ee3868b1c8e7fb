package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pawhub/communitystore/internal/setup/config"
	"github.com/pawhub/communitystore/internal/setup/logger"
	"github.com/pawhub/communitystore/internal/storage"
	"github.com/pawhub/communitystore/internal/store"
	"github.com/pawhub/communitystore/internal/store/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "communitystore",
		Usage: "Inspect and seed the community data store",
		Commands: []*cli.Command{
			{
				Name:  "seed",
				Usage: "Populate the store with a demo community",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return withClient(ctx, seed)
				},
			},
			{
				Name:  "stats",
				Usage: "Print entity counts per collection",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return withClient(ctx, stats)
				},
			},
			{
				Name:      "search",
				Usage:     "Search groups by name, description or tags",
				ArgsUsage: "<query>",
				Action: func(ctx context.Context, c *cli.Command) error {
					query := c.Args().First()

					return withClient(ctx, func(ctx context.Context, client store.Client, _ *zap.Logger) error {
						return searchGroups(ctx, client, query)
					})
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// withClient loads the configuration, builds the storage adapter and
// hands a connected client to the command body.
func withClient(ctx context.Context, body func(context.Context, store.Client, *zap.Logger) error) error {
	cfg, configPath, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zapLogger, err := logger.New(&cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zapLogger.Sync() //nolint:errcheck // stderr sync failures are unactionable

	zapLogger.Info("Loaded configuration",
		zap.String("path", configPath),
		zap.String("backend", cfg.Storage.Backend))

	adapter, err := openAdapter(cfg, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to open storage adapter: %w", err)
	}

	client := store.New(adapter, zapLogger)
	defer client.Close() //nolint:errcheck // best effort on shutdown

	return body(ctx, client, zapLogger)
}

// openAdapter builds the storage adapter selected in the config.
func openAdapter(cfg *config.Config, zapLogger *zap.Logger) (storage.Adapter, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		adapter, err := storage.NewRedis(storage.RedisOptions{
			Host:     cfg.Storage.Redis.Host,
			Port:     cfg.Storage.Redis.Port,
			Username: cfg.Storage.Redis.Username,
			Password: cfg.Storage.Redis.Password,
			DBIndex:  cfg.Storage.Redis.DBIndex,
		}, zapLogger)
		if err != nil {
			return nil, err
		}

		return adapter, nil
	case config.BackendSQLite:
		adapter, err := storage.NewSQLite(cfg.Storage.SQLite.Path, zapLogger)
		if err != nil {
			return nil, err
		}

		return adapter, nil
	default:
		return storage.NewMemory(), nil
	}
}

// seed creates a small demo community so the other commands have data
// to work with.
func seed(ctx context.Context, client store.Client, zapLogger *zap.Logger) error {
	now := time.Now()

	alice := &types.User{
		ID:        types.NewID("usr"),
		Username:  "alice",
		FullName:  "Alice Park",
		CreatedAt: now,
		UpdatedAt: now,
	}
	bob := &types.User{
		ID:        types.NewID("usr"),
		Username:  "bob",
		FullName:  "Bob Tanner",
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, user := range []*types.User{alice, bob} {
		if err := client.Model().User().Add(ctx, user); err != nil {
			return fmt.Errorf("failed to add user %s: %w", user.Username, err)
		}
	}

	group, err := client.Service().Membership().CreateGroup(
		ctx, alice.ID, "Husky Owners", "Everything about huskies",
		"", types.GroupTypeOpen, "", []string{"dogs", "huskies"})
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	if _, err := client.Service().Membership().JoinGroup(ctx, group.ID, bob.ID); err != nil {
		return fmt.Errorf("failed to join group: %w", err)
	}

	topic := &types.GroupTopic{
		ID:        types.NewID("top"),
		GroupID:   group.ID,
		AuthorID:  bob.ID,
		Title:     "Best winter coats?",
		Body:      "Looking for recommendations before the season starts.",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := client.Model().Topic().Add(ctx, topic); err != nil {
		return fmt.Errorf("failed to add topic: %w", err)
	}

	poll, err := client.Service().Poll().CreatePoll(
		ctx, group.ID, topic.ID, "Favorite trail?",
		[]string{"Forest loop", "River walk", "Hill climb"}, nil)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	if _, err := client.Service().Poll().CastVote(ctx, poll.ID, bob.ID, []string{poll.Options[0].ID}); err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}

	conversation, err := client.Service().Messaging().Start(
		ctx, []string{alice.ID, bob.ID}, types.ConversationDirect, "")
	if err != nil {
		return fmt.Errorf("failed to start conversation: %w", err)
	}

	if _, err := client.Service().Messaging().Send(
		ctx, conversation.ID, alice.ID, "Welcome to the group!", nil); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	zapLogger.Info("Seeded demo community",
		zap.String("groupID", group.ID),
		zap.String("pollID", poll.ID),
		zap.String("conversationID", conversation.ID))

	return nil
}

// stats prints entity counts for the main collections.
func stats(ctx context.Context, client store.Client, _ *zap.Logger) error {
	users, err := client.Model().User().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	groups, err := client.Model().Group().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	members, err := client.Model().Member().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	conversations, err := client.Model().Conversation().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	fmt.Printf("users:         %d\n", len(users))
	fmt.Printf("groups:        %d\n", len(groups))
	fmt.Printf("memberships:   %d\n", len(members))
	fmt.Printf("conversations: %d\n", len(conversations))

	for _, group := range groups {
		fmt.Printf("  %s (%s): %d members, %d topics\n",
			group.Name, group.Type, group.MemberCount, group.TopicCount)
	}

	return nil
}

// searchGroups prints the groups matching a query.
func searchGroups(ctx context.Context, client store.Client, query string) error {
	groups, err := client.Model().Group().Search(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to search groups: %w", err)
	}

	if len(groups) == 0 {
		fmt.Println("no matches")
		return nil
	}

	for _, group := range groups {
		fmt.Printf("%s\t%s\t%s\n", group.ID, group.Slug, group.Name)
	}

	return nil
}
