package main

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"bayou-commons/internal/config"
	"bayou-commons/internal/database"
	"bayou-commons/internal/engine"
	"bayou-commons/internal/handlers"
	"bayou-commons/internal/middleware"
	"bayou-commons/internal/moderation"
	"bayou-commons/internal/utils"
	"bayou-commons/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	metrics := utils.NewMetricsCollector()

	mongodb, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		slog.Error("failed to connect to document store", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 5*time.Second)
		defer cancel()
		if err := mongodb.Close(ctx); err != nil {
			slog.Warn("error closing store connection", "error", err)
		}
	}()

	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 30*time.Second)
	if err := mongodb.EnsureIndexes(ctx); err != nil {
		cancel()
		slog.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}
	cancel()

	classifier := moderation.NewClient(cfg.Moderation.URL, time.Duration(cfg.Moderation.TimeoutSeconds)*time.Second)
	if classifier.Enabled() {
		slog.Info("moderation service configured", "url", cfg.Moderation.URL)
	} else {
		slog.Warn("no moderation service configured, all posts will be approved")
	}

	hub := websocket.NewHub()
	go hub.Run()

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, metrics, mongodb, classifier, hub)

	server := handlers.NewServer(system, system.Root, eng, metrics, hub, mongodb)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleHealth())
	mux.HandleFunc("/stats", server.HandleStats())

	mux.HandleFunc("/users", server.HandleUsers())
	mux.HandleFunc("/users/communities", server.HandleUserCommunities())
	mux.HandleFunc("/users/bookmarks", server.HandleUserBookmarks())

	mux.HandleFunc("/communities", server.HandleCommunities())
	mux.HandleFunc("/communities/join", server.HandleJoinCommunity())
	mux.HandleFunc("/communities/leave", server.HandleLeaveCommunity())
	mux.HandleFunc("/communities/members", server.HandleCommunityMembers())
	mux.HandleFunc("/communities/pending", server.HandlePendingMembers())
	mux.HandleFunc("/communities/approve", server.HandleApproveMember())
	mux.HandleFunc("/communities/deny", server.HandleDenyMember())
	mux.HandleFunc("/communities/transfer", server.HandleTransferOwnership())

	mux.HandleFunc("/posts", server.HandlePosts())
	mux.HandleFunc("/posts/publish", server.HandlePublishPost())
	mux.HandleFunc("/posts/like", server.HandleLikePost())
	mux.HandleFunc("/posts/unlike", server.HandleUnlikePost())
	mux.HandleFunc("/posts/bookmark", server.HandleBookmarkPost())
	mux.HandleFunc("/posts/unbookmark", server.HandleUnbookmarkPost())
	mux.HandleFunc("/posts/vote", server.HandleVotePoll())

	mux.HandleFunc("/comments", server.HandleComments())

	mux.HandleFunc("/notifications", server.HandleNotifications())
	mux.HandleFunc("/notifications/read", server.HandleMarkNotificationRead())

	mux.HandleFunc("/events", server.HandleEvents())
	mux.HandleFunc("/events/rsvp", server.HandleRSVP())

	mux.HandleFunc("/ws", server.HandleWebSocket())

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	handler := middleware.CORSMiddleware(corsConfig)(mux)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting server", "addr", serverAddr, "database", cfg.Database.Name)
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
