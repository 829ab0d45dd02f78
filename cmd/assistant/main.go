package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mercafeira/assistant-go/internal/analytics"
	"github.com/mercafeira/assistant-go/internal/cache"
	"github.com/mercafeira/assistant-go/internal/classify"
	"github.com/mercafeira/assistant-go/internal/config"
	"github.com/mercafeira/assistant-go/internal/conversation"
	"github.com/mercafeira/assistant-go/internal/dispatch"
	"github.com/mercafeira/assistant-go/internal/i18n"
	"github.com/mercafeira/assistant-go/internal/snapshot"
	"github.com/mercafeira/assistant-go/internal/tokenchannel"
	"github.com/mercafeira/assistant-go/pkg/logger"
	"github.com/mercafeira/assistant-go/pkg/render"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to .env file")
	question := flag.String("question", "", "Ask a single question and exit")
	profilePath := flag.String("profile", "", "Path to a JSON profile file (enables the authenticated tier)")
	htmlOut := flag.Bool("html", false, "Render answers as HTML instead of plain text")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		// It's okay if .env doesn't exist
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting marketplace assistant...")

	localizer, err := i18n.NewLocalizer(&cfg.I18n)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize i18n")
	}
	lang := cfg.I18n.DefaultLanguage

	responseCache, err := cache.NewResponseCache(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize response cache")
	}

	classifier := classify.NewClassifier(localizer, lang, log)
	recorder := analytics.NewPrometheus(log)

	var channel tokenchannel.Channel
	switch cfg.TokenChannel.Type {
	case "redis":
		redisChannel, err := tokenchannel.NewRedis(cfg, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize token channel")
		}
		channel = redisChannel
	default:
		channel = tokenchannel.NewMemory()
	}
	defer channel.Close()

	dispatcher := dispatch.New(cfg, responseCache, classifier, recorder, channel, os.Getenv("ASSISTANT_TOKEN"), log)
	defer dispatcher.Close()

	snapshots, err := snapshot.NewManager(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize snapshot storage")
	}

	var profiles conversation.ProfileProvider
	if *profilePath != "" {
		profiles = conversation.FileProfile{Path: *profilePath}
	}

	var writer conversation.SnapshotWriter
	if snapshots != nil {
		writer = snapshots
	}

	store := conversation.NewStore("cli", dispatcher, profiles, writer, localizer, lang, log)

	if cfg.Monitoring.Metrics.Enabled {
		go func() {
			log.WithFields(logrus.Fields{
				"port": cfg.Monitoring.Metrics.Port,
				"path": cfg.Monitoring.Metrics.Path,
			}).Info("Starting metrics server")

			if err := analytics.StartMetricsServer(cfg.Monitoring.Metrics.Port, cfg.Monitoring.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	if *question != "" {
		reply := store.SendMessage(ctx, *question)
		printReply(reply.Text, reply.Source, *htmlOut)
		return
	}

	runREPL(ctx, store, localizer, lang, *htmlOut)
	log.Info("Assistant stopped")
}

func runREPL(ctx context.Context, store *conversation.Store, localizer *i18n.Localizer, lang string, html bool) {
	fmt.Println(localizer.Get(lang, i18n.MsgWelcome, nil))
	store.SetOpen(true)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "/quit", "/sair":
			fmt.Println(localizer.Get(lang, i18n.MsgGoodbye, nil))
			return
		case "/clear":
			store.Clear()
			fmt.Println(localizer.Get(lang, i18n.MsgCleared, nil))
			continue
		case "/open":
			store.ToggleOpen()
			fmt.Printf("panel open: %v\n", store.State().IsPanelOpen)
			continue
		}

		reply := store.SendMessage(ctx, line)
		printReply(reply.Text, reply.Source, html)
	}
}

func printReply(text, source string, html bool) {
	if html {
		text = render.ToDisplayHTML(text)
	}
	if source != "" {
		fmt.Printf("[%s] %s\n", source, text)
		return
	}
	fmt.Println(text)
}
