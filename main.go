package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ServerDesk/bot"
	"ServerDesk/impl/core"
	"ServerDesk/internal/config"
	"ServerDesk/internal/database"
	"ServerDesk/internal/http-server/api"
	"ServerDesk/internal/http-server/middleware/authenticate"
	"ServerDesk/internal/lib/logger"
	"ServerDesk/internal/lib/sl"
	"ServerDesk/internal/locale"
	"ServerDesk/internal/query"
	"ServerDesk/internal/registry"
	"ServerDesk/internal/service/fleet"
	"ServerDesk/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Telegram bot if enabled
	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			// Set up Telegram handler for the logger
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelWarn)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting serverdesk", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	bundle, err := locale.LoadEmbedded(conf.Bot.Locale)
	if err != nil {
		lg.Error("load locale catalogs", sl.Err(err))
		os.Exit(1)
	}
	if err = bundle.Validate(); err != nil {
		lg.Error("locale catalog incomplete", sl.Err(err))
		os.Exit(1)
	}
	lg.Info("locale selected", slog.String("locale", bundle.Tag().String()))

	reg := registry.New(conf.Registry.Timeout, lg)
	go reg.Run(ctx)

	fleetService := fleet.NewService(reg, lg)
	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.Error("mongo client", sl.Err(err))
	}
	if db != nil {
		fleetService.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}
	if err = fleetService.Load(ctx, conf.Servers); err != nil {
		lg.Error("load server profiles", sl.Err(err))
		os.Exit(1)
	}

	handler := core.New(lg, conf.Bot.ServerId, bundle)
	handler.SetRegistry(reg)
	handler.SetQueryClient(query.New(conf.Query.Timeout, lg))

	feed := ws.NewHub(lg)
	go feed.Run(ctx)
	handler.SetObserver(feed)

	if tgBot != nil {
		tgBot.SetCore(handler)
		go func() {
			if err := tgBot.Start(); err != nil {
				lg.Error("telegram bot error", sl.Err(err))
			}
		}()
	}

	if !conf.Listen.Enabled {
		<-ctx.Done()
		lg.Info("service stopped")
		return
	}

	apiHandler := struct {
		*core.Core
		*fleet.Service
		authenticate.StaticKey
	}{
		Core:      handler,
		Service:   fleetService,
		StaticKey: authenticate.StaticKey{Key: conf.Listen.ApiKey},
	}

	// *** blocking start with http server ***
	err = api.New(ctx, conf, lg, apiHandler, feed)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Info("service stopped")
}
