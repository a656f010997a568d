package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/restynation/buythatworks/pkg/catalog"
	"github.com/restynation/buythatworks/pkg/config"
	"github.com/restynation/buythatworks/pkg/events"
	"github.com/restynation/buythatworks/pkg/hooks"
	"github.com/restynation/buythatworks/pkg/imagestore"
	"github.com/restynation/buythatworks/pkg/logging"
	"github.com/restynation/buythatworks/pkg/routes"
	"github.com/restynation/buythatworks/pkg/store"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Configuration) error {
	db, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		return err
	}
	stores := store.New(db)

	loader := catalog.NewLoader(stores.Catalog, cfg.Catalog.CacheTTL)
	defer loader.Stop()

	images, err := imagestore.New(afero.NewOsFs(), cfg.Images.Dir, cfg.Images.PublicPrefix,
		imagestore.WithMaxBytes(cfg.Images.MaxBytes))
	if err != nil {
		return err
	}

	var extra []events.Publisher
	if cfg.Events.MQTT.Broker != "" {
		pub, err := events.NewMQTTPublisher(cfg.Events.MQTT)
		if err != nil {
			return err
		}
		defer pub.Close()
		extra = append(extra, pub)
		slog.Info("publishing setup events", "broker", cfg.Events.MQTT.Broker, "topic", cfg.Events.MQTT.Topic)
	}

	if cfg.Events.Broker.Listen != "" {
		broker, err := hooks.NewBroker(cfg.Events.Broker)
		if err != nil {
			return err
		}
		if err := broker.Serve(); err != nil {
			return err
		}
		defer broker.Close()
		extra = append(extra, broker)
		slog.Info("serving setup events", "listen", cfg.Events.Broker.Listen, "topic", cfg.Events.Broker.Topic)
	}

	return routes.NewWebRouter(cfg, stores, loader, images, extra...).Initialize()
}
