package hooks

import (
	"encoding/json"
	"log/slog"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/listeners"

	"github.com/restynation/buythatworks/pkg/config"
	"github.com/restynation/buythatworks/pkg/events"
)

// Broker is an embedded MQTT server that publishes each setup event as JSON
// to "<topic>/<kind>". It implements events.Publisher.
type Broker struct {
	server *mqtt.Server
	hook   *SetupEventsHook
	topic  string
	log    *slog.Logger
}

// NewBroker builds the broker and, when cfg.Listen is set, a TCP listener
// on that address. Call Serve to start accepting clients.
func NewBroker(cfg config.BrokerSettings) (*Broker, error) {
	log := slog.Default().With("component", "broker")
	server := mqtt.New(&mqtt.Options{
		InlineClient: true,
		Logger:       log,
	})

	hook := new(SetupEventsHook)
	err := server.AddHook(hook, &SetupEventsHookOptions{
		Server:   server,
		Topic:    cfg.Topic,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Listen != "" {
		tcp := listeners.NewTCP(listeners.Config{ID: "setup-events", Address: cfg.Listen})
		if err := server.AddListener(tcp); err != nil {
			return nil, err
		}
	}
	return &Broker{server: server, hook: hook, topic: cfg.Topic, log: log}, nil
}

// Serve starts the listeners. It does not block.
func (b *Broker) Serve() error {
	return b.server.Serve()
}

func (b *Broker) Close() error {
	return b.server.Close()
}

// Topic returns the topic an event of kind k is published to.
func (b *Broker) Topic(k events.Kind) string {
	return b.topic + "/" + string(k)
}

func (b *Broker) Publish(e events.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		b.log.Error("error encoding event", "error", err)
		return
	}
	topic := b.Topic(e.Kind)
	if err := b.server.Publish(topic, payload, false, 0); err != nil {
		b.log.Error("error publishing event", "topic", topic, "error", err)
	}
}

func (b *Broker) ClientCount() int {
	return b.hook.ClientCount()
}
