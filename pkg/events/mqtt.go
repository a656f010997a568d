package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/restynation/buythatworks/pkg/auth"
	"github.com/restynation/buythatworks/pkg/config"
)

const connectTimeout = 10 * time.Second

// MQTTPublisher forwards events as JSON to "<topic>/<kind>".
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher connects to the configured broker. The client id gets a
// random suffix so several servers can share a broker.
func NewMQTTPublisher(cfg config.MQTTSettings) (*MQTTPublisher, error) {
	suffix, err := auth.RandomHex(4)
	if err != nil {
		return nil, err
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID + "-" + suffix).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			slog.Warn("mqtt connection lost", "broker", cfg.Broker, "error", err)
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connecting to %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Broker, err)
	}
	slog.Info("connected to mqtt broker", "broker", cfg.Broker, "topic", cfg.Topic)
	return newMQTTPublisher(client, cfg.Topic), nil
}

func newMQTTPublisher(client mqtt.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic}
}

// Topic returns the topic an event of kind k is published to.
func (p *MQTTPublisher) Topic(k Kind) string {
	return p.topic + "/" + string(k)
}

func (p *MQTTPublisher) Publish(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		slog.Error("error encoding event", "error", err)
		return
	}
	topic := p.Topic(e.Kind)
	token := p.client.Publish(topic, 1, false, payload)
	go func() {
		if token.WaitTimeout(connectTimeout) && token.Error() != nil {
			slog.Error("error publishing event", "topic", topic, "error", token.Error())
		}
	}()
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
