// Package hooks runs the embedded MQTT broker that serves setup events to
// read-only subscribers.
package hooks

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"sync"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/packets"
)

// SetupEventsHookOptions contains configuration settings for the hook.
type SetupEventsHookOptions struct {
	Server *mqtt.Server
	// Topic is the event topic root; clients may read Topic and below.
	Topic string
	// Username and Password, when Username is set, are required to connect.
	Username string
	Password string
}

// SetupEventsHook authenticates subscribers and keeps them read-only. Only
// the broker's inline client publishes.
type SetupEventsHook struct {
	mqtt.HookBase
	config  *SetupEventsHookOptions
	filter  auth.RString
	clients map[string]string
	mu      sync.RWMutex
}

func (h *SetupEventsHook) ID() string {
	return "setup-events-hook"
}

func (h *SetupEventsHook) Provides(b byte) bool {
	return bytes.Contains([]byte{
		mqtt.OnConnectAuthenticate,
		mqtt.OnACLCheck,
		mqtt.OnDisconnect,
		mqtt.OnSubscribed,
		mqtt.OnUnsubscribed,
	}, []byte{b})
}

func (h *SetupEventsHook) Init(config any) error {
	opts, ok := config.(*SetupEventsHookOptions)
	if !ok || opts == nil || opts.Server == nil || opts.Topic == "" {
		return mqtt.ErrInvalidConfigType
	}
	h.config = opts
	h.filter = auth.RString(opts.Topic + "/#")
	h.clients = make(map[string]string)
	h.Log.Info("initialised", "topic", opts.Topic)
	return nil
}

// OnConnectAuthenticate accepts everyone when no username is configured,
// otherwise only the configured credentials.
func (h *SetupEventsHook) OnConnectAuthenticate(cl *mqtt.Client, pk packets.Packet) bool {
	user := string(pk.Connect.Username)
	if h.config.Username != "" {
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(h.config.Username)) == 1
		passOK := subtle.ConstantTimeCompare(pk.Connect.Password, []byte(h.config.Password)) == 1
		if !userOK || !passOK {
			h.Log.Info("client failed authentication check", "username", user, "remote", cl.Net.Remote)
			return false
		}
	}

	h.mu.Lock()
	h.clients[cl.ID] = user
	h.mu.Unlock()
	h.Log.Info("client authenticated", "username", user, "client", cl.ID)
	return true
}

// OnACLCheck lets clients read the event topics and nothing else. Writes
// are refused for everyone but the inline client.
func (h *SetupEventsHook) OnACLCheck(cl *mqtt.Client, topic string, write bool) bool {
	if cl.Net.Inline {
		return true
	}
	if write {
		h.Log.Debug("client write refused", "client", cl.ID, "topic", topic)
		return false
	}
	return h.filter.FilterMatches(topic) || topic == h.config.Topic
}

func (h *SetupEventsHook) OnDisconnect(cl *mqtt.Client, err error, expire bool) {
	h.mu.Lock()
	delete(h.clients, cl.ID)
	h.mu.Unlock()
	if err != nil {
		h.Log.Info("client disconnected", "client", cl.ID, "expire", expire, "error", err)
	} else {
		h.Log.Info("client disconnected", "client", cl.ID, "expire", expire)
	}
}

func (h *SetupEventsHook) OnSubscribed(cl *mqtt.Client, pk packets.Packet, reasonCodes []byte) {
	h.Log.Info(fmt.Sprintf("subscribed qos=%v", reasonCodes), "client", cl.ID, "filters", pk.Filters)
}

func (h *SetupEventsHook) OnUnsubscribed(cl *mqtt.Client, pk packets.Packet) {
	h.Log.Info("unsubscribed", "client", cl.ID, "filters", pk.Filters)
}

// ClientCount returns the number of authenticated, connected clients.
func (h *SetupEventsHook) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
