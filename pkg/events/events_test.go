package events

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierFanOut(t *testing.T) {
	n := NewNotifier()
	a := n.Subscribe()
	b := n.Subscribe()
	assert.Equal(t, 2, n.SubscriberCount())

	e := Event{Kind: SetupCreated, SetupID: "s1", Name: "Desk"}
	n.Publish(e)

	assert.Equal(t, e, <-a)
	assert.Equal(t, e, <-b)

	n.Unsubscribe(a)
	n.Unsubscribe(a)
	assert.Equal(t, 1, n.SubscriberCount())
	_, open := <-a
	assert.False(t, open)
}

func TestNotifierDropsForSlowSubscriber(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe()
	for i := 0; i < subscriberBuffer+5; i++ {
		n.Publish(Event{Kind: SetupDeleted})
	}
	assert.Len(t, ch, subscriberBuffer)
}

type recorder struct {
	events []Event
}

func (r *recorder) Publish(e Event) { r.events = append(r.events, e) }

func TestMulti(t *testing.T) {
	r1, r2 := &recorder{}, &recorder{}
	Multi{r1, nil, r2}.Publish(Event{Kind: SetupCreated})
	assert.Len(t, r1.events, 1)
	assert.Len(t, r2.events, 1)
}

type fakeMQTT struct {
	mqtt.Client
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
}

func (f *fakeMQTT) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload.([]byte))
	return &mqtt.DummyToken{}
}

func TestMQTTPublisher(t *testing.T) {
	client := &fakeMQTT{}
	p := newMQTTPublisher(client, "buythatworks/setups")

	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	p.Publish(Event{Kind: SetupCreated, SetupID: "s1", Name: "Desk", IsCurrent: true, At: at})

	client.mu.Lock()
	defer client.mu.Unlock()
	require.Len(t, client.topics, 1)
	assert.Equal(t, "buythatworks/setups/setup-created", client.topics[0])

	var got Event
	require.NoError(t, json.Unmarshal(client.payloads[0], &got))
	assert.Equal(t, "s1", got.SetupID)
	assert.True(t, got.IsCurrent)
	assert.True(t, at.Equal(got.At))
}
