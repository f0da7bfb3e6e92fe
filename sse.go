package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	sseChannelBuffer = 16
	sseHeartbeat     = 30 * time.Second
)

// Topic names an event stream. Each game has its own; the leaderboard is
// shared by everyone.
type Topic string

// LeaderboardTopic carries leaderboard_updated events.
const LeaderboardTopic Topic = "leaderboard"

// GameTopic is the stream of a single game.
func GameTopic(gameID string) Topic {
	return Topic("game:" + gameID)
}

// subscriber is one open SSE connection.
type subscriber struct {
	ch    chan string
	topic Topic
}

// Broadcaster fans events out to the subscribers of a topic. Slow
// subscribers lose events rather than blocking play.
type Broadcaster struct {
	mu     sync.RWMutex
	topics map[Topic]map[*subscriber]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{topics: make(map[Topic]map[*subscriber]struct{})}
}

// Subscribe opens a buffered subscription on topic.
func (b *Broadcaster) Subscribe(topic Topic) *subscriber {
	sub := &subscriber{ch: make(chan string, sseChannelBuffer), topic: topic}

	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*subscriber]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Unsubscribe closes the subscription. Calling it twice is harmless.
func (b *Broadcaster) Unsubscribe(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.topics[sub.topic]
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(b.topics, sub.topic)
	}
}

// Send delivers an already encoded event to every subscriber of topic.
func (b *Broadcaster) Send(topic Topic, data string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.topics[topic] {
		select {
		case sub.ch <- data:
		default:
		}
	}
}

// Publish JSON-encodes evt and sends it on topic.
func (b *Broadcaster) Publish(topic Topic, evt any) {
	data, err := json.Marshal(evt)
	if err != nil {
		slog.Error("Encodage de l'événement impossible", "topic", topic, "error", err)
		return
	}
	b.Send(topic, string(data))
}

// PublishLeaderboard announces a new ranking to leaderboard subscribers.
func (b *Broadcaster) PublishLeaderboard(entries []LeaderboardEntry) {
	b.Publish(LeaderboardTopic, leaderboardEvent(entries))
}

func leaderboardEvent(entries []LeaderboardEntry) map[string]any {
	return map[string]any{
		"type":        "leaderboard_updated",
		"leaderboard": entries,
	}
}

// Subscribers counts the open subscriptions on topic.
func (b *Broadcaster) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// ServeSSE streams topic to the client until the request ends. initial,
// when set, is queued before any broadcast event.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, topic Topic, initial func() any, onDisconnect func()) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming non supporté", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := b.Subscribe(topic)
	slog.Debug("Abonné SSE connecté", "topic", topic, "remote", r.RemoteAddr)
	defer func() {
		b.Unsubscribe(sub)
		slog.Debug("Abonné SSE déconnecté", "topic", topic, "remote", r.RemoteAddr)
		if onDisconnect != nil {
			onDisconnect()
		}
	}()

	if initial != nil {
		if data, err := json.Marshal(initial()); err == nil {
			select {
			case sub.ch <- string(data):
			default:
			}
		}
	}

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-sub.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
