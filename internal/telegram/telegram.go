package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"sync"
	"time"

	"projectmap/internal/model"
)

const defaultAPIBase = "https://api.telegram.org"

// Sender posts dataset notifications to a Telegram chat through a single
// rate-limited worker.
type Sender struct {
	token    string
	chat     string
	threadID *int
	apiBase  string

	client       *http.Client
	queue        chan string
	minInterval  time.Duration
	lastSentTime time.Time

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewSender(token, chat string, threadID *int) *Sender {
	s := &Sender{
		token:       token,
		chat:        chat,
		threadID:    threadID,
		apiBase:     defaultAPIBase,
		client:      &http.Client{Timeout: 15 * time.Second},
		queue:       make(chan string, 100),
		minInterval: 1200 * time.Millisecond,
		done:        make(chan struct{}),
	}

	go s.worker()
	return s
}

// SendImport queues a summary message. A full queue drops the message
// instead of blocking the upload that triggered it.
func (s *Sender) SendImport(summary model.ImportSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		log.Printf("[telegram] sender closed; dropping notification for %s", summary.Origin)
		return
	}

	message := formatMessage(summary)
	for _, part := range splitMessage(message, 4096) {
		select {
		case s.queue <- part:
		default:
			log.Printf("[telegram] queue full; dropping notification for %s", summary.Origin)
			return
		}
	}
}

func (s *Sender) worker() {
	defer close(s.done)
	for msg := range s.queue {
		s.sendWithRateLimit(msg)
	}
}

// Close stops accepting notifications and waits for the queued ones to be
// sent. Messages still queued when ctx ends are abandoned.
func (s *Sender) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		log.Printf("[telegram] shutdown before queue drained: %v", ctx.Err())
		return ctx.Err()
	}
}

func (s *Sender) sendWithRateLimit(text string) {
	wait := time.Until(s.lastSentTime.Add(s.minInterval))
	if wait > 0 {
		time.Sleep(wait)
	}

	retryAfter, err := s.postMessage(text)
	if err != nil {
		if retryAfter > 0 {
			log.Printf("[telegram] rate limit hit; retrying after %s", retryAfter)
			time.Sleep(retryAfter)
			if _, retryErr := s.postMessage(text); retryErr != nil {
				log.Printf("[telegram] retry failed: %v", retryErr)
				return
			}
			s.lastSentTime = time.Now()
			log.Printf("[telegram] notification sent (after retry)")
			return
		}

		log.Printf("[telegram] send error: %v", err)
		return
	}

	s.lastSentTime = time.Now()
	log.Printf("[telegram] notification sent")
}

func (s *Sender) postMessage(text string) (time.Duration, error) {
	payload := map[string]any{
		"chat_id":    s.chat,
		"text":       text,
		"parse_mode": "HTML",
	}
	if s.threadID != nil {
		payload["message_thread_id"] = *s.threadID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.token), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var parsed telegramResponse
	_ = json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode == http.StatusTooManyRequests && parsed.Parameters.RetryAfter > 0 {
		return time.Duration(parsed.Parameters.RetryAfter) * time.Second, fmt.Errorf("rate limited")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("telegram error: %d %s", resp.StatusCode, parsed.Description)
	}

	return 0, nil
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

func formatMessage(summary model.ImportSummary) string {
	message := fmt.Sprintf("🗺 <b>Dataset replaced</b>\n📄 Source: %s (%s)\n", html.EscapeString(summary.Origin), summary.Format)
	message += fmt.Sprintf("🏢 Projects: %d\n📍 On map: %d\n", summary.Projects, summary.Plotted)
	message += fmt.Sprintf("🧭 Provinces: %d\n", summary.Provinces)
	if !summary.ImportedAt.IsZero() {
		message += fmt.Sprintf("⏰ %s", summary.ImportedAt.Format("2006-01-02 15:04"))
	}
	return message
}

func splitMessage(message string, limit int) []string {
	runes := []rune(message)
	if len(runes) <= limit {
		return []string{message}
	}

	parts := []string{}
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
