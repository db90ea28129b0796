package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Service describes one containerized service known to the local daemon.
type Service struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Downloaded bool   `json:"downloaded"`
	Running    bool   `json:"running"`
}

// DownloadEvent is one line of the daemon's download progress stream.
// The daemon emits {"percentage": N} events and terminates a successful
// stream with {"done": true}.
type DownloadEvent struct {
	Percentage int  `json:"percentage"`
	Done       bool `json:"done"`
}

// ProgressStreamer is the download stream backend as seen by the Tracker.
type ProgressStreamer interface {
	StreamDownload(ctx context.Context, serviceID string) (<-chan DownloadEvent, error)
}

// Client talks to the local service daemon over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ping checks whether the service runtime is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return fmt.Errorf("daemon health: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("daemon health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon health: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// ListServices returns all services the daemon knows about, including whether
// each one is downloaded and running.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/services/", nil)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list services: unexpected status %d", resp.StatusCode)
	}

	var result []Service
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("list services: decode response: %w", err)
	}
	return result, nil
}

// StreamDownload starts a service download and returns a channel of progress
// events. The channel closes when the daemon signals done, the stream breaks,
// or ctx is cancelled. A close without a Done event means the download failed.
func (c *Client) StreamDownload(ctx context.Context, serviceID string) (<-chan DownloadEvent, error) {
	url := fmt.Sprintf("%s/v1/services/%s/download", c.baseURL, serviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", serviceID, err)
	}

	// The stream outlives the regular request timeout.
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", serviceID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %d", serviceID, resp.StatusCode)
	}

	events := make(chan DownloadEvent)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var event DownloadEvent
			if err := json.Unmarshal([]byte(line), &event); err != nil {
				// Malformed line, skip it and keep reading.
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}

			if event.Done {
				return
			}
		}
	}()

	return events, nil
}
