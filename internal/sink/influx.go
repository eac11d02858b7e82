// Package sink provides event sink implementations for delivering
// metric events to observability backends.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tbrooke/backup-monitor/internal/domain"
	"github.com/tbrooke/backup-monitor/internal/httpclient"
)

const influxContentType = "application/octet-stream"

// InfluxSink writes events to an InfluxDB 1.x endpoint using the line
// protocol. Service names are flattened dots-to-underscores so each
// event becomes one measurement.
type InfluxSink struct {
	url        string
	database   string
	username   string
	password   string
	httpClient *httpclient.Client
	logger     *slog.Logger
}

// InfluxOption configures an InfluxSink.
type InfluxOption func(*InfluxSink)

// WithInfluxCredentials sets the query-parameter credentials.
func WithInfluxCredentials(username, password string) InfluxOption {
	return func(s *InfluxSink) {
		s.username = username
		s.password = password
	}
}

// WithInfluxHTTPClient sets a custom HTTP client.
func WithInfluxHTTPClient(client *httpclient.Client) InfluxOption {
	return func(s *InfluxSink) {
		s.httpClient = client
	}
}

// WithInfluxLogger sets the logger.
func WithInfluxLogger(logger *slog.Logger) InfluxOption {
	return func(s *InfluxSink) {
		s.logger = logger
	}
}

// NewInfluxSink creates an InfluxSink writing to the given base URL
// and database.
func NewInfluxSink(baseURL, database string, opts ...InfluxOption) *InfluxSink {
	s := &InfluxSink{
		url:        strings.TrimSuffix(baseURL, "/"),
		database:   database,
		httpClient: httpclient.NewClient(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Send posts the batch as line protocol to /write.
func (s *InfluxSink) Send(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, lineProtocol(e))
	}
	body := strings.Join(lines, "\n")

	writeURL := fmt.Sprintf("%s/write?%s", s.url, s.queryParams())

	s.logger.Debug("writing events to influxdb",
		"url", s.url, "database", s.database, "events", len(events))

	resp, err := s.httpClient.Post(ctx, writeURL, influxContentType, []byte(body))
	if err != nil {
		return fmt.Errorf("failed to write events: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("influxdb returned status %d: %s", resp.StatusCode, string(resp.Body))
	}

	return nil
}

// Validate checks if the InfluxDB endpoint is reachable.
func (s *InfluxSink) Validate(ctx context.Context) error {
	pingURL := fmt.Sprintf("%s/ping", s.url)
	if err := s.httpClient.CheckConnectivity(ctx, pingURL); err != nil {
		return fmt.Errorf("influxdb not reachable at %s: %w", s.url, err)
	}
	return nil
}

func (s *InfluxSink) queryParams() string {
	params := url.Values{}
	params.Set("db", s.database)
	if s.username != "" {
		params.Set("u", s.username)
		params.Set("p", s.password)
	}
	return params.Encode()
}

// lineProtocol renders one event as an InfluxDB line. The state label
// travels as a tag so dashboards can filter on it.
func lineProtocol(e domain.Event) string {
	var b strings.Builder

	b.WriteString(strings.ReplaceAll(e.Service, ".", "_"))
	b.WriteString(",host=")
	b.WriteString(escapeTag(e.Host))
	if e.State != "" {
		b.WriteString(",state=")
		b.WriteString(escapeTag(e.State))
	}

	b.WriteString(" value=")
	b.WriteString(strconv.FormatFloat(e.Metric, 'f', -1, 64))

	b.WriteString(" ")
	b.WriteString(strconv.FormatInt(e.Time*int64(time.Second), 10))

	return b.String()
}

// escapeTag escapes the characters the line protocol reserves in tag
// values.
func escapeTag(v string) string {
	r := strings.NewReplacer(",", `\,`, " ", `\ `, "=", `\=`)
	return r.Replace(v)
}

// Ensure InfluxSink implements domain.EventSink.
var _ domain.EventSink = (*InfluxSink)(nil)
