package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/models"
)

// Client is the care-server API the monitor consumes. The backend owns raw
// events and current flag values; the only write the monitor ever issues is
// a clear request.
type Client interface {
	Latest(ctx context.Context, deviceID string) (models.DeviceStatus, error)
	Events(ctx context.Context, deviceID string) ([]models.Event, error)
	AlertsAll(ctx context.Context) ([]models.AlertSummaryEntry, error)
	AlertStatus(ctx context.Context, deviceID string) (models.AlertFlags, error)
	ClearAlert(ctx context.Context, deviceID string, clearedBy string) error
}

// HTTPClient implements Client over the backend's REST surface.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient initializes a client for the given base URL. Every request
// is bounded by the configured timeout; apiKey may be empty.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Latest fetches the current status row for one device.
func (c *HTTPClient) Latest(ctx context.Context, deviceID string) (models.DeviceStatus, error) {
	var status models.DeviceStatus
	err := c.getJSON(ctx, "/latest/"+url.PathEscape(deviceID), &status)
	return status, err
}

// Events fetches a device's event log. The endpoint has served two shapes
// over time; both are accepted and anything else degrades to an empty log
// so a refresh never fails on shape alone.
func (c *HTTPClient) Events(ctx context.Context, deviceID string) ([]models.Event, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/events/"+url.PathEscape(deviceID), &raw); err != nil {
		return nil, err
	}
	return c.decodeEvents(raw, deviceID), nil
}

// AlertsAll fetches the summary of every device with an active condition.
func (c *HTTPClient) AlertsAll(ctx context.Context) ([]models.AlertSummaryEntry, error) {
	var entries []models.AlertSummaryEntry
	err := c.getJSON(ctx, "/alerts_all", &entries)
	return entries, err
}

// AlertStatus fetches the live flag values for one device.
func (c *HTTPClient) AlertStatus(ctx context.Context, deviceID string) (models.AlertFlags, error) {
	var flags models.AlertFlags
	err := c.getJSON(ctx, "/alert_status/"+url.PathEscape(deviceID), &flags)
	return flags, err
}

// ClearAlert asks the backend to drop a device's active conditions,
// attributing the action to clearedBy. A non-2xx reply is returned as an
// error because the caller surfaces it to the operator.
func (c *HTTPClient) ClearAlert(ctx context.Context, deviceID string, clearedBy string) error {
	body, err := json.Marshal(map[string]string{"cleared_by": clearedBy})
	if err != nil {
		return fmt.Errorf("failed to serialize clear request: %w", err)
	}

	path := "/clear_alert/" + url.PathEscape(deviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("clear request for %s failed: %w", deviceID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("clear request for %s returned status %d", deviceID, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request to %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}

func (c *HTTPClient) decodeEvents(raw json.RawMessage, deviceID string) []models.Event {
	var list []models.Event
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var keyed map[string]struct {
		Events []models.Event `json:"events"`
	}
	if err := json.Unmarshal(raw, &keyed); err == nil {
		if entry, ok := keyed[deviceID]; ok {
			return entry.Events
		}
		for _, entry := range keyed {
			if len(entry.Events) > 0 {
				return entry.Events
			}
		}
	}

	c.logger.Warn().Str("device_id", deviceID).Msg("Unexpected events payload shape, treating as empty")
	return []models.Event{}
}
