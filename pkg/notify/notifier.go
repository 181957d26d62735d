package notify

import (
	"github.com/rs/zerolog"

	"github.com/wristcare/monitor-agent/internal/models"
)

// Notifier is the cross-device notification surface. One banner is visible
// at a time; showing a new one replaces the previous.
type Notifier interface {
	ShowBanner(banner models.Banner) error
	ClearBanner() error
}

// LogNotifier renders banners into the monitor's own log stream.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a new LogNotifier instance.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// ShowBanner logs the banner at warning level.
func (n *LogNotifier) ShowBanner(banner models.Banner) error {
	n.logger.Warn().
		Str("device_id", banner.DeviceID).
		Str("name", banner.Name).
		Str("type", string(banner.Type)).
		Msg("Alert banner shown")
	return nil
}

// ClearBanner logs the banner removal.
func (n *LogNotifier) ClearBanner() error {
	n.logger.Info().Msg("Alert banner cleared")
	return nil
}

// MultiNotifier fans banner updates out to several surfaces, returning the
// first error after trying them all.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a new MultiNotifier instance.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// ShowBanner shows the banner on every surface.
func (n *MultiNotifier) ShowBanner(banner models.Banner) error {
	var firstErr error
	for _, notifier := range n.notifiers {
		if err := notifier.ShowBanner(banner); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ClearBanner clears the banner on every surface.
func (n *MultiNotifier) ClearBanner() error {
	var firstErr error
	for _, notifier := range n.notifiers {
		if err := notifier.ClearBanner(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
