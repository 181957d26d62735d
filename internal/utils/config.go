package utils

import (
	"time"

	"github.com/wristcare/monitor-agent/pkg/file"
)

// Config represents the structure of the configuration file.
type Config struct {
	Backend struct {
		URL            string        `yaml:"url"`             // Base URL of the wearable backend
		APIKey         string        `yaml:"api_key"`         // API key sent on every request
		RequestTimeout time.Duration `yaml:"request_timeout"` // Per-request timeout (in seconds)
	} `yaml:"backend"`

	MQTT struct {
		Broker        string `yaml:"broker"`         // MQTT broker address
		ClientID      string `yaml:"client_id"`      // MQTT client ID
		Username      string `yaml:"username"`       // Broker username, empty for anonymous
		Password      string `yaml:"password"`       // Broker password
		CACertificate string `yaml:"ca_certificate"` // Path to the CA certificate
	} `yaml:"mqtt"`

	Identity struct {
		MonitorFile string `yaml:"monitor_file"` // Path to the monitor identity file
	} `yaml:"identity"`

	Devices struct {
		Focused string   `yaml:"focused"` // Device the operator watches at startup
		Tracked []string `yaml:"tracked"` // Devices polled for history refreshes
	} `yaml:"devices"`

	Operator string `yaml:"operator"` // Operator name reported on alert clears

	Services struct {
		Status struct {
			Enabled  bool          `yaml:"enabled"`  // Enable/disable focused-device status polling
			Interval time.Duration `yaml:"interval"` // Interval between status polls (in seconds)
		} `yaml:"status"`

		GlobalAlert struct {
			Enabled     bool          `yaml:"enabled"`      // Enable/disable fleet-wide alert polling
			Interval    time.Duration `yaml:"interval"`     // Interval between summary polls (in seconds)
			BannerTopic string        `yaml:"banner_topic"` // MQTT topic for cross-device banners
			QOS         int           `yaml:"qos"`          // MQTT QoS level for banner messages
		} `yaml:"global_alert"`

		EventRefresh struct {
			Enabled  bool          `yaml:"enabled"`  // Enable/disable event history refreshes
			Interval time.Duration `yaml:"interval"` // Interval between refreshes (in seconds)
		} `yaml:"event_refresh"`

		RemoteControl struct {
			Enabled    bool   `yaml:"enabled"`     // Enable/disable remote commands over MQTT
			AckTopic   string `yaml:"ack_topic"`   // MQTT topic carrying acknowledge requests
			FocusTopic string `yaml:"focus_topic"` // MQTT topic carrying focus switches
			QOS        int    `yaml:"qos"`         // MQTT QoS level for command subscriptions
		} `yaml:"remote_control"`

		Diagnostics struct {
			Enabled    bool          `yaml:"enabled"`    // Enable/disable runtime diagnostics
			Interval   time.Duration `yaml:"interval"`   // Interval between samples (in seconds)
			Timeout    time.Duration `yaml:"timeout"`    // Timeout for collecting one sample (in seconds)
			QOS        int           `yaml:"qos"`        // MQTT QoS level for diagnostics samples
			Collectors []string      `yaml:"collectors"` // Collector names to run, empty for all
		} `yaml:"diagnostics"`
	} `yaml:"services"`

	Files struct {
		AckStateFile string `yaml:"ack_state_file"` // Path where acknowledgments persist
	} `yaml:"files"`
}

// LoadConfig loads the YAML configuration from the specified file.
// It returns a pointer to the Config struct and an error if loading fails.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	// Use the ReadYamlFile method from fileClient
	var config Config
	err := fileClient.ReadYamlFile(filename, &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}
