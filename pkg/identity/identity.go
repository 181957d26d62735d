package identity

import (
	"os"

	"github.com/google/uuid"
	"github.com/wristcare/monitor-agent/pkg/file"
)

// Identity names this monitor instance. The id is generated once and
// persisted; the operator label is what clear requests attribute
// acknowledgments to.
type Identity struct {
	MonitorID string `json:"monitor_id,omitempty"`
	Operator  string `json:"operator,omitempty"`
}

// MonitorInfoInterface defines methods for managing the monitor identity.
type MonitorInfoInterface interface {
	Load() error
	GetMonitorID() string
	GetOperator() string
}

// MonitorInfo manages the monitor identity and its backing file.
type MonitorInfo struct {
	InfoFile string
	Identity Identity
	fileOps  file.FileOperations
}

// NewMonitorInfo initializes a new MonitorInfo instance.
func NewMonitorInfo(filePath string, fileOps file.FileOperations) MonitorInfoInterface {
	return &MonitorInfo{
		InfoFile: filePath,
		fileOps:  fileOps,
		Identity: Identity{},
	}
}

// Load reads the identity file, generating and persisting a fresh monitor
// id when the file is missing or has none yet.
func (m *MonitorInfo) Load() error {
	err := m.fileOps.ReadJsonFile(m.InfoFile, &m.Identity)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if m.Identity.MonitorID == "" {
		m.Identity.MonitorID = uuid.NewString()
		return m.fileOps.WriteJsonFile(m.InfoFile, m.Identity)
	}

	return nil
}

// GetMonitorID returns the persistent id of this monitor instance.
func (m *MonitorInfo) GetMonitorID() string {
	return m.Identity.MonitorID
}

// GetOperator returns the configured operator label, falling back to the
// monitor id when none was set.
func (m *MonitorInfo) GetOperator() string {
	if m.Identity.Operator == "" {
		return m.Identity.MonitorID
	}
	return m.Identity.Operator
}
