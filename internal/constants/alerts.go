package constants

// AlertType identifies the condition a wearable reported.
type AlertType string

const (
	AlertSeizure AlertType = "seizure"
	AlertFall    AlertType = "fall"
	AlertSOS     AlertType = "sos"
)

// AlertState is the lifecycle state of one (device, type) pair.
type AlertState string

const (
	// AlertStateIdle indicates no active condition of this type.
	AlertStateIdle AlertState = "idle"
	// AlertStateSounding indicates the condition is active and the siren is engaged.
	AlertStateSounding AlertState = "sounding"
	// AlertStateAcknowledged indicates the condition is active but an operator silenced it.
	AlertStateAcknowledged AlertState = "acknowledged"
)

// AlertPriority ranks concurrent alert types; lower value wins.
// Reordering this map is the single place to change clinical precedence.
var AlertPriority = map[AlertType]int{
	AlertSeizure: 0,
	AlertFall:    1,
	AlertSOS:     2,
}

// AlertTypesByPriority lists the types from most to least urgent.
var AlertTypesByPriority = []AlertType{AlertSeizure, AlertFall, AlertSOS}
