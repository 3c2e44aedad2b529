package domain

type SystemStatus string

const (
	StatusOptimal SystemStatus = "optimal"
	StatusSyncing SystemStatus = "syncing"
	StatusError   SystemStatus = "error"
	StatusOffline SystemStatus = "offline"
)
