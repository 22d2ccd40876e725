package commands

// Error messages
const (
	ErrCacheStoreUnavailable    = "cache store unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
)

// Success messages
const (
	MsgConfigurationValid = "Configuration valid"
	MsgNoCachedCommands   = "No cached commands."
	MsgCacheCleared       = "Cache cleared."
	MsgClearCancelled     = "Clear cancelled."
	MsgNoProviders        = "No providers available. Run 'aishell doctor' for details."
)
