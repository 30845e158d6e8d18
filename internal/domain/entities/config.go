package entities

// HarnessConfig holds the resolved configuration for one pipeline run.
// It is threaded explicitly through every step; nothing here is global.
type HarnessConfig struct {
	EnvName        string
	LockfilePath   string
	RCPath         string
	ProjectDir     string
	KeyringPath    string
	DatasetURL     string
	DatasetDir     string
	SuitePath      string
	DurationsCount int
	Verbosity      int
}
