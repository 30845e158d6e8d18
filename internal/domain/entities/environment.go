package entities

import "time"

// EnvironmentHandle represents an isolated, named runtime environment
// materialized from a LockSpec. The handle is owned by exactly one pipeline
// run and is never referenced across runs.
type EnvironmentHandle struct {
	Name       string
	LockPath   string
	RCPath     string
	CreatedAt  time.Time
	Transcript string // solver output captured during creation
}

// ProjectInstall records the editable install of the local project into an
// environment.
type ProjectInstall struct {
	ProjectDir  string
	Environment string
	Descriptor  string // path of the project descriptor that was found
}
