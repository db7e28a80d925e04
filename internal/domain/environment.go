package domain

import "fmt"

// EnvironmentType identifies a dictionary/index deployment target.
type EnvironmentType string

// Environment type constants.
const (
	EnvDev  EnvironmentType = "dev"
	EnvProd EnvironmentType = "prod"
	// EnvCurrent resolves to whichever environment currently serves live traffic.
	EnvCurrent EnvironmentType = "current"
)

// IsValid checks that the environment type is one of the supported values.
func (e EnvironmentType) IsValid() bool {
	return e == EnvDev || e == EnvProd || e == EnvCurrent
}

// ParseEnvironmentType converts a string into an EnvironmentType.
func ParseEnvironmentType(s string) (EnvironmentType, error) {
	e := EnvironmentType(s)
	if !e.IsValid() {
		return "", fmt.Errorf("unknown environment type %q", s)
	}
	return e, nil
}

// IndexStatus is the serving state of an index environment.
type IndexStatus string

// Index status constants.
const (
	IndexActive   IndexStatus = "active"
	IndexInactive IndexStatus = "inactive"
)

// IndexEnvironment describes a blue/green index deployment: which immutable
// index version an environment points at and how many documents it holds.
type IndexEnvironment struct {
	EnvType       EnvironmentType
	Version       string
	DocumentCount int64
	Status        IndexStatus
}

// IsActive reports whether the environment is serving traffic.
func (e IndexEnvironment) IsActive() bool { return e.Status == IndexActive }
