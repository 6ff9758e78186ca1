package domain

// HealthStatus indicates status check outcomes.
type HealthStatus string

const (
	HealthOK    HealthStatus = "ok"
	HealthWarn  HealthStatus = "warn"
	HealthError HealthStatus = "error"
)

// HealthCheck captures a single diagnostic result.
type HealthCheck struct {
	Name    string
	Status  HealthStatus
	Details string
}

// HealthReport aggregates checks.
type HealthReport struct {
	Checks []HealthCheck
}

// BackendAvailable reports whether the remote classification backend answered its
// health probe.
func (r HealthReport) BackendAvailable() bool {
	for _, c := range r.Checks {
		if c.Name == BackendCheckName {
			return c.Status == HealthOK
		}
	}
	return false
}

// BackendCheckName names the remote backend probe inside a HealthReport.
const BackendCheckName = "Classification backend"
