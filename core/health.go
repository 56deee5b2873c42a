package f

const (
	StatusUp       = "UP"
	StatusDown     = "DOWN"
	StatusDegraded = "DEGRADED"
)

type HealthCheckResponse struct {
	Whoami     string                          `json:"whoami"`
	Version    string                          `json:"version,omitempty"`
	Status     string                          `json:"status"`
	Components map[string]HealthCheckComponent `json:"components"`
}

type HealthCheckComponent struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

type HealthCheck struct {
	info       AppInfo
	status     string
	components map[string]HealthCheckComponent
}

func NewHealthCheck(info AppInfo) HealthCheck {
	return HealthCheck{
		info:       info,
		status:     StatusUp,
		components: make(map[string]HealthCheckComponent),
	}
}

// Add runs tester and marks the whole check DOWN when it fails.
func (b *HealthCheck) Add(name string, tester func() error) {
	var message string
	status := StatusUp
	if err := tester(); err != nil {
		status = StatusDown
		message = err.Error()
		b.status = StatusDown
	}
	b.components[name] = HealthCheckComponent{
		Message: message,
		Status:  status,
	}
}

// Degrade records a component that works with reduced service. It never
// overrides a DOWN status.
func (b *HealthCheck) Degrade(name string, message string) {
	b.components[name] = HealthCheckComponent{Status: StatusDegraded, Message: message}
	if b.status == StatusUp {
		b.status = StatusDegraded
	}
}

func (b *HealthCheck) Build() HealthCheckResponse {
	return HealthCheckResponse{
		Whoami:     b.info.Name,
		Version:    b.info.Version,
		Status:     b.status,
		Components: b.components,
	}
}
