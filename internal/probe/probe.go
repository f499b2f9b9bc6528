package probe

// Status represents the outcome of a probe execution.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusUnknown  Status = "unknown"
)

// Statuses lists every status of the health taxonomy.
var Statuses = []Status{StatusOK, StatusWarning, StatusCritical, StatusUnknown}

// NotAvailable is the value reported for a metric the service did not return.
const NotAvailable = "N/A"

// Metric is a single name=value line.
type Metric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Result is the standard output format for probes.
// Metrics keep the order in which they were collected.
type Result struct {
	Status  Status   `json:"status"`
	Message string   `json:"message,omitempty"`
	Metrics []Metric `json:"metrics,omitempty"`
}

// Add appends a metric line.
func (r *Result) Add(name, value string) {
	r.Metrics = append(r.Metrics, Metric{Name: name, Value: value})
}

// Fail sets a terminal verdict from err. A *Failure keeps its own status;
// any other error is reported as unknown.
func (r *Result) Fail(err error) *Result {
	f := AsFailure(err)
	r.Status = f.Status
	r.Message = f.Message
	return r
}

// Description is the self-description format for probes.
type Description struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	Subcommand  string    `json:"subcommand,omitempty"`
	Arguments   Arguments `json:"arguments"`
}

// Arguments describes required and optional probe configuration keys.
type Arguments struct {
	Required map[string]ArgumentSpec `json:"required,omitempty"`
	Optional map[string]ArgumentSpec `json:"optional,omitempty"`
}

// ArgumentSpec describes a single argument.
type ArgumentSpec struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}
