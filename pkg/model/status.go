package model

// Status is the normalized lifecycle state of a node or project.
// Ingested data arrives in several historical vocabularies (legacy color
// strings, phase/completeness objects, state/progress objects); all of them
// normalize to this enum.
type Status string

// Canonical status values.
const (
	StatusBuilding   Status = "building"
	StatusBacklogged Status = "backlogged"
	StatusBlocked    Status = "blocked"
	StatusBurned     Status = "burned"
	StatusBuilt      Status = "built"
	StatusBroken     Status = "broken"
)

// legacyToStatus maps legacy color strings to canonical statuses.
var legacyToStatus = map[string]Status{
	"green":  StatusBuilt,
	"orange": StatusBuilding,
	"red":    StatusBroken,
	"gray":   StatusBacklogged,
}

// statusToColor maps canonical statuses back to the color keys consumed by
// the render collaborator. Blocked and burned have no dedicated color and
// reuse the nearest legacy one.
var statusToColor = map[Status]string{
	StatusBuilt:      "green",
	StatusBuilding:   "orange",
	StatusBroken:     "red",
	StatusBacklogged: "gray",
	StatusBlocked:    "orange",
	StatusBurned:     "gray",
}

// statusProgress holds the default progress percentage per status, used when
// ingested data carries a bare status string without an explicit progress.
var statusProgress = map[Status]int{
	StatusBuilt:      100,
	StatusBuilding:   50,
	StatusBroken:     75,
	StatusBlocked:    40,
	StatusBacklogged: 0,
	StatusBurned:     0,
}

// IsValid reports whether s is one of the canonical status values.
func (s Status) IsValid() bool {
	_, ok := statusProgress[s]
	return ok
}

// Color returns the render color key for the status ("green", "orange",
// "red", or "gray"). Unknown statuses map to "gray".
func (s Status) Color() string {
	if c, ok := statusToColor[s]; ok {
		return c
	}
	return "gray"
}

// DefaultProgress returns the progress percentage assumed for the status
// when the source data does not carry one.
func (s Status) DefaultProgress() int {
	return statusProgress[s]
}

// KnownStatus reports whether raw is a recognized status spelling, either
// canonical or legacy. Unrecognized spellings still normalize (to
// backlogged) but callers may want to count them as defaults.
func KnownStatus(raw string) bool {
	if Status(raw).IsValid() {
		return true
	}
	_, ok := legacyToStatus[raw]
	return ok
}

// NormalizeStatus converts a raw status string into a canonical Status.
// Both canonical values and legacy color strings are accepted. Anything
// unrecognized (including the empty string) normalizes to StatusBacklogged,
// which is the documented default for absent status data.
func NormalizeStatus(raw string) Status {
	if s := Status(raw); s.IsValid() {
		return s
	}
	if s, ok := legacyToStatus[raw]; ok {
		return s
	}
	return StatusBacklogged
}

// Statuses returns all canonical status values in a stable order.
// The order matches the lifecycle progression used by filter chips.
func Statuses() []Status {
	return []Status{
		StatusBuilding,
		StatusBacklogged,
		StatusBlocked,
		StatusBurned,
		StatusBuilt,
		StatusBroken,
	}
}
