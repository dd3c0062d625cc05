package model

// EdgeType is the relationship category of an edge.
type EdgeType string

// Canonical edge types. Unknown types normalize to EdgeRelatedTo.
const (
	EdgeDependsOn     EdgeType = "dependsOn"
	EdgeImplements    EdgeType = "implements"
	EdgeReferences    EdgeType = "references"
	EdgeRelatedTo     EdgeType = "relatedTo"
	EdgeConflictsWith EdgeType = "conflictsWith"
	EdgePartOf        EdgeType = "partOf"
	EdgeUses          EdgeType = "uses"
	EdgeQueries       EdgeType = "queries"
	EdgeGenerates     EdgeType = "generates"
	EdgeProcesses     EdgeType = "processes"
)

var validEdgeTypes = map[EdgeType]bool{
	EdgeDependsOn:     true,
	EdgeImplements:    true,
	EdgeReferences:    true,
	EdgeRelatedTo:     true,
	EdgeConflictsWith: true,
	EdgePartOf:        true,
	EdgeUses:          true,
	EdgeQueries:       true,
	EdgeGenerates:     true,
	EdgeProcesses:     true,
}

// DefaultEdgeStrength is assumed when an edge carries no strength.
const DefaultEdgeStrength = 1.0

// NormalizeEdgeType maps a raw edge type string to a canonical EdgeType.
// Unknown or empty values become EdgeRelatedTo.
func NormalizeEdgeType(raw string) EdgeType {
	if t := EdgeType(raw); validEdgeTypes[t] {
		return t
	}
	return EdgeRelatedTo
}

// ColorKey returns the render color grouping for the edge type. The render
// collaborator maps these keys to actual line materials.
func (t EdgeType) ColorKey() string {
	switch t {
	case EdgeDependsOn, EdgeUses:
		return "dependency"
	case EdgeImplements, EdgePartOf:
		return "structure"
	case EdgeConflictsWith:
		return "conflict"
	default:
		return "reference"
	}
}
