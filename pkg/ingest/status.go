package ingest

import (
	"encoding/json"

	"github.com/pow3r-build/constellation/pkg/model"
)

// DefaultQuality is assumed when a record carries no quality score.
const DefaultQuality = 0.5

// statusObject covers both structured status shapes:
// v3 {"state": ..., "progress": ...} and v2 {"phase": ..., "completeness": ...}.
type statusObject struct {
	State        string   `json:"state"`
	Progress     *int     `json:"progress"`
	Phase        string   `json:"phase"`
	Completeness *float64 `json:"completeness"`
	QualityScore *float64 `json:"qualityScore"`
}

// decodeStatus normalizes any of the three historical status shapes into
// (status, progress, quality). The final return value reports whether the
// backlogged default was applied because the status was absent or
// unparsable.
func decodeStatus(raw json.RawMessage) (model.Status, int, float64, bool) {
	if len(raw) == 0 {
		return model.StatusBacklogged, 0, DefaultQuality, true
	}

	// Legacy or canonical status string.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		status := model.NormalizeStatus(s)
		return status, status.DefaultProgress(), DefaultQuality, !model.KnownStatus(s)
	}

	var obj statusObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return model.StatusBacklogged, 0, DefaultQuality, true
	}

	quality := DefaultQuality
	if obj.QualityScore != nil {
		quality = clamp01(*obj.QualityScore)
	}

	switch {
	case obj.State != "":
		status := model.NormalizeStatus(obj.State)
		progress := status.DefaultProgress()
		if obj.Progress != nil {
			progress = clampProgress(*obj.Progress)
		}
		return status, progress, quality, !model.KnownStatus(obj.State)

	case obj.Phase != "":
		status := model.NormalizeStatus(obj.Phase)
		completeness := DefaultQuality
		if obj.Completeness != nil {
			completeness = clamp01(*obj.Completeness)
		}
		return status, int(completeness * 100), quality, !model.KnownStatus(obj.Phase)
	}

	return model.StatusBacklogged, 0, quality, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
