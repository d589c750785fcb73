package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ReadInput Phase = iota
	EnrichVideo
	CreateVideo
	Finished
)

func (p Phase) String() string {
	switch p {
	case ReadInput:
		return "read_input"
	case EnrichVideo:
		return "enrich_video"
	case CreateVideo:
		return "create_video"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func readInputUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadInput,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d videos...", total),
	}
}

func enrichUpdate(step, total int, url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichVideo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Looking up %s...", step, total, url),
	}
}

func createdUpdate(step, total int, res ImportItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateVideo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Title),
		Data:    res,
	}
}

func failedUpdate(step, total int, res ImportItemResult) ProgressUpdate {
	name := res.Title
	if name == "" {
		name = fmt.Sprintf("#%d", res.Index+1)
	}
	return ProgressUpdate{
		Phase:   CreateVideo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, res.Error),
		Data:    res,
	}
}

func finishedUpdate(result *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finished,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("Imported %d of %d videos (%d failed)", result.Created, result.Total, result.Failed),
		Data:    result,
	}
}
