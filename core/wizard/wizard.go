package wizard

import (
	"errors"
	"fmt"

	"tuneport/model"
)

// Wizard steps, in order. The flow is linear: no branching, no skipping.
const (
	StepReleaseType = 1
	StepBasicInfo   = 2
	StepRequisites  = 3
	StepTracks      = 4
	StepReview      = 5
	StepContract    = 6

	FirstStep = StepReleaseType
	LastStep  = StepContract
)

// ErrStepBlocked is returned by Next when the current step's gate fails.
// The Hint is user-facing text; it is never a server error.
type ErrStepBlocked struct {
	Step int
	Hint string
}

func (e *ErrStepBlocked) Error() string {
	return fmt.Sprintf("step %d blocked: %s", e.Step, e.Hint)
}

// ErrNoSignature blocks the terminal confirm action on the contract step.
var ErrNoSignature = errors.New("signature required before submission")

// Wizard drives a ReleaseDraft through the six submission steps.
// It mutates the draft it was given; persistence is the caller's concern.
type Wizard struct {
	draft *model.ReleaseDraft
}

// New wraps a draft, clamping its stored step into the valid range so a
// corrupted draft never strands the user outside the flow.
func New(draft *model.ReleaseDraft) *Wizard {
	if draft.CurrentStep < FirstStep {
		draft.CurrentStep = FirstStep
	}
	if draft.CurrentStep > LastStep {
		draft.CurrentStep = LastStep
	}
	return &Wizard{draft: draft}
}

// Draft returns the wrapped draft.
func (w *Wizard) Draft() *model.ReleaseDraft { return w.draft }

// Step returns the current step number.
func (w *Wizard) Step() int { return w.draft.CurrentStep }

// CanAdvance evaluates the gate of the given step. The review step is always
// passable; the contract step is gated by the signature, not by CanAdvance.
func (w *Wizard) CanAdvance(step int) (bool, string) {
	switch step {
	case StepReleaseType:
		return checkRules(releaseTypeRules, w.draft)
	case StepBasicInfo:
		return checkRules(basicInfoRules, w.draft)
	case StepRequisites:
		return checkRules(requisitesRules, w.draft)
	case StepTracks:
		return checkRules(tracksRules, w.draft)
	default:
		return true, ""
	}
}

// Next advances one step if the current gate passes. On the last step there
// is no forward transition; the terminal action is Submit.
func (w *Wizard) Next() error {
	if w.draft.CurrentStep >= LastStep {
		return &ErrStepBlocked{Step: w.draft.CurrentStep, Hint: "Дальше шагов нет"}
	}
	if ok, hint := w.CanAdvance(w.draft.CurrentStep); !ok {
		return &ErrStepBlocked{Step: w.draft.CurrentStep, Hint: hint}
	}
	w.draft.CurrentStep++
	return nil
}

// Back retreats one step, unconditionally.
func (w *Wizard) Back() {
	if w.draft.CurrentStep > FirstStep {
		w.draft.CurrentStep--
	}
}

// CanSubmit reports whether the terminal confirm action is available:
// the wizard must be on the contract step and a signature must be present.
func (w *Wizard) CanSubmit(signatureDataURL string) error {
	if w.draft.CurrentStep != LastStep {
		return &ErrStepBlocked{Step: w.draft.CurrentStep, Hint: "Сначала дойдите до шага договора"}
	}
	if signatureDataURL == "" {
		return ErrNoSignature
	}
	return nil
}

// AddTrack appends an empty track with the next contiguous number.
func (w *Wizard) AddTrack() *model.Track {
	w.draft.Tracks = append(w.draft.Tracks, model.Track{
		TrackNumber: len(w.draft.Tracks) + 1,
	})
	return &w.draft.Tracks[len(w.draft.Tracks)-1]
}

// AddTrackFromFile appends one track per uploaded file, used by batch upload.
func (w *Wizard) AddTrackFromFile(fileURL, fileName string, fileSize int64) *model.Track {
	t := w.AddTrack()
	t.FileURL = fileURL
	t.FileName = fileName
	t.FileSize = fileSize
	// Default the title to the file name without extension, as the portal does.
	t.Title = trimExt(fileName)
	return t
}

// RemoveTrack deletes the track at index and renumbers the rest contiguously.
func (w *Wizard) RemoveTrack(index int) bool {
	if index < 0 || index >= len(w.draft.Tracks) {
		return false
	}
	w.draft.Tracks = append(w.draft.Tracks[:index], w.draft.Tracks[index+1:]...)
	w.renumber()
	return true
}

// MoveTrack swaps the track at index with its neighbour. Direction is
// "up" (towards track 1) or "down".
func (w *Wizard) MoveTrack(index int, direction string) bool {
	j := index + 1
	if direction == "up" {
		j = index - 1
	}
	if index < 0 || index >= len(w.draft.Tracks) || j < 0 || j >= len(w.draft.Tracks) {
		return false
	}
	w.draft.Tracks[index], w.draft.Tracks[j] = w.draft.Tracks[j], w.draft.Tracks[index]
	w.renumber()
	return true
}

func (w *Wizard) renumber() {
	for i := range w.draft.Tracks {
		w.draft.Tracks[i].TrackNumber = i + 1
	}
}

func trimExt(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
		if name[i] == '/' {
			break
		}
	}
	return name
}
