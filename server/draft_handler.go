package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tuneport/core/wizard"
	"tuneport/draft"
	"tuneport/logger"
	"tuneport/model"
)

// autosaverFor returns the draft's autosaver, creating and starting it on
// first use.
func (h *APIHandler) autosaverFor(draftID string) *draft.Autosaver {
	h.asMu.Lock()
	defer h.asMu.Unlock()

	if as, ok := h.autosavers[draftID]; ok {
		return as
	}
	as := draft.NewAutosaver(h.draftStore, h.cfg.DraftDebounce, h.cfg.DraftInterval)
	as.Start()
	h.autosavers[draftID] = as
	return as
}

// dropAutosaver stops and forgets the draft's autosaver, flushing once more.
func (h *APIHandler) dropAutosaver(draftID string) {
	h.asMu.Lock()
	as, ok := h.autosavers[draftID]
	delete(h.autosavers, draftID)
	h.asMu.Unlock()
	if ok {
		as.Stop()
	}
}

// StopAutosavers flushes and stops every live autosaver, for shutdown.
func (h *APIHandler) StopAutosavers() {
	h.asMu.Lock()
	autosavers := h.autosavers
	h.autosavers = make(map[string]*draft.Autosaver)
	h.asMu.Unlock()

	for _, as := range autosavers {
		as.Stop()
	}
}

// loadOwnedDraft loads the draft from the route and verifies ownership.
func (h *APIHandler) loadOwnedDraft(w http.ResponseWriter, r *http.Request) (*model.ReleaseDraft, bool) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	id := mux.Vars(r)["id"]
	d, err := h.draftStore.Load(r.Context(), id)
	if err == draft.ErrNotFound {
		writeError(w, http.StatusNotFound, "Черновик не найден")
		return nil, false
	}
	if err != nil {
		logger.Error("failed to load draft", logger.String("draftId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось загрузить черновик")
		return nil, false
	}
	if d.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return d, true
}

// CreateDraftHandler starts a new release draft at step 1.
func (h *APIHandler) CreateDraftHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ReleaseType model.ReleaseType `json:"releaseType"`
	}
	// The body is optional; a missing or empty one starts an untyped draft.
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.ReleaseType != "" && !req.ReleaseType.Valid() {
		writeError(w, http.StatusBadRequest, "Неизвестный тип релиза")
		return
	}

	d := &model.ReleaseDraft{
		ID:          draft.CreateDraftID(),
		UserID:      userID,
		ReleaseType: req.ReleaseType,
		CurrentStep: wizard.FirstStep,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.draftStore.Save(r.Context(), d); err != nil {
		logger.Error("failed to create draft", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось создать черновик")
		return
	}

	logger.Info("draft created",
		logger.String("draftId", d.ID),
		logger.Int64("userId", userID),
	)
	writeJSON(w, http.StatusCreated, d)
}

// ListDraftsHandler returns the user's draft summaries, newest first.
func (h *APIHandler) ListDraftsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summaries, err := h.draftStore.UserDrafts(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list drafts", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось загрузить черновики")
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetDraftHandler returns one draft in full.
func (h *APIHandler) GetDraftHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// decodeDraftBody parses a draft body and pins its identity to the route and
// the authenticated user, so a client cannot move a draft to another owner.
func decodeDraftBody(r *http.Request, current *model.ReleaseDraft) (*model.ReleaseDraft, error) {
	var incoming model.ReleaseDraft
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		return nil, err
	}
	incoming.ID = current.ID
	incoming.UserID = current.UserID
	incoming.CreatedAt = current.CreatedAt
	if incoming.CurrentStep == 0 {
		incoming.CurrentStep = current.CurrentStep
	}
	return &incoming, nil
}

// SaveDraftHandler upserts the full draft state immediately.
func (h *APIHandler) SaveDraftHandler(w http.ResponseWriter, r *http.Request) {
	current, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	incoming, err := decodeDraftBody(r, current)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}

	if err := h.draftStore.Save(r.Context(), incoming); err != nil {
		logger.Error("failed to save draft", logger.String("draftId", incoming.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить черновик")
		return
	}
	writeJSON(w, http.StatusOK, incoming)
}

// AutosaveDraftHandler records the draft state through the debounced
// autosaver. The write lands after the debounce window or on the next
// interval tick; failures are retried silently.
func (h *APIHandler) AutosaveDraftHandler(w http.ResponseWriter, r *http.Request) {
	current, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	incoming, err := decodeDraftBody(r, current)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}

	h.autosaverFor(incoming.ID).Touch(incoming)
	w.WriteHeader(http.StatusAccepted)
}

// FlushDraftHandler forces a pending autosave to disk. This is the
// page-close hook: best effort, never an error to the closing tab.
func (h *APIHandler) FlushDraftHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadOwnedDraft(w, r); !ok {
		return
	}
	h.autosaverFor(mux.Vars(r)["id"]).Flush()
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDraftHandler removes a draft explicitly from the drafts list.
func (h *APIHandler) DeleteDraftHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	h.dropAutosaver(d.ID)
	if err := h.draftStore.Delete(r.Context(), d.ID); err != nil {
		logger.Error("failed to delete draft", logger.String("draftId", d.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось удалить черновик")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// stepResponse is returned by the wizard navigation endpoints.
type stepResponse struct {
	CurrentStep int    `json:"currentStep"`
	CanAdvance  bool   `json:"canAdvance"`
	Hint        string `json:"hint,omitempty"`
}

// AdvanceStepHandler moves the wizard one step forward if the current step's
// gate passes. A blocked step is not an error condition: the response simply
// carries the hint to show next to the disabled button.
func (h *APIHandler) AdvanceStepHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	wz := wizard.New(d)
	if err := wz.Next(); err != nil {
		var blocked *wizard.ErrStepBlocked
		if errors.As(err, &blocked) {
			writeJSON(w, http.StatusUnprocessableEntity, stepResponse{
				CurrentStep: wz.Step(),
				CanAdvance:  false,
				Hint:        blocked.Hint,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Не удалось перейти к следующему шагу")
		return
	}

	if err := h.draftStore.Save(r.Context(), d); err != nil {
		logger.Error("failed to save draft after step change", logger.String("draftId", d.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить черновик")
		return
	}

	canNext, hint := wz.CanAdvance(wz.Step())
	writeJSON(w, http.StatusOK, stepResponse{CurrentStep: wz.Step(), CanAdvance: canNext, Hint: hint})
}

// BackStepHandler moves the wizard one step back, unconditionally.
func (h *APIHandler) BackStepHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	wz := wizard.New(d)
	wz.Back()

	if err := h.draftStore.Save(r.Context(), d); err != nil {
		logger.Error("failed to save draft after step change", logger.String("draftId", d.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить черновик")
		return
	}

	canNext, hint := wz.CanAdvance(wz.Step())
	writeJSON(w, http.StatusOK, stepResponse{CurrentStep: wz.Step(), CanAdvance: canNext, Hint: hint})
}

// AddTrackHandler appends an empty track to the draft.
func (h *APIHandler) AddTrackHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	wizard.New(d).AddTrack()
	if err := h.draftStore.Save(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить черновик")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// RemoveTrackHandler removes the track at the given index; the remaining
// tracks are renumbered contiguously.
func (h *APIHandler) RemoveTrackHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || !wizard.New(d).RemoveTrack(index) {
		writeError(w, http.StatusBadRequest, "Некорректный номер трека")
		return
	}

	if err := h.draftStore.Save(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить черновик")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// MoveTrackHandler moves the track at the given index up or down.
func (h *APIHandler) MoveTrackHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || (req.Direction != "up" && req.Direction != "down") {
		writeError(w, http.StatusBadRequest, "Направление должно быть up или down")
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || !wizard.New(d).MoveTrack(index, req.Direction) {
		writeError(w, http.StatusBadRequest, "Некорректный номер трека")
		return
	}

	if err := h.draftStore.Save(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить черновик")
		return
	}
	writeJSON(w, http.StatusOK, d)
}
