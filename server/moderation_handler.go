package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"tuneport/logger"
	"tuneport/model"
	"tuneport/repository"
)

// ModerationListHandler lists releases awaiting review, oldest first. A
// status query parameter can select the approved or rejected queues instead.
func (h *APIHandler) ModerationListHandler(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = model.ReleaseStatusPending
	}
	switch status {
	case model.ReleaseStatusPending, model.ReleaseStatusApproved, model.ReleaseStatusRejected:
	default:
		writeError(w, http.StatusBadRequest, "Неизвестный статус")
		return
	}

	releases, err := h.releaseRepo.ListByStatus(r.Context(), status)
	if err != nil {
		logger.Error("failed to list moderation queue", logger.String("status", status), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось загрузить очередь модерации")
		return
	}
	writeJSON(w, http.StatusOK, releases)
}

func (h *APIHandler) setReleaseStatus(w http.ResponseWriter, r *http.Request, status, comment string) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор релиза")
		return
	}

	err = h.releaseRepo.SetStatus(r.Context(), id, status, comment)
	if err == repository.ErrReleaseNotFound {
		writeError(w, http.StatusNotFound, "Релиз не найден")
		return
	}
	if err != nil {
		logger.Error("failed to set release status",
			logger.Int64("releaseId", id),
			logger.String("status", status),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Не удалось обновить статус релиза")
		return
	}

	username, _ := r.Context().Value(ctxUsername).(string)
	logger.Info("release moderated",
		logger.Int64("releaseId", id),
		logger.String("status", status),
		logger.String("moderator", username),
	)
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "status": status})
}

// ApproveReleaseHandler moves a release to the approved status.
func (h *APIHandler) ApproveReleaseHandler(w http.ResponseWriter, r *http.Request) {
	h.setReleaseStatus(w, r, model.ReleaseStatusApproved, "")
}

// RejectReleaseHandler moves a release to the rejected status. A rejection
// must explain itself: the comment goes back to the artist.
func (h *APIHandler) RejectReleaseHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Comment) == "" {
		writeError(w, http.StatusBadRequest, "Укажите причину отклонения")
		return
	}
	h.setReleaseStatus(w, r, model.ReleaseStatusRejected, strings.TrimSpace(req.Comment))
}
