package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tuneport/core/contract"
	"tuneport/core/signature"
	"tuneport/core/wizard"
	"tuneport/logger"
	"tuneport/model"
	"tuneport/repository"
)

// releaseFromDraft converts a finished draft into the persisted release form.
func releaseFromDraft(d *model.ReleaseDraft) *model.Release {
	rel := &model.Release{
		UserID:         d.UserID,
		Type:           d.ReleaseType,
		Name:           d.ReleaseName,
		ArtistName:     d.ArtistName,
		ReleaseDate:    d.ReleaseDate,
		PreorderDate:   d.PreorderDate,
		SalesStartDate: d.SalesStartDate,
		Genre:          d.Genre,
		Copyright:      d.Copyright,
		TitleLanguage:  d.TitleLanguage,
		CoverURL:       d.CoverURL,
	}
	if reqJSON, err := json.Marshal(d.Requisites); err == nil {
		rel.RequisitesJSON = string(reqJSON)
	}
	for _, t := range d.Tracks {
		rt := model.ReleaseTrack{
			TrackNumber:     t.TrackNumber,
			Title:           t.Title,
			FileURL:         t.FileURL,
			FileName:        t.FileName,
			FileSize:        t.FileSize,
			Composer:        t.Composer,
			AuthorMusic:     t.AuthorMusic,
			AuthorLyrics:    t.AuthorLyrics,
			AuthorPhonogram: t.AuthorPhonogram,
			LanguageAudio:   t.LanguageAudio,
			LyricsText:      t.LyricsText,
		}
		if t.ExplicitContent != nil {
			rt.ExplicitContent = *t.ExplicitContent
		}
		if t.PreviewStart != nil {
			rt.PreviewStart = *t.PreviewStart
		}
		rel.Tracks = append(rel.Tracks, rt)
	}
	return rel
}

// SubmitReleaseHandler is the terminal wizard action: it turns a finished,
// signed draft into a pending release. The contract is signed, rendered to
// PDF and archived as part of the same submit. Nothing is dispatched twice:
// on success the draft is deleted, on any failure the draft stays intact so
// the user can retry.
func (h *APIHandler) SubmitReleaseHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	var req struct {
		SignatureDataURL string `json:"signatureDataUrl"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	wz := wizard.New(d)
	if err := wz.CanSubmit(req.SignatureDataURL); err != nil {
		if errors.Is(err, wizard.ErrNoSignature) {
			writeError(w, http.StatusUnprocessableEntity, "Пожалуйста, поставьте подпись")
			return
		}
		var blocked *wizard.ErrStepBlocked
		if errors.As(err, &blocked) {
			writeError(w, http.StatusUnprocessableEntity, blocked.Hint)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "Релиз не готов к отправке")
		return
	}

	// Re-run every earlier gate: the stored draft, not the client, is the
	// authority on whether the release is complete.
	for step := wizard.FirstStep; step < wizard.StepReview; step++ {
		if ok, hint := wz.CanAdvance(step); !ok {
			writeError(w, http.StatusUnprocessableEntity, hint)
			return
		}
	}

	sigPNG, err := signature.DecodePNGDataURL(req.SignatureDataURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Подпись повреждена, поставьте её заново")
		return
	}

	sigFile, err := h.uploader.UploadSignature(r.Context(), sigPNG)
	if err != nil {
		logger.Error("signature upload failed", logger.String("draftId", d.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить подпись. Попробуйте ещё раз")
		return
	}

	html, number := h.generator.Generate(contract.Data{
		Requisites:       d.Requisites,
		ReleaseDate:      d.ReleaseDate,
		Tracks:           d.Tracks,
		CoverURL:         d.CoverURL,
		SignatureDataURL: req.SignatureDataURL,
	})

	pdfData, err := h.pdfBuilder.Build(d.ID, html)
	if err == contract.ErrGenerationInFlight {
		writeError(w, http.StatusConflict, "Договор уже формируется, подождите")
		return
	}
	if err != nil {
		logger.Error("contract PDF build failed on submit", logger.String("draftId", d.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось сформировать договор. Попробуйте ещё раз")
		return
	}

	pdfFile, err := h.uploader.UploadContractPDF(r.Context(), contract.FileName(number, "pdf"), pdfData)
	if err != nil {
		logger.Error("contract PDF upload failed on submit", logger.String("draftId", d.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить договор. Попробуйте ещё раз")
		return
	}

	rel := releaseFromDraft(d)
	rel.ContractNumber = number
	rel.ContractPDFURL = pdfFile.URL
	rel.SignatureURL = sigFile.URL

	releaseID, err := h.releaseRepo.Create(r.Context(), rel)
	if err != nil {
		logger.Error("release create failed", logger.String("draftId", d.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось отправить релиз. Попробуйте ещё раз")
		return
	}

	// The release is in; the draft has served its purpose. Losing the delete
	// would only leave a stale drafts-list entry, so it is best effort.
	h.dropAutosaver(d.ID)
	if err := h.draftStore.Delete(r.Context(), d.ID); err != nil {
		logger.Warn("failed to delete draft after submit",
			logger.String("draftId", d.ID),
			logger.ErrorField(err),
		)
	}

	logger.Info("release submitted",
		logger.Int64("releaseId", releaseID),
		logger.Int64("userId", d.UserID),
		logger.String("contractNumber", number),
	)
	writeJSON(w, http.StatusCreated, rel)
}

// ListReleasesHandler lists the authenticated user's submitted releases.
func (h *APIHandler) ListReleasesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	releases, err := h.releaseRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list releases", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось загрузить релизы")
		return
	}
	writeJSON(w, http.StatusOK, releases)
}

// loadRelease resolves the route's release, enforcing ownership unless the
// caller is a moderator.
func (h *APIHandler) loadRelease(w http.ResponseWriter, r *http.Request) (*model.Release, bool) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор релиза")
		return nil, false
	}

	rel, err := h.releaseRepo.GetByID(r.Context(), id)
	if err == repository.ErrReleaseNotFound {
		writeError(w, http.StatusNotFound, "Релиз не найден")
		return nil, false
	}
	if err != nil {
		logger.Error("failed to load release", logger.Int64("releaseId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось загрузить релиз")
		return nil, false
	}

	role, _ := r.Context().Value(ctxRole).(string)
	if rel.UserID != userID && role != "manager" && role != "director" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return rel, true
}

// GetReleaseHandler returns one release with its tracks.
func (h *APIHandler) GetReleaseHandler(w http.ResponseWriter, r *http.Request) {
	rel, ok := h.loadRelease(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rel)
}

// UpdateReleaseHandler edits an already-submitted release in place. Edit mode
// works directly on the stored release and never touches the drafts store.
func (h *APIHandler) UpdateReleaseHandler(w http.ResponseWriter, r *http.Request) {
	rel, ok := h.loadRelease(w, r)
	if !ok {
		return
	}

	var incoming model.Release
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}

	// Identity, ownership and moderation state are not editable.
	incoming.ID = rel.ID
	incoming.UserID = rel.UserID
	incoming.Status = rel.Status
	incoming.ModerationComment = rel.ModerationComment
	incoming.ContractNumber = rel.ContractNumber
	incoming.ContractPDFURL = rel.ContractPDFURL
	incoming.SignatureURL = rel.SignatureURL
	incoming.CreatedAt = rel.CreatedAt

	if !incoming.Type.Valid() {
		writeError(w, http.StatusBadRequest, "Неизвестный тип релиза")
		return
	}
	if !incoming.Type.AllowsTrackCount(len(incoming.Tracks)) {
		writeError(w, http.StatusUnprocessableEntity, "Количество треков не соответствует типу релиза")
		return
	}
	for i := range incoming.Tracks {
		incoming.Tracks[i].ReleaseID = rel.ID
	}

	if err := h.releaseRepo.Update(r.Context(), &incoming); err != nil {
		logger.Error("failed to update release", logger.Int64("releaseId", rel.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить изменения")
		return
	}
	writeJSON(w, http.StatusOK, &incoming)
}
