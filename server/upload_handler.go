package server

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"tuneport/core/wizard"
	"tuneport/logger"
	"tuneport/storage"
)

const maxUploadMemory = 32 << 20 // 32 MB held in memory, the rest spools to disk

var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".aiff": true,
}

var coverExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

func allowedExtension(name string, allowed map[string]bool) bool {
	return allowed[strings.ToLower(filepath.Ext(name))]
}

func (h *APIHandler) uploadFormFile(w http.ResponseWriter, r *http.Request, field string, allowed map[string]bool, hint string) (*multipart.FileHeader, multipart.File, bool) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Некорректная форма загрузки")
		return nil, nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Файл не передан")
		return nil, nil, false
	}
	if !allowedExtension(header.Filename, allowed) {
		file.Close()
		writeError(w, http.StatusBadRequest, hint)
		return nil, nil, false
	}
	return header, file, true
}

// UploadAudioHandler stores one audio file and returns its durable URL. The
// caller attaches the URL to a draft track itself.
func (h *APIHandler) UploadAudioHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	header, file, ok := h.uploadFormFile(w, r, "file", audioExtensions, "Поддерживаются только WAV, MP3, FLAC и AIFF")
	if !ok {
		return
	}
	defer file.Close()

	uploaded, err := h.uploader.UploadAudio(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		logger.Error("audio upload failed",
			logger.Int64("userId", userID),
			logger.String("fileName", header.Filename),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Не удалось загрузить файл. Попробуйте ещё раз")
		return
	}

	logger.Info("audio uploaded",
		logger.Int64("userId", userID),
		logger.String("fileName", header.Filename),
		logger.Int64("size", header.Size),
	)
	writeJSON(w, http.StatusOK, uploaded)
}

// UploadCoverHandler stores a release cover image.
func (h *APIHandler) UploadCoverHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	header, file, ok := h.uploadFormFile(w, r, "file", coverExtensions, "Обложка должна быть в формате JPG или PNG")
	if !ok {
		return
	}
	defer file.Close()

	uploaded, err := h.uploader.UploadCover(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		logger.Error("cover upload failed",
			logger.Int64("userId", userID),
			logger.String("fileName", header.Filename),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "Не удалось загрузить обложку. Попробуйте ещё раз")
		return
	}
	writeJSON(w, http.StatusOK, uploaded)
}

// BatchUploadHandler accepts several audio files at once and appends one
// track per file to the draft, in form order, with titles defaulted from the
// file names. Progress is streamed over the user's progress socket.
func (h *APIHandler) BatchUploadHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadOwnedDraft(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Некорректная форма загрузки")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "Файлы не переданы")
		return
	}
	for _, header := range files {
		if !allowedExtension(header.Filename, audioExtensions) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Файл %s не поддерживается", header.Filename))
			return
		}
	}

	wz := wizard.New(d)
	uploadedFiles := make([]*storage.UploadedFile, 0, len(files))
	for i, header := range files {
		h.progressHub.Notify(d.UserID, ProgressEvent{
			Uploading:   true,
			Progress:    i * 100 / len(files),
			CurrentFile: header.Filename,
		})

		file, err := header.Open()
		if err != nil {
			h.progressHub.Notify(d.UserID, ProgressEvent{})
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Не удалось прочитать файл %s", header.Filename))
			return
		}
		uploaded, err := h.uploader.UploadAudio(r.Context(), header.Filename, file, header.Size)
		file.Close()
		if err != nil {
			logger.Error("batch audio upload failed",
				logger.String("draftId", d.ID),
				logger.String("fileName", header.Filename),
				logger.ErrorField(err),
			)
			h.progressHub.Notify(d.UserID, ProgressEvent{})
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Не удалось загрузить %s. Попробуйте ещё раз", header.Filename))
			return
		}

		wz.AddTrackFromFile(uploaded.URL, header.Filename, header.Size)
		uploadedFiles = append(uploadedFiles, uploaded)
	}
	h.progressHub.Notify(d.UserID, ProgressEvent{Progress: 100})

	if err := h.draftStore.Save(r.Context(), d); err != nil {
		logger.Error("failed to save draft after batch upload", logger.String("draftId", d.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Не удалось сохранить черновик")
		return
	}

	logger.Info("batch upload finished",
		logger.String("draftId", d.ID),
		logger.Int("files", len(uploadedFiles)),
	)
	writeJSON(w, http.StatusOK, d)
}
