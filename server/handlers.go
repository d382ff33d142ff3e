package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"tuneport/config"
	"tuneport/core/auth"
	"tuneport/core/contract"
	"tuneport/draft"
	"tuneport/logger"
	"tuneport/repository"
	"tuneport/storage"
)

type contextKey string

const (
	ctxUserID   contextKey = "userID"
	ctxUsername contextKey = "username"
	ctxRole     contextKey = "role"
)

// APIHandler carries the collaborators behind all API endpoints.
type APIHandler struct {
	userRepo    repository.UserRepository
	releaseRepo repository.ReleaseRepository
	draftStore  draft.Store
	uploader    storage.MediaUploader
	generator   *contract.Generator
	pdfBuilder  *contract.PDFBuilder
	progressHub *ProgressHub
	cfg         *config.Config

	// One autosaver per open draft, created lazily on the first autosave.
	asMu       sync.Mutex
	autosavers map[string]*draft.Autosaver
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	releaseRepo repository.ReleaseRepository,
	draftStore draft.Store,
	uploader storage.MediaUploader,
	generator *contract.Generator,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:    userRepo,
		releaseRepo: releaseRepo,
		draftStore:  draftStore,
		uploader:    uploader,
		generator:   generator,
		pdfBuilder:  contract.NewPDFBuilder(nil),
		progressHub: NewProgressHub(),
		cfg:         cfg,
		autosavers:  make(map[string]*draft.Autosaver),
	}
}

// AuthMiddleware checks for a valid JWT token and stores the claims in the
// request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxUsername, claims.Username)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// ModeratorMiddleware additionally requires a manager or director role.
func (h *APIHandler) ModeratorMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(ctxRole).(string)
		if role != "manager" && role != "director" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserIDFromContext extracts the user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(ctxUserID).(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// writeError writes a JSON error body with a user-facing message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
