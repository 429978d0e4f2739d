package achievements

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/liftlog/statsengine/internal/telemetry/tracing"
	"github.com/liftlog/statsengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=achievements_test

type achievementsRepo interface {
	ListCatalog(ctx context.Context) ([]Achievement, error)
	ListUnseen(ctx context.Context, userID int64) ([]Unlock, error)
	MarkSeen(ctx context.Context, userID, achievementID int64) error
}

type UnseenResponse struct {
	Achievements []Unlock `json:"achievements"`
	Total        int      `json:"total"`
}

type CatalogResponse struct {
	Achievements []Achievement `json:"achievements"`
	Total        int           `json:"total"`
}

type MarkSeenResponse struct {
	UserID        int64 `json:"userId"`
	AchievementID int64 `json:"achievementId"`
}

type Handler struct {
	repo achievementsRepo
}

func NewHandler(repo achievementsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.achievements.catalog")
	defer span.End()

	catalog, err := handler.repo.ListCatalog(ctx)
	if err != nil {
		log.Errorf("failed to get achievements catalog: %s", err)
		http.Error(w, "failed to get achievements catalog", http.StatusInternalServerError)
		return
	}

	catalogJson, err := json.Marshal(CatalogResponse{
		Achievements: catalog,
		Total:        len(catalog),
	})
	if err != nil {
		log.Errorf("failed to marshal achievements catalog: %s", err)
		http.Error(w, "failed to get achievements catalog", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, catalogJson, http.StatusOK)
}

func (handler *Handler) HandleUnseen(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.achievements.unseen")
	defer span.End()

	userID, err := userIDParam(r)
	if err != nil {
		http.Error(w, "error, invalid user id", http.StatusBadRequest)
		return
	}

	unlocks, err := handler.repo.ListUnseen(ctx, userID)
	if err != nil {
		log.Errorf("failed to get unseen achievements for user %d: %s", userID, err)
		http.Error(w, "failed to get unseen achievements", http.StatusInternalServerError)
		return
	}

	unseenJson, err := json.Marshal(UnseenResponse{
		Achievements: unlocks,
		Total:        len(unlocks),
	})
	if err != nil {
		log.Errorf("failed to marshal unseen achievements: %s", err)
		http.Error(w, "failed to get unseen achievements", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, unseenJson, http.StatusOK)
}

func (handler *Handler) HandleMarkSeen(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.achievements.markseen")
	defer span.End()

	userID, err := userIDParam(r)
	if err != nil {
		http.Error(w, "error, invalid user id", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	achievementID, err := strconv.ParseInt(vars["achievementID"], 10, 64)
	if err != nil {
		http.Error(w, "error, invalid achievement id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.MarkSeen(ctx, userID, achievementID); err != nil {
		if errors.Is(err, ErrUnlockNotFound) {
			http.Error(w, "achievement unlock not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to mark achievement %d seen for user %d: %s", achievementID, userID, err)
		http.Error(w, "failed to mark achievement seen", http.StatusInternalServerError)
		return
	}

	seenJson, err := json.Marshal(MarkSeenResponse{
		UserID:        userID,
		AchievementID: achievementID,
	})
	if err != nil {
		log.Errorf("failed to marshal mark seen response: %s", err)
		http.Error(w, "failed to mark achievement seen", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, seenJson, http.StatusOK)
}

func userIDParam(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userID"], 10, 64)
	if err != nil {
		return 0, err
	}
	if userID <= 0 {
		return 0, errors.New("user id must be positive")
	}
	return userID, nil
}
