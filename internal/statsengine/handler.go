package statsengine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/liftlog/statsengine/internal/statsengine/events"
	"github.com/liftlog/statsengine/internal/statsengine/stats"
	"github.com/liftlog/statsengine/internal/telemetry/tracing"
	"github.com/liftlog/statsengine/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=statsengine_test

type eventDispatcher interface {
	HandleSetLogged(ctx context.Context, event events.SetLogged) (*Result, error)
	HandleWorkoutCompleted(ctx context.Context, event events.WorkoutCompleted) (*Result, error)
	HandleNutritionLogged(ctx context.Context, event events.NutritionLogged) (*Result, error)
	HandleMesocycleCompleted(ctx context.Context, event events.MesocycleCompleted) (*Result, error)
	GetStats(ctx context.Context, userID int64) (*stats.UserStats, error)
}

type Handler struct {
	dispatcher eventDispatcher
}

func NewHandler(dispatcher eventDispatcher) *Handler {
	return &Handler{
		dispatcher: dispatcher,
	}
}

func (handler *Handler) HandleSetLogged(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.statsengine.setlogged")
	defer span.End()

	var event events.SetLogged
	if !decodeEvent(w, r, &event) {
		return
	}

	result, err := handler.dispatcher.HandleSetLogged(ctx, event)
	if err != nil {
		writeEventError(w, events.TypeSetLogged, err)
		return
	}
	writeResult(w, result)
}

func (handler *Handler) HandleWorkoutCompleted(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.statsengine.workoutcompleted")
	defer span.End()

	var event events.WorkoutCompleted
	if !decodeEvent(w, r, &event) {
		return
	}

	result, err := handler.dispatcher.HandleWorkoutCompleted(ctx, event)
	if err != nil {
		writeEventError(w, events.TypeWorkoutCompleted, err)
		return
	}
	writeResult(w, result)
}

func (handler *Handler) HandleNutritionLogged(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.statsengine.nutritionlogged")
	defer span.End()

	var event events.NutritionLogged
	if !decodeEvent(w, r, &event) {
		return
	}

	result, err := handler.dispatcher.HandleNutritionLogged(ctx, event)
	if err != nil {
		writeEventError(w, events.TypeNutritionLogged, err)
		return
	}
	writeResult(w, result)
}

func (handler *Handler) HandleMesocycleCompleted(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.statsengine.mesocyclecompleted")
	defer span.End()

	var event events.MesocycleCompleted
	if !decodeEvent(w, r, &event) {
		return
	}

	result, err := handler.dispatcher.HandleMesocycleCompleted(ctx, event)
	if err != nil {
		writeEventError(w, events.TypeMesocycleCompleted, err)
		return
	}
	writeResult(w, result)
}

func (handler *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.statsengine.getstats")
	defer span.End()

	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userID"], 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "error, invalid user id", http.StatusBadRequest)
		return
	}

	userStats, err := handler.dispatcher.GetStats(ctx, userID)
	if err != nil {
		log.Errorf("failed to get stats for user %d: %s", userID, err)
		http.Error(w, "failed to get user stats", http.StatusInternalServerError)
		return
	}

	statsJson, err := json.Marshal(userStats)
	if err != nil {
		log.Errorf("failed to marshal stats for user %d: %s", userID, err)
		http.Error(w, "failed to get user stats", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statsJson, http.StatusOK)
}

func decodeEvent(w http.ResponseWriter, r *http.Request, event any) bool {
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(event); err != nil {
		log.Errorf("event handler, unmarshal json params: %s", err)
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return false
	}
	return true
}

func writeEventError(w http.ResponseWriter, eventType events.Type, err error) {
	switch {
	case errors.Is(err, events.ErrInvalidEvent):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrConcurrencyConflict):
		http.Error(w, "event processing conflict, retry later", http.StatusConflict)
	default:
		log.Errorf("failed to process %s event: %s", eventType, err)
		http.Error(w, "failed to process event", http.StatusInternalServerError)
	}
}

func writeResult(w http.ResponseWriter, result *Result) {
	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal event result: %s", err)
		http.Error(w, "failed to process event", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusCreated)
}
