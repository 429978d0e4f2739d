package statsengine_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/liftlog/statsengine/internal/statsengine"
	"github.com/liftlog/statsengine/internal/statsengine/events"
	"github.com/liftlog/statsengine/internal/statsengine/stats"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func postEvent(t *testing.T, handlerFunc http.HandlerFunc, payload any) *httptest.ResponseRecorder {
	t.Helper()
	payloadJson, err := json.Marshal(payload)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "/", bytes.NewBuffer(payloadJson))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	handlerFunc(rr, req)
	return rr
}

func TestHandler_HandleSetLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDispatcher := NewMockeventDispatcher(ctrl)
	handler := statsengine.NewHandler(mockDispatcher)

	event := events.SetLogged{
		UserID:     7,
		SetID:      101,
		ExerciseID: "bench_press",
		Weight:     102.5,
		Reps:       5,
		LoggedAt:   time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC),
	}

	newPR := stats.PRRecord{Weight: 102.5, Reps: 5, Date: event.LoggedAt, ReferenceID: 101}
	mockDispatcher.EXPECT().
		HandleSetLogged(gomock.Any(), event).
		Return(&statsengine.Result{
			Stats:                stats.New(7),
			NewPR:                &newPR,
			UnlockedAchievements: []string{"first_pr"},
			XPGranted:            300,
		}, nil)

	rr := postEvent(t, handler.HandleSetLogged, event)
	require.Equal(t, http.StatusCreated, rr.Code)

	var result statsengine.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.NotNil(t, result.NewPR)
	assert.InDelta(t, 102.5, result.NewPR.Weight, 0.001)
	assert.Equal(t, []string{"first_pr"}, result.UnlockedAchievements)
	assert.Equal(t, 300, result.XPGranted)
}

func TestHandler_HandleSetLogged_invalidContentType(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDispatcher := NewMockeventDispatcher(ctrl)
	handler := statsengine.NewHandler(mockDispatcher)

	rr := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "/", bytes.NewBufferString("{}"))
	require.NoError(t, err)

	handler.HandleSetLogged(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_HandleWorkoutCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDispatcher := NewMockeventDispatcher(ctrl)
	handler := statsengine.NewHandler(mockDispatcher)

	event := events.WorkoutCompleted{
		UserID:    7,
		WorkoutID: 55,
		Date:      time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC),
	}

	mockDispatcher.EXPECT().
		HandleWorkoutCompleted(gomock.Any(), event).
		Return(&statsengine.Result{
			Stats:     stats.New(7),
			XPGranted: statsengine.XPPerWorkout,
		}, nil)

	rr := postEvent(t, handler.HandleWorkoutCompleted, event)
	require.Equal(t, http.StatusCreated, rr.Code)

	var result statsengine.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, statsengine.XPPerWorkout, result.XPGranted)
	assert.Nil(t, result.NewPR)
}

func TestHandler_HandleWorkoutCompleted_invalidEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDispatcher := NewMockeventDispatcher(ctrl)
	handler := statsengine.NewHandler(mockDispatcher)

	event := events.WorkoutCompleted{UserID: 0, WorkoutID: 55}
	mockDispatcher.EXPECT().
		HandleWorkoutCompleted(gomock.Any(), event).
		Return(nil, event.Validate())

	rr := postEvent(t, handler.HandleWorkoutCompleted, event)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_HandleNutritionLogged_conflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDispatcher := NewMockeventDispatcher(ctrl)
	handler := statsengine.NewHandler(mockDispatcher)

	event := events.NutritionLogged{
		UserID: 7,
		LogID:  42,
		Date:   time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	mockDispatcher.EXPECT().
		HandleNutritionLogged(gomock.Any(), event).
		Return(nil, statsengine.ErrConcurrencyConflict)

	rr := postEvent(t, handler.HandleNutritionLogged, event)
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandler_HandleMesocycleCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDispatcher := NewMockeventDispatcher(ctrl)
	handler := statsengine.NewHandler(mockDispatcher)

	event := events.MesocycleCompleted{UserID: 7, MesocycleID: 3}
	mockDispatcher.EXPECT().
		HandleMesocycleCompleted(gomock.Any(), event).
		Return(&statsengine.Result{
			Stats:                stats.New(7),
			UnlockedAchievements: []string{"first_meso"},
			XPGranted:            statsengine.XPPerMesocycle + 250,
		}, nil)

	rr := postEvent(t, handler.HandleMesocycleCompleted, event)
	require.Equal(t, http.StatusCreated, rr.Code)

	var result statsengine.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, []string{"first_meso"}, result.UnlockedAchievements)
}

func TestHandler_HandleGetStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDispatcher := NewMockeventDispatcher(ctrl)
	handler := statsengine.NewHandler(mockDispatcher)

	userStats := stats.New(7)
	userStats.TotalWorkouts = 12
	userStats.TotalXP = 1250
	userStats.CurrentLevel = 4

	mockDispatcher.EXPECT().
		GetStats(gomock.Any(), int64(7)).
		Return(userStats, nil)

	rr := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/engine/stats/7", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"userID": "7"})

	handler.HandleGetStats(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp stats.UserStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.TotalWorkouts)
	assert.Equal(t, 1250, resp.TotalXP)
	assert.Equal(t, 4, resp.CurrentLevel)
}

func TestHandler_HandleGetStats_invalidUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDispatcher := NewMockeventDispatcher(ctrl)
	handler := statsengine.NewHandler(mockDispatcher)

	rr := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/engine/stats/nope", nil)
	require.NoError(t, err)
	req = mux.SetURLVars(req, map[string]string{"userID": "nope"})

	handler.HandleGetStats(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
