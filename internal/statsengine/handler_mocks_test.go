// Code generated by MockGen. DO NOT EDIT.
// Source: handler.go
//
// Generated by this command:
//
//	mockgen -source=handler.go -destination=handler_mocks_test.go -package=statsengine_test
//

// Package statsengine_test is a generated GoMock package.
package statsengine_test

import (
	context "context"
	reflect "reflect"

	statsengine "github.com/liftlog/statsengine/internal/statsengine"
	events "github.com/liftlog/statsengine/internal/statsengine/events"
	stats "github.com/liftlog/statsengine/internal/statsengine/stats"
	gomock "go.uber.org/mock/gomock"
)

// MockeventDispatcher is a mock of eventDispatcher interface.
type MockeventDispatcher struct {
	ctrl     *gomock.Controller
	recorder *MockeventDispatcherMockRecorder
	isgomock struct{}
}

// MockeventDispatcherMockRecorder is the mock recorder for MockeventDispatcher.
type MockeventDispatcherMockRecorder struct {
	mock *MockeventDispatcher
}

// NewMockeventDispatcher creates a new mock instance.
func NewMockeventDispatcher(ctrl *gomock.Controller) *MockeventDispatcher {
	mock := &MockeventDispatcher{ctrl: ctrl}
	mock.recorder = &MockeventDispatcherMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockeventDispatcher) EXPECT() *MockeventDispatcherMockRecorder {
	return m.recorder
}

// GetStats mocks base method.
func (m *MockeventDispatcher) GetStats(ctx context.Context, userID int64) (*stats.UserStats, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStats", ctx, userID)
	ret0, _ := ret[0].(*stats.UserStats)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetStats indicates an expected call of GetStats.
func (mr *MockeventDispatcherMockRecorder) GetStats(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStats", reflect.TypeOf((*MockeventDispatcher)(nil).GetStats), ctx, userID)
}

// HandleMesocycleCompleted mocks base method.
func (m *MockeventDispatcher) HandleMesocycleCompleted(ctx context.Context, event events.MesocycleCompleted) (*statsengine.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HandleMesocycleCompleted", ctx, event)
	ret0, _ := ret[0].(*statsengine.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// HandleMesocycleCompleted indicates an expected call of HandleMesocycleCompleted.
func (mr *MockeventDispatcherMockRecorder) HandleMesocycleCompleted(ctx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HandleMesocycleCompleted", reflect.TypeOf((*MockeventDispatcher)(nil).HandleMesocycleCompleted), ctx, event)
}

// HandleNutritionLogged mocks base method.
func (m *MockeventDispatcher) HandleNutritionLogged(ctx context.Context, event events.NutritionLogged) (*statsengine.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HandleNutritionLogged", ctx, event)
	ret0, _ := ret[0].(*statsengine.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// HandleNutritionLogged indicates an expected call of HandleNutritionLogged.
func (mr *MockeventDispatcherMockRecorder) HandleNutritionLogged(ctx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HandleNutritionLogged", reflect.TypeOf((*MockeventDispatcher)(nil).HandleNutritionLogged), ctx, event)
}

// HandleSetLogged mocks base method.
func (m *MockeventDispatcher) HandleSetLogged(ctx context.Context, event events.SetLogged) (*statsengine.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HandleSetLogged", ctx, event)
	ret0, _ := ret[0].(*statsengine.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// HandleSetLogged indicates an expected call of HandleSetLogged.
func (mr *MockeventDispatcherMockRecorder) HandleSetLogged(ctx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HandleSetLogged", reflect.TypeOf((*MockeventDispatcher)(nil).HandleSetLogged), ctx, event)
}

// HandleWorkoutCompleted mocks base method.
func (m *MockeventDispatcher) HandleWorkoutCompleted(ctx context.Context, event events.WorkoutCompleted) (*statsengine.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HandleWorkoutCompleted", ctx, event)
	ret0, _ := ret[0].(*statsengine.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// HandleWorkoutCompleted indicates an expected call of HandleWorkoutCompleted.
func (mr *MockeventDispatcherMockRecorder) HandleWorkoutCompleted(ctx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HandleWorkoutCompleted", reflect.TypeOf((*MockeventDispatcher)(nil).HandleWorkoutCompleted), ctx, event)
}
