// Code generated by MockGen. DO NOT EDIT.
// Source: handler.go
//
// Generated by this command:
//
//	mockgen -source=handler.go -destination=handler_mocks_test.go -package=achievements_test
//

// Package achievements_test is a generated GoMock package.
package achievements_test

import (
	context "context"
	reflect "reflect"

	achievements "github.com/liftlog/statsengine/internal/statsengine/achievements"
	gomock "go.uber.org/mock/gomock"
)

// MockachievementsRepo is a mock of achievementsRepo interface.
type MockachievementsRepo struct {
	ctrl     *gomock.Controller
	recorder *MockachievementsRepoMockRecorder
	isgomock struct{}
}

// MockachievementsRepoMockRecorder is the mock recorder for MockachievementsRepo.
type MockachievementsRepoMockRecorder struct {
	mock *MockachievementsRepo
}

// NewMockachievementsRepo creates a new mock instance.
func NewMockachievementsRepo(ctrl *gomock.Controller) *MockachievementsRepo {
	mock := &MockachievementsRepo{ctrl: ctrl}
	mock.recorder = &MockachievementsRepoMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockachievementsRepo) EXPECT() *MockachievementsRepoMockRecorder {
	return m.recorder
}

// ListCatalog mocks base method.
func (m *MockachievementsRepo) ListCatalog(ctx context.Context) ([]achievements.Achievement, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListCatalog", ctx)
	ret0, _ := ret[0].([]achievements.Achievement)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListCatalog indicates an expected call of ListCatalog.
func (mr *MockachievementsRepoMockRecorder) ListCatalog(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListCatalog", reflect.TypeOf((*MockachievementsRepo)(nil).ListCatalog), ctx)
}

// ListUnseen mocks base method.
func (m *MockachievementsRepo) ListUnseen(ctx context.Context, userID int64) ([]achievements.Unlock, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListUnseen", ctx, userID)
	ret0, _ := ret[0].([]achievements.Unlock)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListUnseen indicates an expected call of ListUnseen.
func (mr *MockachievementsRepoMockRecorder) ListUnseen(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListUnseen", reflect.TypeOf((*MockachievementsRepo)(nil).ListUnseen), ctx, userID)
}

// MarkSeen mocks base method.
func (m *MockachievementsRepo) MarkSeen(ctx context.Context, userID, achievementID int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkSeen", ctx, userID, achievementID)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkSeen indicates an expected call of MarkSeen.
func (mr *MockachievementsRepoMockRecorder) MarkSeen(ctx, userID, achievementID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkSeen", reflect.TypeOf((*MockachievementsRepo)(nil).MarkSeen), ctx, userID, achievementID)
}
