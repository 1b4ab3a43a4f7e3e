package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"constscan.dev/pkg/constscan/internal/domain"
	m "constscan.dev/pkg/constscan/internal/model"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

var _ domain.Workflow = (*MockWorkflow)(nil)

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted on cleanup.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mockWorkflow := &MockWorkflow{}
	mockWorkflow.Test(t)

	t.Cleanup(func() { mockWorkflow.AssertExpectations(t) })

	return mockWorkflow
}

// Check mocks domain.Workflow.Check.
func (_m *MockWorkflow) Check(ctx context.Context, args domain.CheckArgs) (m.Report, error) {
	ret := _m.Called(ctx, args)

	report, _ := ret.Get(0).(m.Report)

	return report, ret.Error(1)
}

// List mocks domain.Workflow.List.
func (_m *MockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// View mocks domain.Workflow.View.
func (_m *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) (m.Report, error) {
	ret := _m.Called(ctx, args)

	report, _ := ret.Get(0).(m.Report)

	return report, ret.Error(1)
}

// Watch mocks domain.Workflow.Watch.
func (_m *MockWorkflow) Watch(ctx context.Context, args domain.WatchArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}
