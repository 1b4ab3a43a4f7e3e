// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"constscan.dev/pkg/constscan/internal/controller"
	m "constscan.dev/pkg/constscan/internal/model"
)

// MockUI is a mock of controller.UI.
type MockUI struct {
	mock.Mock
}

var _ controller.UI = (*MockUI)(nil)

// Start mocks controller.UI.Start.
func (_m *MockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	ret := _m.Called(ctx, options)
	return ret.Error(0)
}

// Close mocks controller.UI.Close.
func (_m *MockUI) Close(ctx context.Context) {
	_m.Called(ctx)
}

// Wait mocks controller.UI.Wait.
func (_m *MockUI) Wait(ctx context.Context) {
	_m.Called(ctx)
}

// DisplayConcurrencyInfo mocks controller.UI.DisplayConcurrencyInfo.
func (_m *MockUI) DisplayConcurrencyInfo(ctx context.Context, files int, parallel int) {
	_m.Called(ctx, files, parallel)
}

// DisplayFileResult mocks controller.UI.DisplayFileResult.
func (_m *MockUI) DisplayFileResult(ctx context.Context, result m.FileResult, err error) {
	_m.Called(ctx, result, err)
}

// DisplayReport mocks controller.UI.DisplayReport.
func (_m *MockUI) DisplayReport(ctx context.Context, report m.Report) error {
	ret := _m.Called(ctx, report)
	return ret.Error(0)
}

// DisplayUnits mocks controller.UI.DisplayUnits.
func (_m *MockUI) DisplayUnits(ctx context.Context, results []m.FileResult) error {
	ret := _m.Called(ctx, results)
	return ret.Error(0)
}
