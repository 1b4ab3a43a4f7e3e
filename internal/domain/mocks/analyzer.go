// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"constscan.dev/pkg/constscan/internal/domain"
	m "constscan.dev/pkg/constscan/internal/model"
)

// MockAnalyzer is a mock of domain.Analyzer.
type MockAnalyzer struct {
	mock.Mock
}

var _ domain.Analyzer = (*MockAnalyzer)(nil)

// AnalyzeFile mocks domain.Analyzer.AnalyzeFile.
func (_m *MockAnalyzer) AnalyzeFile(ctx context.Context, file m.File) (m.FileResult, error) {
	ret := _m.Called(ctx, file)

	result, _ := ret.Get(0).(m.FileResult)

	return result, ret.Error(1)
}
