// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	"constscan.dev/pkg/constscan/internal/adapter"
	m "constscan.dev/pkg/constscan/internal/model"
)

// MockSourceFSAdapter is a mock of adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

var _ adapter.SourceFSAdapter = (*MockSourceFSAdapter)(nil)

// Walk mocks adapter.SourceFSAdapter.Walk.
func (_m *MockSourceFSAdapter) Walk(root m.Path, recursive bool, fn adapter.FilepathWalkFunc) error {
	ret := _m.Called(root, recursive, fn)
	return ret.Error(0)
}

// Get mocks adapter.SourceFSAdapter.Get.
func (_m *MockSourceFSAdapter) Get(ctx context.Context, paths []m.Path, extensions []string, exclude ...string) ([]m.File, error) {
	ret := _m.Called(ctx, paths, extensions, exclude)

	files, _ := ret.Get(0).([]m.File)

	return files, ret.Error(1)
}

// ReadFile mocks adapter.SourceFSAdapter.ReadFile.
func (_m *MockSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	ret := _m.Called(path)

	content, _ := ret.Get(0).([]byte)

	return content, ret.Error(1)
}

// HashFile mocks adapter.SourceFSAdapter.HashFile.
func (_m *MockSourceFSAdapter) HashFile(path m.Path) (string, error) {
	ret := _m.Called(path)
	return ret.String(0), ret.Error(1)
}

// FileInfo mocks adapter.SourceFSAdapter.FileInfo.
func (_m *MockSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	ret := _m.Called(path)

	info, _ := ret.Get(0).(os.FileInfo)

	return info, ret.Error(1)
}

// MockReportStore is a mock of adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

var _ adapter.ReportStore = (*MockReportStore)(nil)

// SaveReport mocks adapter.ReportStore.SaveReport.
func (_m *MockReportStore) SaveReport(dir m.Path, report m.Report) error {
	ret := _m.Called(dir, report)
	return ret.Error(0)
}

// LoadReport mocks adapter.ReportStore.LoadReport.
func (_m *MockReportStore) LoadReport(dir m.Path) (m.Report, error) {
	ret := _m.Called(dir)

	report, _ := ret.Get(0).(m.Report)

	return report, ret.Error(1)
}

// MockSyntaxParser is a mock of adapter.SyntaxParser.
type MockSyntaxParser struct {
	mock.Mock
}

var _ adapter.SyntaxParser = (*MockSyntaxParser)(nil)

// Language mocks adapter.SyntaxParser.Language.
func (_m *MockSyntaxParser) Language() m.Language {
	ret := _m.Called()

	lang, _ := ret.Get(0).(m.Language)

	return lang
}

// Extensions mocks adapter.SyntaxParser.Extensions.
func (_m *MockSyntaxParser) Extensions() []string {
	ret := _m.Called()

	exts, _ := ret.Get(0).([]string)

	return exts
}

// Parse mocks adapter.SyntaxParser.Parse.
func (_m *MockSyntaxParser) Parse(ctx context.Context, path m.Path, content []byte) (m.SyntaxFile, error) {
	ret := _m.Called(ctx, path, content)

	file, _ := ret.Get(0).(m.SyntaxFile)

	return file, ret.Error(1)
}

// MockParserLookup is a mock of adapter.ParserLookup.
type MockParserLookup struct {
	mock.Mock
}

var _ adapter.ParserLookup = (*MockParserLookup)(nil)

// ForPath mocks adapter.ParserLookup.ForPath.
func (_m *MockParserLookup) ForPath(path m.Path) (adapter.SyntaxParser, bool) {
	ret := _m.Called(path)

	parser, _ := ret.Get(0).(adapter.SyntaxParser)

	return parser, ret.Bool(1)
}

// Extensions mocks adapter.ParserLookup.Extensions.
func (_m *MockParserLookup) Extensions(langs ...m.Language) []string {
	ret := _m.Called(langs)

	exts, _ := ret.Get(0).([]string)

	return exts
}

// FakeChangeSource is a hand-driven adapter.ChangeSource: tests push batches
// into Batches.
type FakeChangeSource struct {
	Batches chan []m.Path
	Closed  bool
}

var _ adapter.ChangeSource = (*FakeChangeSource)(nil)

// NewFakeChangeSource creates a change source with a buffered batch channel.
func NewFakeChangeSource() *FakeChangeSource {
	return &FakeChangeSource{Batches: make(chan []m.Path, 4)}
}

// Changes returns the batch channel.
func (f *FakeChangeSource) Changes() <-chan []m.Path {
	return f.Batches
}

// Run blocks until ctx is done.
func (f *FakeChangeSource) Run(ctx context.Context) {
	<-ctx.Done()
}

// Close records the call.
func (f *FakeChangeSource) Close() error {
	f.Closed = true
	return nil
}
