package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "constscan.dev/pkg/constscan/internal/model"
)

const (
	headerLines  = 3
	footerLines  = 2
	defaultWidth = 80
	maxSkipLines = 5
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	violationStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	passStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewUI returns the interactive TUI when useTTY is set and the format is a
// table, and the SimpleUI otherwise. onQuit runs when the user leaves the TUI.
func NewUI(cmd *cobra.Command, useTTY bool, format Format, onQuit func()) UI {
	if useTTY && (format == "" || format == FormatTable) {
		return NewTUI(cmd.InOrStdin(), cmd.OutOrStdout(), onQuit)
	}

	return NewSimpleUI(cmd, format)
}

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	input  io.Reader
	output io.Writer
	onQuit func()

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	err     error
}

// NewTUI creates a new TUI. A nil input disables keyboard handling.
func NewTUI(input io.Reader, output io.Writer, onQuit func()) *TUI {
	return &TUI{input: input, output: output, onQuit: onQuit}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return errors.New("tui already started")
	}

	cfg := newStartConfig(options...)

	t.program = tea.NewProgram(
		newRunModel(cfg.Mode(), t.onQuit),
		tea.WithContext(ctx),
		tea.WithInput(t.input),
		tea.WithOutput(t.output),
		tea.WithAltScreen(),
	)
	t.done = make(chan struct{})

	go t.run(t.program, t.done)

	return nil
}

func (t *TUI) run(program *tea.Program, done chan struct{}) {
	defer close(done)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
	}
}

// Close stops the program and waits for the terminal to be restored.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program = nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user leaves the TUI or ctx is cancelled.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	select {
	case <-ctx.Done():
	case <-done:
	}
}

// Err returns the error the program stopped with, if any.
func (t *TUI) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.err
}

// DisplayConcurrencyInfo shows how many files are analysed and by how many workers.
func (t *TUI) DisplayConcurrencyInfo(ctx context.Context, files int, parallel int) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(concurrencyMsg{files: files, parallel: parallel})
}

// DisplayFileResult advances the progress line.
func (t *TUI) DisplayFileResult(ctx context.Context, result m.FileResult, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return
	}

	t.send(fileResultMsg{path: result.File.ShortPath, violations: len(result.Violations()), err: err})
}

// DisplayReport shows the findings of a run in the scrollable view.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(reportMsg{report: report})

	return nil
}

// DisplayUnits shows every unit in the scrollable view.
func (t *TUI) DisplayUnits(ctx context.Context, results []m.FileResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(unitsMsg{results: results})

	return nil
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

type concurrencyMsg struct {
	files    int
	parallel int
}

type fileResultMsg struct {
	path       m.Path
	violations int
	err        error
}

type reportMsg struct {
	report m.Report
}

type unitsMsg struct {
	results []m.FileResult
}

// runModel shows analysis progress, then the findings in a viewport.
type runModel struct {
	mode   StartMode
	onQuit func()

	spinner  spinner.Model
	viewport viewport.Model

	files      int
	parallel   int
	analysed   int
	violations int
	skipped    []string

	summary  string
	ready    bool
	updated  time.Time
	width    int
	height   int
	quitting bool
}

func newRunModel(mode StartMode, onQuit func()) runModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return runModel{
		mode:     mode,
		onQuit:   onQuit,
		spinner:  sp,
		viewport: viewport.New(defaultWidth, 20),
		width:    defaultWidth,
	}
}

func (rm runModel) Init() tea.Cmd {
	return rm.spinner.Tick
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return rm.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		rm.width = msg.Width
		rm.height = msg.Height
		rm.viewport.Width = msg.Width
		rm.viewport.Height = rm.viewportHeight()

		return rm, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		rm.spinner, cmd = rm.spinner.Update(msg)

		return rm, cmd
	case concurrencyMsg:
		rm.files = msg.files
		rm.parallel = msg.parallel
		rm.analysed = 0
		rm.violations = 0
		rm.skipped = nil

		return rm, nil
	case fileResultMsg:
		rm.analysed++
		rm.violations += msg.violations

		if msg.err != nil {
			rm.skipped = append(rm.skipped, fmt.Sprintf("skipped %s: %v", msg.path, msg.err))
		}

		return rm, nil
	case reportMsg:
		return rm.showReport(msg.report), nil
	case unitsMsg:
		return rm.showUnits(msg.results), nil
	}

	return rm, nil
}

//nolint:cyclop,exhaustive
func (rm runModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return rm.quit()
	case tea.KeyHome:
		rm.viewport.GotoTop()
		return rm, nil
	case tea.KeyEnd:
		rm.viewport.GotoBottom()
		return rm, nil
	}

	switch msg.String() {
	case "q":
		return rm.quit()
	case "g":
		rm.viewport.GotoTop()
		return rm, nil
	case "G":
		rm.viewport.GotoBottom()
		return rm, nil
	}

	var cmd tea.Cmd
	rm.viewport, cmd = rm.viewport.Update(msg)

	return rm, cmd
}

func (rm runModel) quit() (tea.Model, tea.Cmd) {
	rm.quitting = true

	if rm.onQuit != nil {
		rm.onQuit()
	}

	return rm, tea.Quit
}

func (rm runModel) showReport(report m.Report) runModel {
	var b strings.Builder

	if len(report.Findings) == 0 {
		b.WriteString(passStyle.Render("No constants-only units found."))
		b.WriteString("\n")
	} else {
		b.WriteString(renderFindingsTable(report))
	}

	rm.summary = summaryLine(report.Summary)
	if report.Summary.Violations > 0 {
		rm.summary = violationStyle.Render(rm.summary)
	}

	rm.viewport.SetContent(b.String())
	rm.viewport.GotoTop()
	rm.ready = true
	rm.updated = time.Now()

	return rm
}

func (rm runModel) showUnits(results []m.FileResult) runModel {
	units := 0
	for _, result := range results {
		units += len(result.Units)
	}

	rm.summary = fmt.Sprintf("%d unit(s) across %d file(s)", units, len(results))
	rm.viewport.SetContent(renderUnitsTable(results))
	rm.viewport.GotoTop()
	rm.ready = true
	rm.updated = time.Now()

	return rm
}

func (rm runModel) viewportHeight() int {
	height := rm.height - headerLines - footerLines - min(len(rm.skipped), maxSkipLines)
	if height < 1 {
		return 1
	}

	return height
}

func (rm runModel) View() string {
	if rm.quitting {
		return ""
	}

	var b strings.Builder

	rm.renderHeader(&b)

	if rm.ready {
		b.WriteString(rm.viewport.View())
		b.WriteString("\n")
	}

	rm.renderFooter(&b)

	return b.String()
}

func (rm runModel) renderHeader(b *strings.Builder) {
	b.WriteString(titleStyle.Render("constscan - " + rm.modeTitle()))
	b.WriteString("\n")

	switch {
	case rm.mode == ModeView:
		b.WriteString(mutedStyle.Render("persisted report"))
	case !rm.ready || (rm.mode == ModeWatch && rm.analysed < rm.files):
		fmt.Fprintf(b, "%s Analysing %d/%d file(s) with %d worker(s), %d violation(s) so far",
			rm.spinner.View(), rm.analysed, rm.files, rm.parallel, rm.violations)
	default:
		fmt.Fprintf(b, "Analysed %d file(s)", rm.analysed)
	}

	b.WriteString("\n")

	skipped := rm.skipped
	if len(skipped) > maxSkipLines {
		skipped = skipped[len(skipped)-maxSkipLines:]
	}

	for _, line := range skipped {
		b.WriteString(violationStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
}

func (rm runModel) renderFooter(b *strings.Builder) {
	if rm.summary != "" {
		b.WriteString(rm.summary)
		b.WriteString("\n")
	}

	help := "q: quit"
	if rm.ready {
		help = fmt.Sprintf("%3.f%%  j/k: scroll  g/G: top/bottom  q: quit", rm.viewport.ScrollPercent()*100)
	}

	if rm.mode == ModeWatch && !rm.updated.IsZero() {
		help += "  updated " + rm.updated.Format(time.TimeOnly)
	}

	b.WriteString(mutedStyle.Render(help))
}

func (rm runModel) modeTitle() string {
	switch rm.mode {
	case ModeList:
		return "units"
	case ModeView:
		return "report"
	case ModeWatch:
		return "watching"
	case ModeCheck:
		return "check"
	}

	return "check"
}
