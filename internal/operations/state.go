package operations

import (
	"sort"
	"sync"

	"pageviews/internal/charts"
	"pageviews/internal/cleaning"
	"pageviews/internal/dataset"
)

// RunState is shared by the steps of one run. Load and clean fill Series
// and Cleaned before any plot step starts; plot steps only read them.
type RunState struct {
	RunID   string
	Series  *dataset.Series
	Cleaned *cleaning.CleanedSeries

	mu         sync.Mutex
	lineFigure *charts.LineFigure
	barFigure  *charts.BarFigure
	boxFigure  *charts.BoxFigure
	artifacts  []string
	stepsByID  map[string]*StepState
	stepsInRun []string
}

// NewRunState creates an empty state for runID
func NewRunState(runID string) *RunState {
	return &RunState{
		RunID:     runID,
		stepsByID: make(map[string]*StepState),
	}
}

func (s *RunState) trackStep(state *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepsByID[state.ID] = state
	s.stepsInRun = append(s.stepsInRun, state.ID)
}

// Step returns the state of the step with id, or nil if it never ran
func (s *RunState) Step(id string) *StepState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepsByID[id]
}

// StepIDs returns the IDs of the steps that ran, in start order
func (s *RunState) StepIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.stepsInRun...)
}

// AddArtifact records a file written by the run
func (s *RunState) AddArtifact(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, path)
}

// Artifacts returns the written files, sorted
func (s *RunState) Artifacts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.artifacts...)
	sort.Strings(out)
	return out
}

// SetLineFigure stores the rendered line plot
func (s *RunState) SetLineFigure(f *charts.LineFigure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineFigure = f
}

// LineFigure returns the rendered line plot, if any
func (s *RunState) LineFigure() *charts.LineFigure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineFigure
}

// SetBarFigure stores the rendered bar chart
func (s *RunState) SetBarFigure(f *charts.BarFigure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.barFigure = f
}

// BarFigure returns the rendered bar chart, if any
func (s *RunState) BarFigure() *charts.BarFigure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.barFigure
}

// SetBoxFigure stores the rendered box plots
func (s *RunState) SetBoxFigure(f *charts.BoxFigure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boxFigure = f
}

// BoxFigure returns the rendered box plots, if any
func (s *RunState) BoxFigure() *charts.BoxFigure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boxFigure
}
