package pipeline

import (
	"context"
	"fmt"
)

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageDiscover  StageName = "discover"
	StageRead      StageName = "read"
	StageURLs      StageName = "urls"
	StageIndex     StageName = "index"
	StageResolve   StageName = "resolve"
	StageClone     StageName = "clone"
	StageAnnotate  StageName = "annotate"
	StagePartition StageName = "partition"
	StageSite      StageName = "site"
)

// Stage is a discrete unit of work in a pipeline run.
type Stage func(ctx context.Context, rs *runState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind classifies the outcome of a stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the stage and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// stageList is a fluent builder for ordered stage definitions.
type stageList struct{ defs []StageDef }

func newStageList() *stageList { return &stageList{defs: make([]StageDef, 0, 9)} }

func (l *stageList) add(name StageName, fn Stage) *stageList {
	l.defs = append(l.defs, StageDef{Name: name, Fn: fn})
	return l
}
