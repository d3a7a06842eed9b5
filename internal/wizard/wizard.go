// Package wizard models the seven-stage tracking entry form as an
// explicit state machine. Forward navigation is gated by the current
// stage's validator; backward navigation and jumps from the step
// indicator are unconditional; drafts save at any time without
// validation.
package wizard

import (
	"errors"
	"fmt"

	"github.com/agroverde/avotrace/internal/models"
)

// Stage is one step of the entry wizard.
type Stage int

const (
	StageHarvest Stage = iota + 1
	StageTransport
	StageSorting
	StagePackaging
	StageStorage
	StageExport
	StageDelivery
)

// StageCount is the number of wizard stages.
const StageCount = 7

var stageNames = map[Stage]string{
	StageHarvest:   "harvest",
	StageTransport: "transport",
	StageSorting:   "sorting",
	StagePackaging: "packaging",
	StageStorage:   "storage",
	StageExport:    "export",
	StageDelivery:  "delivery",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Valid reports whether s is a real stage.
func (s Stage) Valid() bool { return s >= StageHarvest && s <= StageDelivery }

// Event is a navigation action on the wizard.
type Event int

const (
	EventNext Event = iota
	EventPrev
	EventJump
	EventSubmit
)

var (
	// ErrInvalidTransition is returned for events the transition table
	// does not allow from the current stage.
	ErrInvalidTransition = errors.New("invalid wizard transition")
	// ErrValidation is returned when a gated event fails the current
	// stage's validator.
	ErrValidation = errors.New("stage validation failed")
)

// transition is one row of the table: event applied at a stage, the
// resulting stage, and whether the current stage must validate first.
type transition struct {
	to    Stage
	gated bool
}

// transitions is the full state × event table. Absence means the event
// is not allowed at that stage. Jump is handled separately because it
// carries a target.
var transitions = map[Stage]map[Event]transition{
	StageHarvest:   {EventNext: {StageTransport, true}},
	StageTransport: {EventNext: {StageSorting, true}, EventPrev: {StageHarvest, false}},
	StageSorting:   {EventNext: {StagePackaging, true}, EventPrev: {StageTransport, false}},
	StagePackaging: {EventNext: {StageStorage, true}, EventPrev: {StageSorting, false}},
	StageStorage:   {EventNext: {StageExport, true}, EventPrev: {StagePackaging, false}},
	StageExport:    {EventNext: {StageDelivery, true}, EventPrev: {StageStorage, false}},
	StageDelivery:  {EventPrev: {StageExport, false}, EventSubmit: {StageDelivery, true}},
}

// Validator checks one stage's fields on the record being built.
type Validator func(*models.AvocadoTracking) error

// Machine is a wizard instance positioned at a stage.
type Machine struct {
	stage      Stage
	validators map[Stage]Validator
}

// New returns a machine at the harvest stage with the default validators.
func New() *Machine {
	return &Machine{stage: StageHarvest, validators: defaultValidators}
}

// Resume returns a machine positioned at a previously saved stage.
func Resume(stage Stage) (*Machine, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: cannot resume at %s", ErrInvalidTransition, stage)
	}
	return &Machine{stage: stage, validators: defaultValidators}, nil
}

// Stage returns the current stage.
func (m *Machine) Stage() Stage { return m.stage }

// Next advances to the following stage after the current stage's
// validator passes.
func (m *Machine) Next(record *models.AvocadoTracking) error {
	return m.apply(EventNext, record)
}

// Prev steps back unconditionally.
func (m *Machine) Prev() error {
	return m.apply(EventPrev, nil)
}

// Jump moves to an arbitrary stage unconditionally (step indicator).
func (m *Machine) Jump(target Stage) error {
	if !target.Valid() {
		return fmt.Errorf("%w: no such stage %d", ErrInvalidTransition, int(target))
	}
	m.stage = target
	return nil
}

// Submit finishes the wizard; only allowed on the final stage and only
// when its validator passes.
func (m *Machine) Submit(record *models.AvocadoTracking) error {
	return m.apply(EventSubmit, record)
}

func (m *Machine) apply(ev Event, record *models.AvocadoTracking) error {
	row, ok := transitions[m.stage][ev]
	if !ok {
		return fmt.Errorf("%w: event %d at stage %s", ErrInvalidTransition, int(ev), m.stage)
	}
	if row.gated {
		if validate := m.validators[m.stage]; validate != nil {
			if err := validate(record); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrValidation, m.stage, err)
			}
		}
	}
	m.stage = row.to
	return nil
}
