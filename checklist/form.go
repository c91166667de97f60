package checklist

import (
	"strings"
	"sync"
	"time"

	"github.com/pvassist/pvassist/internal/debounce"
	"github.com/pvassist/pvassist/internal/debug"
)

// DefaultAutosaveDelay is the quiet period before an edit is persisted.
const DefaultAutosaveDelay = 500 * time.Millisecond

// TitlePlaceholder is the label of a checklist without a project summary.
const TitlePlaceholder = "Ny sjekkliste"

// titleMaxLength is the truncation limit for summary-derived titles.
const titleMaxLength = 50

// Coordinator is the slice of the session coordinator the form needs.
type Coordinator interface {
	GetCurrentChecklistData() (*Payload, error)
	SaveCurrentChecklist(payload *Payload, title string) error
	CreateChatFromChecklist() (string, error)
	CreateNewChecklist() (string, error)
}

// Form owns the checklist's in-memory field state: the selected option and
// the six sections, each updatable on its own. Edits are persisted through
// the coordinator after a debounced quiet period, and only once an option
// has been selected: an untouched checklist is never autosaved.
type Form struct {
	coordinator Coordinator
	debouncer   *debounce.Debouncer

	mu              sync.Mutex
	selectedOption  Option
	contextData     ContextData
	handlingData    HandlingData
	legalBasisData  LegalBasisData
	involvedParties InvolvedPartiesData
	techData        TechData
	riskConcernData RiskConcernData
	submitting      bool
	submitError     string
}

// NewForm returns a form at its default state. autosaveDelay is the
// debounce quiet period; pass DefaultAutosaveDelay outside of tests.
func NewForm(coordinator Coordinator, autosaveDelay time.Duration) *Form {
	form := &Form{
		coordinator: coordinator,
		debouncer:   debounce.New(autosaveDelay),
	}
	form.resetStateLocked()
	return form
}

func (f *Form) resetStateLocked() {
	f.selectedOption = OptionNone
	f.contextData = DefaultContextData()
	f.handlingData = DefaultHandlingData()
	f.legalBasisData = DefaultLegalBasisData()
	f.involvedParties = DefaultInvolvedPartiesData()
	f.techData = DefaultTechData()
	f.riskConcernData = DefaultRiskConcernData()
}

// Load pulls the current checklist's saved payload into the form. A
// checklist with no saved data, or a payload missing sections, hydrates
// with defaults. Any pending autosave is dropped.
func (f *Form) Load() error {
	f.debouncer.Stop()

	payload, err := f.coordinator.GetCurrentChecklistData()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.submitError = ""
	if payload == nil {
		f.resetStateLocked()
		return nil
	}
	f.selectedOption = payload.SelectedOption
	f.contextData = payload.ContextData
	f.handlingData = payload.HandlingData
	f.legalBasisData = payload.LegalBasisData
	f.involvedParties = payload.InvolvedPartiesData
	f.techData = payload.TechData
	f.riskConcernData = payload.RiskConcernData
	return nil
}

// CreatePayload assembles the current state into a payload. Pure snapshot,
// no I/O.
func (f *Form) CreatePayload() *Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payloadLocked()
}

func (f *Form) payloadLocked() *Payload {
	return &Payload{
		SelectedOption:      f.selectedOption,
		ContextData:         f.contextData,
		HandlingData:        f.handlingData,
		LegalBasisData:      f.legalBasisData,
		InvolvedPartiesData: f.involvedParties,
		TechData:            f.techData,
		RiskConcernData:     f.riskConcernData,
	}
}

// titleLocked derives the checklist title from the project summary,
// truncated, falling back to the placeholder.
func (f *Form) titleLocked() string {
	summary := strings.TrimSpace(f.contextData.ProjectSummary)
	if summary == "" {
		return TitlePlaceholder
	}
	runes := []rune(summary)
	if len(runes) > titleMaxLength {
		return string(runes[:titleMaxLength]) + "..."
	}
	return summary
}

// scheduleSaveLocked arms the debounced autosave, but only once an option
// is selected.
func (f *Form) scheduleSaveLocked() {
	if f.selectedOption == OptionNone {
		return
	}
	f.debouncer.Schedule(func() {
		if err := f.save(); err != nil {
			debug.GetLogger().Error("autosaving checklist", "error", err)
		}
	})
}

func (f *Form) save() error {
	f.mu.Lock()
	payload := f.payloadLocked()
	title := f.titleLocked()
	f.mu.Unlock()
	return f.coordinator.SaveCurrentChecklist(payload, title)
}

// SetSelectedOption switches the checklist track.
func (f *Form) SetSelectedOption(option Option) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectedOption = option
	f.scheduleSaveLocked()
}

// SetContextData replaces the project-context section.
func (f *Form) SetContextData(data ContextData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contextData = data
	f.scheduleSaveLocked()
}

// SetHandlingData replaces the data-handling section.
func (f *Form) SetHandlingData(data HandlingData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlingData = data
	f.scheduleSaveLocked()
}

// SetLegalBasisData replaces the legal-basis section.
func (f *Form) SetLegalBasisData(data LegalBasisData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.legalBasisData = data
	f.scheduleSaveLocked()
}

// SetInvolvedPartiesData replaces the involved-parties section.
func (f *Form) SetInvolvedPartiesData(data InvolvedPartiesData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.involvedParties = data
	f.scheduleSaveLocked()
}

// SetTechData replaces the tech section.
func (f *Form) SetTechData(data TechData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.techData = data
	f.scheduleSaveLocked()
}

// SetRiskConcernData replaces the risk section.
func (f *Form) SetRiskConcernData(data RiskConcernData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.riskConcernData = data
	f.scheduleSaveLocked()
}

// RedirectToChat persists the current payload, then asks the coordinator
// for the checklist-linked chat, creating it on first use. Failures land
// in SubmitError rather than leaving the form in a submitting state.
func (f *Form) RedirectToChat() (string, error) {
	f.debouncer.Stop()

	f.mu.Lock()
	f.submitting = true
	f.submitError = ""
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	if err := f.save(); err != nil {
		f.setSubmitError()
		return "", err
	}
	chatID, err := f.coordinator.CreateChatFromChecklist()
	if err != nil {
		f.setSubmitError()
		return "", err
	}
	return chatID, nil
}

func (f *Form) setSubmitError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitError = "Failed to convert checklist"
}

// Reset returns every section, including the option, to its default in one
// step. The persisted record is left alone until the next autosave.
func (f *Form) Reset() {
	f.debouncer.Stop()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetStateLocked()
	f.submitError = ""
}

// StartNewChecklist creates and activates a fresh checklist, then resets
// the form to match it.
func (f *Form) StartNewChecklist() (string, error) {
	checklistID, err := f.coordinator.CreateNewChecklist()
	if err != nil {
		return "", err
	}
	f.Reset()
	return checklistID, nil
}

// Flush cancels any pending autosave and persists immediately. No-op while
// no option is selected.
func (f *Form) Flush() error {
	f.debouncer.Stop()
	f.mu.Lock()
	selected := f.selectedOption != OptionNone
	f.mu.Unlock()
	if !selected {
		return nil
	}
	return f.save()
}

// SelectedOption returns the current track selection.
func (f *Form) SelectedOption() Option {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedOption
}

// ContextData returns the project-context section.
func (f *Form) ContextData() ContextData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contextData
}

// HandlingData returns the data-handling section.
func (f *Form) HandlingData() HandlingData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handlingData
}

// LegalBasisData returns the legal-basis section.
func (f *Form) LegalBasisData() LegalBasisData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.legalBasisData
}

// InvolvedPartiesData returns the involved-parties section.
func (f *Form) InvolvedPartiesData() InvolvedPartiesData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.involvedParties
}

// TechData returns the tech section.
func (f *Form) TechData() TechData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.techData
}

// RiskConcernData returns the risk section.
func (f *Form) RiskConcernData() RiskConcernData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.riskConcernData
}

// IsSubmitting reports whether a chat hand-off is in progress.
func (f *Form) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// SubmitError returns the user-visible hand-off failure, or "".
func (f *Form) SubmitError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitError
}
