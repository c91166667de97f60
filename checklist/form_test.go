package checklist

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyCoordinator records every save so tests can count debounce firings.
type spyCoordinator struct {
	mu          sync.Mutex
	saved       []*Payload
	titles      []string
	data        *Payload
	loadErr     error
	saveErr     error
	handoffID   string
	handoffErr  error
	handoffs    int
	checklistID string
	createErr   error
}

func (s *spyCoordinator) GetCurrentChecklistData() (*Payload, error) {
	return s.data, s.loadErr
}

func (s *spyCoordinator) SaveCurrentChecklist(payload *Payload, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, payload)
	s.titles = append(s.titles, title)
	return nil
}

func (s *spyCoordinator) CreateChatFromChecklist() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handoffs++
	return s.handoffID, s.handoffErr
}

func (s *spyCoordinator) CreateNewChecklist() (string, error) {
	return s.checklistID, s.createErr
}

func (s *spyCoordinator) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func (s *spyCoordinator) lastSave() (*Payload, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return nil, ""
	}
	return s.saved[len(s.saved)-1], s.titles[len(s.titles)-1]
}

const testDelay = 20 * time.Millisecond

func waitForSaves(t *testing.T, spy *spyCoordinator, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return spy.saveCount() == want }, time.Second, time.Millisecond)
}

func TestFormDefaults(t *testing.T) {
	form := NewForm(&spyCoordinator{}, testDelay)

	assert.Equal(t, OptionNone, form.SelectedOption())
	assert.Equal(t, 1, form.HandlingData().PersonCount)
	assert.Equal(t, 1, form.RiskConcernData().PrivacyRisk)
	assert.Empty(t, form.HandlingData().SelectedDataTypes)
	assert.False(t, form.IsSubmitting())
	assert.Empty(t, form.SubmitError())
}

func TestFormLoadHydratesPartialPayload(t *testing.T) {
	partial, err := Decode([]byte(`{"selectedOption":"motta","contextData":{"projectSummary":"Opptak"}}`))
	require.NoError(t, err)

	form := NewForm(&spyCoordinator{data: partial}, testDelay)
	require.NoError(t, form.Load())

	assert.Equal(t, OptionReceive, form.SelectedOption())
	assert.Equal(t, "Opptak", form.ContextData().ProjectSummary)
	// Omitted sections come back at their defaults.
	assert.Equal(t, 1, form.HandlingData().PersonCount)
	assert.Equal(t, 1, form.RiskConcernData().DataLoss)
}

func TestFormLoadWithoutDataResets(t *testing.T) {
	form := NewForm(&spyCoordinator{}, testDelay)
	form.SetSelectedOption(OptionShare)
	form.SetContextData(ContextData{ProjectSummary: "x"})

	require.NoError(t, form.Load())
	assert.Equal(t, OptionNone, form.SelectedOption())
	assert.Empty(t, form.ContextData().ProjectSummary)
}

func TestFormNoAutosaveWithoutSelection(t *testing.T) {
	spy := &spyCoordinator{}
	form := NewForm(spy, testDelay)

	form.SetContextData(ContextData{ProjectSummary: "utkast"})
	form.SetTechData(TechData{Storage: "skyen"})

	time.Sleep(4 * testDelay)
	assert.Equal(t, 0, spy.saveCount())
}

func TestFormAutosaveCollapsesBurst(t *testing.T) {
	spy := &spyCoordinator{}
	form := NewForm(spy, testDelay)

	form.SetSelectedOption(OptionReceive)
	form.SetContextData(ContextData{ProjectSummary: "versjon en"})
	form.SetContextData(ContextData{ProjectSummary: "versjon to"})
	form.SetContextData(ContextData{ProjectSummary: "versjon tre"})

	waitForSaves(t, spy, 1)
	time.Sleep(4 * testDelay)
	assert.Equal(t, 1, spy.saveCount())

	payload, title := spy.lastSave()
	assert.Equal(t, "versjon tre", payload.ContextData.ProjectSummary)
	assert.Equal(t, "versjon tre", title)
}

func TestFormAutosaveTitleTruncatesSummary(t *testing.T) {
	spy := &spyCoordinator{}
	form := NewForm(spy, testDelay)

	long := strings.Repeat("s", 80)
	form.SetSelectedOption(OptionShare)
	form.SetContextData(ContextData{ProjectSummary: long})

	waitForSaves(t, spy, 1)
	_, title := spy.lastSave()
	assert.Equal(t, strings.Repeat("s", 50)+"...", title)
}

func TestFormAutosaveTitleFallsBackToPlaceholder(t *testing.T) {
	spy := &spyCoordinator{}
	form := NewForm(spy, testDelay)

	form.SetSelectedOption(OptionReceive)

	waitForSaves(t, spy, 1)
	_, title := spy.lastSave()
	assert.Equal(t, TitlePlaceholder, title)
}

func TestFormSeparateBurstsSaveSeparately(t *testing.T) {
	spy := &spyCoordinator{}
	form := NewForm(spy, testDelay)

	form.SetSelectedOption(OptionReceive)
	waitForSaves(t, spy, 1)

	form.SetRiskConcernData(RiskConcernData{PrivacyRisk: 5, UnauthAccess: 2, DataLoss: 1, Reidentification: 1})
	waitForSaves(t, spy, 2)

	payload, _ := spy.lastSave()
	assert.Equal(t, 5, payload.RiskConcernData.PrivacyRisk)
}

func TestFormRedirectToChatFlushesThenHandsOff(t *testing.T) {
	spy := &spyCoordinator{handoffID: "chat-1"}
	// Long delay: the debounce cannot fire on its own during this test.
	form := NewForm(spy, time.Minute)

	form.SetSelectedOption(OptionReceive)
	form.SetContextData(ContextData{ProjectSummary: "Deling"})

	chatID, err := form.RedirectToChat()
	require.NoError(t, err)
	assert.Equal(t, "chat-1", chatID)
	assert.False(t, form.IsSubmitting())
	assert.Empty(t, form.SubmitError())

	// The pending autosave was flushed synchronously, then handed off.
	require.Equal(t, 1, spy.saveCount())
	payload, _ := spy.lastSave()
	assert.Equal(t, "Deling", payload.ContextData.ProjectSummary)
	assert.Equal(t, 1, spy.handoffs)
}

func TestFormRedirectToChatSurfacesHandoffFailure(t *testing.T) {
	spy := &spyCoordinator{handoffErr: errors.New("boom")}
	form := NewForm(spy, time.Minute)
	form.SetSelectedOption(OptionReceive)

	_, err := form.RedirectToChat()
	require.Error(t, err)
	assert.Equal(t, "Failed to convert checklist", form.SubmitError())
	assert.False(t, form.IsSubmitting())
}

func TestFormRedirectToChatSurfacesSaveFailure(t *testing.T) {
	spy := &spyCoordinator{saveErr: errors.New("disk full")}
	form := NewForm(spy, time.Minute)
	form.SetSelectedOption(OptionReceive)

	_, err := form.RedirectToChat()
	require.Error(t, err)
	assert.Equal(t, "Failed to convert checklist", form.SubmitError())
	assert.Equal(t, 0, spy.handoffs)
}

func TestFormResetRestoresDefaultsAndCancelsAutosave(t *testing.T) {
	spy := &spyCoordinator{}
	form := NewForm(spy, 100*time.Millisecond)

	form.SetSelectedOption(OptionShare)
	form.SetHandlingData(HandlingData{PersonCount: 900, Recipient: "NAV"})
	form.Reset()

	assert.Equal(t, OptionNone, form.SelectedOption())
	assert.Equal(t, 1, form.HandlingData().PersonCount)

	// The scheduled autosave was cancelled by the reset.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 0, spy.saveCount())
}

func TestFormFlushWithoutSelectionIsNoop(t *testing.T) {
	spy := &spyCoordinator{}
	form := NewForm(spy, testDelay)

	require.NoError(t, form.Flush())
	assert.Equal(t, 0, spy.saveCount())
}

func TestFormStartNewChecklist(t *testing.T) {
	spy := &spyCoordinator{checklistID: "checklist-2"}
	form := NewForm(spy, testDelay)
	form.SetSelectedOption(OptionReceive)

	checklistID, err := form.StartNewChecklist()
	require.NoError(t, err)
	assert.Equal(t, "checklist-2", checklistID)
	assert.Equal(t, OptionNone, form.SelectedOption())
}

func TestFormCreatePayloadSnapshot(t *testing.T) {
	form := NewForm(&spyCoordinator{}, testDelay)
	form.SetSelectedOption(OptionShare)
	form.SetLegalBasisData(LegalBasisData{LegalBasis: "samtykke", SelectedSensitiveDataReason: []string{}})

	payload := form.CreatePayload()
	assert.Equal(t, OptionShare, payload.SelectedOption)
	assert.Equal(t, "samtykke", payload.LegalBasisData.LegalBasis)
	// Later edits do not leak into the snapshot.
	form.SetLegalBasisData(LegalBasisData{LegalBasis: "avtale"})
	assert.Equal(t, "samtykke", payload.LegalBasisData.LegalBasis)
}
