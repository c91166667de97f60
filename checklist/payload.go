package checklist

// Option selects which checklist track the user is filling in:
// receiving personal data ("motta") or sharing it ("dele").
type Option string

// Checklist options. The empty value means no selection has been made yet.
const (
	OptionNone    Option = ""
	OptionReceive Option = "motta"
	OptionShare   Option = "dele"
)

// ContextData describes the project the checklist is about.
type ContextData struct {
	ProjectSummary string `json:"projectSummary"`
	Department     string `json:"department"`
	Status         string `json:"status"`
	Purpose        string `json:"purpose"`
}

// HandlingData describes how the personal data is handled.
type HandlingData struct {
	Purpose             string   `json:"purpose"`
	SelectedDataTypes   []string `json:"selectedDataTypes"`
	PersonCount         int      `json:"personCount"`
	RetentionTime       int      `json:"retentionTime"`
	CollectionMethods   []string `json:"collectionMethods"`
	Recipient           string   `json:"recipient"`
	RecipientType       string   `json:"recipientType"`
	SharingLegalBasis   string   `json:"sharingLegalBasis"`
	ShareFrequency      int      `json:"shareFrequency"`
	DataTransferMethods []string `json:"dataTransferMethods"`
	SelectedDataSources []string `json:"selectedDataSources"`
}

// LegalBasisData captures the legal grounds for the processing.
type LegalBasisData struct {
	LegalBasis                  string   `json:"legalBasis"`
	HandlesSensitiveData        bool     `json:"handlesSensitiveData"`
	SelectedSensitiveDataReason []string `json:"selectedSensitiveDataReason"`
	StatutoryTasks              string   `json:"statutoryTasks"`
}

// InvolvedPartiesData captures who is registered and who gets access.
type InvolvedPartiesData struct {
	RegisteredGroups       []string `json:"registeredGroups"`
	UsesExternalProcessors bool     `json:"usesExternalProcessors"`
	ExternalProcessors     string   `json:"externalProcessors"`
	EmployeeAccess         string   `json:"employeeAccess"`
	SharesWithOthers       bool     `json:"sharesWithOthers"`
	SharedWith             string   `json:"sharedWith"`
}

// TechData captures storage, security and automation details.
type TechData struct {
	Storage              string   `json:"storage"`
	Security             []string `json:"security"`
	Integrations         bool     `json:"integrations"`
	IntegrationDetails   string   `json:"integrationDetails"`
	Automated            bool     `json:"automated"`
	AutomatedDescription string   `json:"automatedDescription"`
}

// RiskConcernData captures risk self-assessment scores (1-5) and concerns.
type RiskConcernData struct {
	PrivacyRisk       int    `json:"privacyRisk"`
	UnauthAccess      int    `json:"unauthAccess"`
	DataLoss          int    `json:"dataLoss"`
	Reidentification  int    `json:"reidentification"`
	EmployeeConcern   bool   `json:"employeeConcern"`
	WrittenConcern    string `json:"writtenConcern"`
	RegulatoryConcern string `json:"regulatoryConcern"`
}

// Payload is the full checklist: the selected option plus the six sections.
type Payload struct {
	SelectedOption      Option              `json:"selectedOption"`
	ContextData         ContextData         `json:"contextData"`
	HandlingData        HandlingData        `json:"handlingData"`
	LegalBasisData      LegalBasisData      `json:"legalBasisData"`
	InvolvedPartiesData InvolvedPartiesData `json:"involvedPartiesData"`
	TechData            TechData            `json:"techData"`
	RiskConcernData     RiskConcernData     `json:"riskConcernData"`
}

// DefaultContextData returns the initial state of the project-context section.
func DefaultContextData() ContextData {
	return ContextData{}
}

// DefaultHandlingData returns the initial state of the data-handling section.
func DefaultHandlingData() HandlingData {
	return HandlingData{
		SelectedDataTypes:   []string{},
		PersonCount:         1,
		CollectionMethods:   []string{},
		DataTransferMethods: []string{},
		SelectedDataSources: []string{},
	}
}

// DefaultLegalBasisData returns the initial state of the legal-basis section.
func DefaultLegalBasisData() LegalBasisData {
	return LegalBasisData{SelectedSensitiveDataReason: []string{}}
}

// DefaultInvolvedPartiesData returns the initial state of the involved-parties section.
func DefaultInvolvedPartiesData() InvolvedPartiesData {
	return InvolvedPartiesData{RegisteredGroups: []string{}}
}

// DefaultTechData returns the initial state of the tech section.
func DefaultTechData() TechData {
	return TechData{Security: []string{}}
}

// DefaultRiskConcernData returns the initial state of the risk section.
// Risk sliders start at the lowest score.
func DefaultRiskConcernData() RiskConcernData {
	return RiskConcernData{
		PrivacyRisk:      1,
		UnauthAccess:     1,
		DataLoss:         1,
		Reidentification: 1,
	}
}

// DefaultPayload assembles a payload with every section at its default.
func DefaultPayload() *Payload {
	return &Payload{
		ContextData:         DefaultContextData(),
		HandlingData:        DefaultHandlingData(),
		LegalBasisData:      DefaultLegalBasisData(),
		InvolvedPartiesData: DefaultInvolvedPartiesData(),
		TechData:            DefaultTechData(),
		RiskConcernData:     DefaultRiskConcernData(),
	}
}
