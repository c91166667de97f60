package checklist

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// payloadShadow mirrors Payload with pointer sections so a stored payload
// that omits a section can be told apart from one holding explicit zero
// values.
type payloadShadow struct {
	SelectedOption      Option               `json:"selectedOption"`
	ContextData         *ContextData         `json:"contextData"`
	HandlingData        *HandlingData        `json:"handlingData"`
	LegalBasisData      *LegalBasisData      `json:"legalBasisData"`
	InvolvedPartiesData *InvolvedPartiesData `json:"involvedPartiesData"`
	TechData            *TechData            `json:"techData"`
	RiskConcernData     *RiskConcernData     `json:"riskConcernData"`
}

// Decode unmarshals a stored payload, substituting the section default for
// every section the stored data omits. Partial saves hydrate cleanly.
func Decode(data []byte) (*Payload, error) {
	var shadow payloadShadow
	if err := json.Unmarshal(data, &shadow); err != nil {
		return nil, errors.Wrap(err, "unmarshaling checklist payload")
	}
	payload := DefaultPayload()
	payload.SelectedOption = shadow.SelectedOption
	if shadow.ContextData != nil {
		payload.ContextData = *shadow.ContextData
	}
	if shadow.HandlingData != nil {
		payload.HandlingData = *shadow.HandlingData
	}
	if shadow.LegalBasisData != nil {
		payload.LegalBasisData = *shadow.LegalBasisData
	}
	if shadow.InvolvedPartiesData != nil {
		payload.InvolvedPartiesData = *shadow.InvolvedPartiesData
	}
	if shadow.TechData != nil {
		payload.TechData = *shadow.TechData
	}
	if shadow.RiskConcernData != nil {
		payload.RiskConcernData = *shadow.RiskConcernData
	}
	return payload, nil
}
