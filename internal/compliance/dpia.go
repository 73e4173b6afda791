package compliance

// DPIASection is one section of the assessment questionnaire.
type DPIASection struct {
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
}

// DPIATemplate is the blank Data Protection Impact Assessment form
// handed to case administrators.
type DPIATemplate struct {
	Title          string                 `json:"title"`
	AssessmentDate string                 `json:"assessmentDate"`
	Assessor       string                 `json:"assessor"`
	Sections       map[string]DPIASection `json:"sections"`
}

// NewDPIATemplate returns the standard questionnaire with the assessor
// and date filled in.
func NewDPIATemplate(assessor, assessmentDate string) *DPIATemplate {
	return &DPIATemplate{
		Title:          "Data Protection Impact Assessment (DPIA) Template",
		AssessmentDate: assessmentDate,
		Assessor:       assessor,
		Sections: map[string]DPIASection{
			"1_description": {
				Title: "Description of Processing",
				Questions: []string{
					"What is the nature of the processing?",
					"What is the scope of the processing?",
					"What is the context of the processing?",
					"What are the purposes of the processing?",
				},
			},
			"2_necessity": {
				Title: "Necessity and Proportionality",
				Questions: []string{
					"What is the lawful basis for processing?",
					"Does the processing achieve its purpose?",
					"Is there another way to achieve the same outcome?",
				},
			},
			"3_risks": {
				Title: "Risks to Data Subjects",
				Questions: []string{
					"What are the sources of risk?",
					"What is the likelihood and severity of each risk?",
				},
			},
			"4_measures": {
				Title: "Measures to Address Risks",
				Questions: []string{
					"What technical measures reduce each risk?",
					"What organisational measures reduce each risk?",
					"Who approves residual risk?",
				},
			},
		},
	}
}
