package model

// Prediction is the outcome of matching one example.
type Prediction struct {
	ExampleID  string        `json:"example_id"`
	Answer     string        `json:"answer"`
	Predicted  string        `json:"predicted,omitempty"`
	Matches    []MatchResult `json:"matches"`
	Candidates []Candidate   `json:"candidates"`
	Err        string        `json:"error,omitempty"`
}

// Correct reports whether the predicted marker equals the answer.
func (p *Prediction) Correct() bool {
	return p.Predicted != "" && p.Predicted == p.Answer
}

// EvaluationReport summarizes predictions over many examples.
type EvaluationReport struct {
	Total       int           `json:"total"`
	Answered    int           `json:"answered"`
	Correct     int           `json:"correct"`
	Failed      int           `json:"failed"`
	Predictions []*Prediction `json:"predictions"`
}

// Add counts a prediction.
func (r *EvaluationReport) Add(p *Prediction) {
	r.Total++
	r.Predictions = append(r.Predictions, p)
	switch {
	case p.Err != "":
		r.Failed++
	case p.Predicted != "":
		r.Answered++
		if p.Correct() {
			r.Correct++
		}
	}
}

// Accuracy is the share of correct predictions over all examples.
func (r *EvaluationReport) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}
