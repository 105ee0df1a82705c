package params

// Presenter is a collection of texts describing an item in a user interface.
// It carries no markup and is never interpreted by the pipeline. Name should
// read as a heading, Summary as one paragraph, and Explanation as several.
type Presenter struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Summary     string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// NewPresenter builds a Presenter from progressively longer texts.
func NewPresenter(name, summary, explanation string) *Presenter {
	return &Presenter{Name: name, Summary: summary, Explanation: explanation}
}

// Label returns Name when set, otherwise fallback.
func (p *Presenter) Label(fallback string) string {
	if p == nil || p.Name == "" {
		return fallback
	}
	return p.Name
}

func (p *Presenter) clone() *Presenter {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}
