package workspace

import (
	"strings"

	"github.com/jonathan/talentalign/internal/types"
)

// JDTemplate is a sample job description offered on the dashboard.
type JDTemplate struct {
	Name  string
	Label string
	Text  string
}

var jdTemplates = []JDTemplate{
	{
		Name:  "full-stack",
		Label: "Full-Stack Engineer",
		Text:  "We are hiring a Full-Stack Engineer with React, TypeScript, Node.js, REST APIs, SQL, Docker, and AWS experience. Candidates should deliver scalable features, write tests, and collaborate in Agile teams.",
	},
	{
		Name:  "data-scientist",
		Label: "Data Scientist",
		Text:  "Looking for a Data Scientist skilled in Python, Pandas, NumPy, scikit-learn, NLP, model evaluation, and experiment design. Experience with SQL and cloud platforms is preferred.",
	},
	{
		Name:  "ml-engineer",
		Label: "ML Engineer",
		Text:  "Seeking an ML Engineer with experience in PyTorch/TensorFlow, MLOps, model deployment, CI/CD, containerization, and monitoring model performance in production systems.",
	},
}

// Templates returns the sample job descriptions in display order.
func Templates() []JDTemplate {
	return append([]JDTemplate(nil), jdTemplates...)
}

// Template looks up a template by name or label, ignoring case.
func Template(name string) (JDTemplate, bool) {
	name = strings.TrimSpace(name)
	for _, t := range jdTemplates {
		if strings.EqualFold(t.Name, name) || strings.EqualFold(t.Label, name) {
			return t, true
		}
	}
	return JDTemplate{}, false
}

// ApplyTemplate sets the draft's job description text to the named template.
func ApplyTemplate(name string, draft *Draft) error {
	t, ok := Template(name)
	if !ok {
		names := make([]string, len(jdTemplates))
		for i, t := range jdTemplates {
			names[i] = t.Name
		}
		return types.Invalid("jd_template", "Unknown JD template %q. Choose one of: %s.", name, strings.Join(names, ", "))
	}
	draft.JDText = t.Text
	return nil
}
