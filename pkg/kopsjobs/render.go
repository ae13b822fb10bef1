package kopsjobs

import (
	_ "embed"
	"strings"
)

// periodicTemplate is the kops pipeline periodic. Placeholders are replaced
// literally, values are not escaped.
//
//go:embed periodic.yaml.tmpl
var periodicTemplate string

type replacement struct {
	token string
	value string
}

// replacementsFor returns the substitutions in the order they are applied.
func replacementsFor(params *JobParameters) []replacement {
	return []replacement{
		{token: "{{extract}}", value: params.Extract},
		{token: "{{e2e_image}}", value: params.E2EImage},
		{token: "{{k8s_version}}", value: params.KubernetesVersion},
		{token: "{{name}}", value: params.Name},
		{token: "{{tab}}", value: params.Tab},
		{token: "{{branch}}", value: params.BranchLabel},
	}
}

// Render fills the periodic template with params.
func Render(params *JobParameters) string {
	return renderTemplate(periodicTemplate, params)
}

func renderTemplate(template string, params *JobParameters) string {
	rendered := template
	for _, r := range replacementsFor(params) {
		rendered = strings.ReplaceAll(rendered, r.token, r.value)
	}
	return strings.TrimSpace(rendered)
}
