package kopsjobs

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"k8s.io/apimachinery/pkg/util/sets"
)

const header = "# Test scenarios generated by kops-pipeline-jobgen (do not manually edit)"

// Generate writes the periodics for every branch in config to w, in the order
// the branches are listed. It stops at the first branch that fails.
func Generate(w io.Writer, config Config) error {
	if _, err := fmt.Fprintf(w, "%s\nperiodics:\n", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, branch := range config.Branches {
		kubernetesVersion := config.KubernetesVersionFor(branch)
		params, err := config.DeriveParameters(branch, kubernetesVersion)
		if err != nil {
			return fmt.Errorf("failed to derive job parameters for branch %s: %w", branch, err)
		}
		record, err := sortedRecord(map[string]string{
			branchKey:            branch,
			kubernetesVersionKey: kubernetesVersion,
		})
		if err != nil {
			return fmt.Errorf("failed to serialize scenario for branch %s: %w", branch, err)
		}
		if _, err := fmt.Fprintf(w, "\n# %s\n%s\n", record, Render(params)); err != nil {
			return fmt.Errorf("failed to write periodic for branch %s: %w", branch, err)
		}
		logrus.WithFields(logrus.Fields{
			"branch":      branch,
			"k8s_version": kubernetesVersion,
			"job":         params.Name,
		}).Debug("Generated periodic.")
	}
	return nil
}

// sortedRecord serializes fields as a JSON object with sorted keys and the
// `{"a": "b", "c": "d"}` spacing the job file has always been written with.
func sortedRecord(fields map[string]string) (string, error) {
	var entries []string
	for _, key := range sets.List(sets.KeySet(fields)) {
		k, err := json.Marshal(key)
		if err != nil {
			return "", err
		}
		v, err := json.Marshal(fields[key])
		if err != nil {
			return "", err
		}
		entries = append(entries, fmt.Sprintf("%s: %s", k, v))
	}
	return "{" + strings.Join(entries, ", ") + "}", nil
}
