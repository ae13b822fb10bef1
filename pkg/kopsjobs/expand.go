package kopsjobs

import (
	"fmt"
	"strings"
)

const (
	branchKey            = "branch"
	kubernetesVersionKey = "k8s_version"
)

// MissingKeyError is returned by Expand when a format string references a
// placeholder that was not supplied.
type MissingKeyError struct {
	Key    string
	Format string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("placeholder {%s} in %q has no value", e.Key, e.Format)
}

// Is allows errors.Is(err, &MissingKeyError{}) to match any missing key.
func (e *MissingKeyError) Is(target error) bool {
	_, is := target.(*MissingKeyError)
	return is
}

// Expand replaces every {key} placeholder in format with substitutions[key].
// "{{" and "}}" produce literal braces. Every placeholder must be present in
// substitutions, otherwise nothing is substituted and a *MissingKeyError is
// returned.
func Expand(format string, substitutions map[string]string) (string, error) {
	var out strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch c {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				out.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(format[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder at offset %d in %q", i, format)
			}
			key := format[i+1 : i+1+end]
			if key == "" {
				return "", fmt.Errorf("empty placeholder at offset %d in %q", i, format)
			}
			value, ok := substitutions[key]
			if !ok {
				return "", &MissingKeyError{Key: key, Format: format}
			}
			out.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				out.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("single '}' at offset %d in %q", i, format)
		default:
			out.WriteByte(c)
		}
	}
	return out.String(), nil
}

// substitutionsFor only carries the keys that have a value for the branch.
func substitutionsFor(branch, kubernetesVersion string) map[string]string {
	subs := map[string]string{}
	if kubernetesVersion != "" {
		subs[kubernetesVersionKey] = kubernetesVersion
	}
	if branch != "" {
		subs[branchKey] = branch
	}
	return subs
}
