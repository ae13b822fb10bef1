package kopsjobs

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"
	"github.com/spf13/afero"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"sigs.k8s.io/yaml"
)

// MasterBranch is the branch identifier that is tested against the
// in-development Kubernetes version instead of its own.
const MasterBranch = "master"

// Config lists the kops branches to generate jobs for and the Kubernetes
// version the master branch is tested against.
type Config struct {
	Branches                []string `json:"branches"`
	MasterKubernetesVersion string   `json:"masterKubernetesVersion"`
}

// DefaultConfig is the set of branches the checked-in job file is generated for.
func DefaultConfig() Config {
	return Config{
		Branches: []string{
			MasterBranch,
			"1.19",
			"1.18",
		},
		MasterKubernetesVersion: "1.20",
	}
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(fs afero.Fs, path string) (Config, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config from %s: %w", path, err)
	}
	var config Config
	if err := yaml.UnmarshalStrict(raw, &config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config from %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return config, nil
}

func (c Config) Validate() error {
	var errs []error
	if len(c.Branches) == 0 {
		errs = append(errs, errors.New("at least one branch is required"))
	}
	seen := sets.New[string]()
	for _, branch := range c.Branches {
		if seen.Has(branch) {
			errs = append(errs, fmt.Errorf("branch %q is listed more than once", branch))
			continue
		}
		seen.Insert(branch)
		if branch == MasterBranch {
			continue
		}
		if err := validateMajorMinor(branch); err != nil {
			errs = append(errs, fmt.Errorf("branch %q: %w", branch, err))
		}
	}
	if c.MasterKubernetesVersion == "" {
		errs = append(errs, errors.New("masterKubernetesVersion is required"))
	} else if err := validateMajorMinor(c.MasterKubernetesVersion); err != nil {
		errs = append(errs, fmt.Errorf("masterKubernetesVersion: %w", err))
	}
	return utilerrors.NewAggregate(errs)
}

// KubernetesVersionFor resolves the version a branch is tested against.
func (c Config) KubernetesVersionFor(branch string) string {
	if branch == MasterBranch {
		return c.MasterKubernetesVersion
	}
	return branch
}

// validateMajorMinor accepts canonical two-part versions such as 1.19.
func validateMajorMinor(raw string) error {
	v, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("failed to parse %s as a version: %w", raw, err)
	}
	segments := v.Segments()
	if v.Prerelease() != "" || v.Metadata() != "" || raw != fmt.Sprintf("%d.%d", segments[0], segments[1]) {
		return fmt.Errorf("version %s is not in major.minor format", raw)
	}
	return nil
}
