package kopsjobs

import (
	"fmt"
	"strings"
)

const (
	masterE2EImage = "gcr.io/k8s-testimages/kubekins-e2e:v20201215-73fe430-master"
	// The release image is derived by swapping the trailing version of this
	// reference for the branch version. Written out in full so the image
	// autobumper still recognises and bumps it.
	releaseE2EImage = "gcr.io/k8s-testimages/kubekins-e2e:v20201215-73fe430-1.19"
	// releaseE2EImageVersionSuffixLength is the length of the "1.19" suffix of
	// releaseE2EImage.
	//
	// WARNING: this is not checked. If the bumper ever writes a suffix of a
	// different length (e.g. "1.9" or "1.100") the derived image tag is
	// silently wrong.
	releaseE2EImageVersionSuffixLength = 4

	masterExtractPrefix  = "release/latest-"
	releaseExtractFormat = "release/stable-{k8s_version}"
	tabFormat            = "kops-pipeline-updown-{branch}"
	nameFormat           = "e2e-kops-pipeline-updown-kops{branch}"
	releaseBranchPrefix  = "release-"
)

type branchKind int

const (
	releaseBranchKind branchKind = iota
	masterBranchKind
)

func kindOf(branch string) branchKind {
	if branch == MasterBranch {
		return masterBranchKind
	}
	return releaseBranchKind
}

// JobParameters holds everything that varies between the generated jobs of
// two branches.
type JobParameters struct {
	Branch            string
	KubernetesVersion string

	// Extract tells kubetest which Kubernetes build to download.
	Extract string
	// E2EImage is the kubekins image the job runs in.
	E2EImage string
	// Name is the job name. It is also used as the cluster name, so it must
	// be a valid pod and DNS name.
	Name string
	// Tab is the TestGrid tab the results are published to.
	Tab string
	// BranchLabel is the kops marker directory, "master" or "release-<branch>".
	BranchLabel string
}

// DeriveParameters computes the job parameters for a branch tested against
// kubernetesVersion.
func (c Config) DeriveParameters(branch, kubernetesVersion string) (*JobParameters, error) {
	subs := substitutionsFor(branch, kubernetesVersion)
	params := &JobParameters{
		Branch:            branch,
		KubernetesVersion: kubernetesVersion,
	}

	var err error
	switch kindOf(branch) {
	case masterBranchKind:
		params.Extract = masterExtractPrefix + c.MasterKubernetesVersion
		params.E2EImage = masterE2EImage
		params.BranchLabel = MasterBranch
	default:
		if params.Extract, err = Expand(releaseExtractFormat, subs); err != nil {
			return nil, fmt.Errorf("failed to expand extract marker: %w", err)
		}
		params.E2EImage = releaseE2EImage[:len(releaseE2EImage)-releaseE2EImageVersionSuffixLength] + kubernetesVersion
		params.BranchLabel = releaseBranchPrefix + branch
	}

	if params.Tab, err = Expand(tabFormat, subs); err != nil {
		return nil, fmt.Errorf("failed to expand tab name: %w", err)
	}
	name, err := Expand(nameFormat, subs)
	if err != nil {
		return nil, fmt.Errorf("failed to expand job name: %w", err)
	}
	params.Name = strings.ReplaceAll(name, ".", "")

	return params, nil
}
