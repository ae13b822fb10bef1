// kops-pipeline-jobgen writes the Prow periodics that verify the latest-ci
// builds of every supported kops branch against their Kubernetes version.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"sigs.k8s.io/prow/pkg/logrusutil"

	"sigs.k8s.io/kops-jobs/pkg/kopsjobs"
)

type options struct {
	configPath string
	outputPath string
	logLevel   string
}

func (o *options) Validate() error {
	if _, err := logrus.ParseLevel(o.logLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if o.outputPath != "" && o.outputPath == o.configPath {
		return errors.New("--output must not overwrite --config")
	}
	return nil
}

func gatherOptions(args []string) (options, error) {
	o := options{}
	fs := flag.NewFlagSet("kops-pipeline-jobgen", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "Path to a YAML file listing the branches and the master Kubernetes version. Defaults to the built-in branch list.")
	fs.StringVar(&o.outputPath, "output", "", "File to write the periodics to. Defaults to stdout.")
	fs.StringVar(&o.logLevel, "log-level", logrus.InfoLevel.String(), "Level for diagnostics written to stderr.")
	if err := fs.Parse(args); err != nil {
		return o, fmt.Errorf("could not parse input: %w", err)
	}
	return o, nil
}

func main() {
	logrusutil.ComponentInit()

	o, err := gatherOptions(os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("failed to gather options")
	}
	if err := o.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid options")
	}
	level, _ := logrus.ParseLevel(o.logLevel)
	logrus.SetLevel(level)

	if err := run(o, afero.NewOsFs(), os.Stdout); err != nil {
		logrus.WithError(err).Fatal("failed to generate kops pipeline periodics")
	}
}

func run(o options, fs afero.Fs, stdout io.Writer) error {
	config := kopsjobs.DefaultConfig()
	if o.configPath != "" {
		var err error
		if config, err = kopsjobs.LoadConfig(fs, o.configPath); err != nil {
			return err
		}
	}
	logrus.WithField("branches", config.Branches).Debug("Generating periodics.")

	if o.outputPath == "" {
		return kopsjobs.Generate(stdout, config)
	}

	// Only replace the file once every branch rendered.
	var buf bytes.Buffer
	if err := kopsjobs.Generate(&buf, config); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, o.outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", o.outputPath, err)
	}
	logrus.WithField("path", o.outputPath).Info("Wrote kops pipeline periodics.")
	return nil
}
