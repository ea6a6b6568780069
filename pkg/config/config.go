// 18 Oct 2026

// Package config is for settings that are unmarshalled from viper. They
// come from flags, SMEAR_ environment variables, a config file and the
// defaults here, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/andrew-torda/smear/pkg/smear"
)

// Config is everything a smear build needs.
type Config struct {
	// alignment file, format guessed from the extension unless Format is set
	Input  string `mapstructure:"input"`
	Format string `mapstructure:"format"`

	// reference name (SAM), sequence id (GFF) or comment substring (fasta)
	Anchor string `mapstructure:"anchor"`

	// half-open range on the anchor. Stop 0 means the anchor's length.
	Start  int     `mapstructure:"start"`
	Stop   int     `mapstructure:"stop"`
	Window float64 `mapstructure:"window"`

	// both, plus or minus
	Strand string `mapstructure:"strand"`

	// glob patterns on annotation names that get a smear per strand
	SeparateStrands []string `mapstructure:"separate-strands"`

	MaskGaps bool   `mapstructure:"mask-gaps"`
	Label    string `mapstructure:"label"`

	// run-length csv, "-" for stdout. Offset is added to coordinates.
	Out    string `mapstructure:"out"`
	Offset int    `mapstructure:"offset"`

	PNG         string `mapstructure:"png"`
	StripHeight int    `mapstructure:"strip-height"`

	// SAM filters
	MinMapQ   int  `mapstructure:"min-mapq"`
	Secondary bool `mapstructure:"secondary"`

	// GFF filters
	Feature string `mapstructure:"feature"`
	Source  string `mapstructure:"source"`

	Verbosity int    `mapstructure:"verbosity"`
	Progress  bool   `mapstructure:"progress"`
	Profile   string `mapstructure:"profile"`
}

// SetDefaults puts the defaults into v and turns on SMEAR_ environment
// variables, with "-" in a key written as "_".
func SetDefaults(v *viper.Viper) {
	v.SetDefault("window", 1.0)
	v.SetDefault("strand", "both")
	v.SetDefault("mask-gaps", true)
	v.SetDefault("out", "-")
	v.SetDefault("strip-height", 12)
	v.SetDefault("feature", "match")
	v.SetEnvPrefix("SMEAR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// ReadFile adds a config file, yaml, toml or json by its extension.
func ReadFile(v *viper.Viper, fname string) error {
	if fname == "" {
		return nil
	}
	v.SetConfigFile(fname)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config file %s: %w", fname, err)
	}
	return nil
}

// New unmarshals v and checks the result.
func New(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate catches settings that can be refused before any file is read.
func (c *Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("no input file"))
	}
	if c.Window < 1 {
		errs = append(errs, fmt.Errorf("window %g is less than 1", c.Window))
	}
	if c.Stop != 0 && c.Stop <= c.Start {
		errs = append(errs, fmt.Errorf("stop %d is not after start %d", c.Stop, c.Start))
	}
	if _, err := smear.ParseStrand(c.Strand); err != nil {
		errs = append(errs, err)
	}
	if c.MinMapQ < 0 || c.MinMapQ > 255 {
		errs = append(errs, fmt.Errorf("min-mapq %d not in 0..255", c.MinMapQ))
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		errs = append(errs, fmt.Errorf("profile %q, want cpu or mem", c.Profile))
	}
	return errors.Join(errs...)
}
