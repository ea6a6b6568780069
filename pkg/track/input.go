// 18 Oct 2026

package track

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/andrew-torda/smear/pkg/alnio"
	"github.com/andrew-torda/smear/pkg/config"
	"github.com/andrew-torda/smear/pkg/numrec"
	"github.com/andrew-torda/smear/pkg/smear"
)

// input is an opened alignment file. Exactly one of ann and mix is set.
type input struct {
	ann    smear.Annotation
	mix    *smear.Mix
	anchor smear.SequenceHandle
	closer io.Closer
}

// name is what the strand grouper is asked about.
func (in *input) name() string {
	if in.ann != nil {
		return in.ann.Name()
	}
	return in.mix.Name
}

// annotation gives the grouper something to look at, even for a mix.
func (in *input) annotation() smear.Annotation {
	if in.ann != nil {
		return in.ann
	}
	return &smear.SliceSource{Label: in.mix.Name, Rows: in.mix.Rows}
}

func (in *input) Close() error {
	if in.closer == nil {
		return nil
	}
	return in.closer.Close()
}

// parseFormat reads the format setting, falling back on the file name.
func parseFormat(cfg *config.Config) (numrec.Format, error) {
	switch cfg.Format {
	case "":
		if f := alnio.Detect(cfg.Input); f != numrec.Unknown {
			return f, nil
		}
		return numrec.Unknown, fmt.Errorf("cannot tell the format of %s, set it", cfg.Input)
	case "fasta", "fa":
		return numrec.FASTA, nil
	case "sam":
		return numrec.SAM, nil
	case "gff", "gff3", "gtf":
		return numrec.GFF, nil
	}
	return numrec.Unknown, fmt.Errorf("unknown format %q, want sam, gff or fasta", cfg.Format)
}

// open reads or maps the input named in cfg.
func open(cfg *config.Config) (*input, error) {
	f, err := parseFormat(cfg)
	if err != nil {
		return nil, err
	}
	var in input
	switch f {
	case numrec.SAM:
		src, err := alnio.OpenSAM(cfg.Input, cfg.Anchor, alnio.SAMOptions{
			MinMapQ: byte(cfg.MinMapQ), Secondary: cfg.Secondary})
		if err != nil {
			return nil, err
		}
		in = input{ann: src, anchor: src.Anchor(), closer: src}
	case numrec.GFF:
		src, err := alnio.OpenGFF(cfg.Input, cfg.Anchor, alnio.GFFOptions{
			Feature: cfg.Feature, Source: cfg.Source})
		if err != nil {
			return nil, err
		}
		in = input{ann: src, anchor: src.Anchor(), closer: src}
	case numrec.FASTA:
		msa, err := alnio.ReadMSA(cfg.Input, cfg.Anchor)
		if err != nil {
			return nil, err
		}
		in = input{mix: msa.Mix, anchor: msa.Anchor}
	}
	log.WithFields(log.Fields{"input": cfg.Input, "format": f, "anchor": in.anchor.Name(),
		"length": in.anchor.Len()}).Info("opened alignments")
	return &in, nil
}
