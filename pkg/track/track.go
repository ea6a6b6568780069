// 18 Oct 2026

// Package track turns a configuration into finished smears and writes
// them out. One alignment file gives one smear, or a plus and a minus
// strand smear if its name matches a separate-strands pattern. Those two
// are built at the same time, each by its own goroutine.
package track

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/smear/pkg/config"
	"github.com/andrew-torda/smear/pkg/progress"
	"github.com/andrew-torda/smear/pkg/render"
	"github.com/andrew-torda/smear/pkg/seq/common"
	"github.com/andrew-torda/smear/pkg/smear"
)

// strandsFor decides which smears to build.
func strandsFor(cfg *config.Config, in *input) ([]smear.Strand, error) {
	st, err := smear.ParseStrand(cfg.Strand)
	if err != nil {
		return nil, err
	}
	if st != smear.Both {
		return []smear.Strand{st}, nil
	}
	if smear.SeparateStrands(smear.GlobGrouper(cfg.SeparateStrands), in.annotation()) {
		return []smear.Strand{smear.Plus, smear.Minus}, nil
	}
	return []smear.Strand{smear.Both}, nil
}

// label for a smear. A strand gets a suffix if there is more than one.
func label(cfg *config.Config, in *input, st smear.Strand, split bool) string {
	l := cfg.Label
	if l == "" {
		l = in.name()
	}
	if split {
		l = fmt.Sprintf("%s (%s)", l, st)
	}
	return l
}

// fill runs one smear over the input.
func fill(s *smear.Smear, in *input, p smear.Progress) error {
	var err error
	if in.ann != nil {
		_, err = s.AddAnnotation(in.ann, p)
	} else {
		_, err = s.AddMix(in.mix, p)
	}
	return err
}

// Build makes the smears cfg asks for. They come back finalized, masked
// if cfg says so. If ctx is canceled, what was read so far is kept.
func Build(ctx context.Context, cfg *config.Config) ([]*smear.Smear, error) {
	in, err := open(cfg)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	strands, err := strandsFor(cfg, in)
	if err != nil {
		return nil, err
	}
	stop := cfg.Stop
	if stop == 0 {
		stop = in.anchor.Len()
	}
	if stop > in.anchor.Len() {
		return nil, fmt.Errorf("stop %d is past the end of %s, length %d", stop, in.anchor.Name(), in.anchor.Len())
	}
	smears := make([]*smear.Smear, len(strands))
	for i, st := range strands {
		if smears[i], err = smear.New(in.anchor, cfg.Start, stop, cfg.Window, st); err != nil {
			return nil, fmt.Errorf("anchor %s: %w", in.anchor.Name(), err)
		}
		smears[i].SetLabel(label(cfg, in, st, len(strands) > 1))
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range smears {
		s := s
		var report func(float64)
		if cfg.Progress {
			bar := progress.NewBar(os.Stderr, s.Label())
			defer bar.Done()
			report = bar.Set
		}
		p := progress.New(gctx, report)
		g.Go(func() error { return fill(s, in, p) })
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", cfg.Input, err)
	}
	for _, s := range smears {
		if cfg.MaskGaps {
			s.MaskGaps()
		} else {
			s.Finalize()
		}
		log.WithFields(log.Fields{"label": s.Label(), "alignments": s.AlignmentCount(),
			"skipped": s.Skipped(), "cells": s.Len()}).Info("smear built")
	}
	return smears, nil
}

// create opens fname for writing, or gives stdout for "" and "-".
func create(fname string) (io.WriteCloser, error) {
	if fname == "" || fname == "-" {
		return nopCloser{os.Stdout}, nil
	}
	common.WarnExists(fname)
	fp, err := os.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("output file %v: %w", fname, err)
	}
	return fp, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Mymain builds the smears and writes the run-length csv and, if asked
// for, the picture.
func Mymain(ctx context.Context, cfg *config.Config) error {
	startTime := time.Now()
	defer func() { log.WithField("ms", time.Since(startTime).Milliseconds()).Info("finished") }()

	smears, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	fp, err := create(cfg.Out)
	if err != nil {
		return err
	}
	if err := WriteRuns(fp, smears, cfg.Offset); err != nil {
		fp.Close()
		return err
	}
	if err := fp.Close(); err != nil {
		return err
	}
	if cfg.PNG == "" {
		return nil
	}
	return writePNG(cfg, smears)
}

func writePNG(cfg *config.Config, smears []*smear.Smear) error {
	tracks := make([]render.Track, len(smears))
	for i, s := range smears {
		tracks[i] = s
	}
	fp, err := create(cfg.PNG)
	if err != nil {
		return err
	}
	if err := render.WritePNG(fp, tracks, render.Options{StripHeight: cfg.StripHeight}); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
