package main

import (
	"context"
	"fmt"
	stdio "io"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/flipascii/flip"
	"github.com/phil-mansfield/flipascii/io"
	"github.com/phil-mansfield/flipascii/loop"
	"github.com/phil-mansfield/flipascii/scene"
)

var (
	frames        int
	width, height float64
	replayFile    string
	dumpFile      string
)

var headlessCmd = &cobra.Command{
	Use:   "headless",
	Short: "Run the simulation without a terminal and report on it",
	Long: `Runs a fixed number of frames without drawing them, optionally
replaying recorded pointer events, then prints the last frame, a chart of the
divergence left after each pressure solve and a summary of the final state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(false)
		if err != nil {
			return err
		}
		defer s.Close()

		if replayFile != "" {
			s.con.Replay = replayFile
		}
		res, err := runHeadless(cmd.Context(), s.con, s.log, frames)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, res.Frame)
		if len(res.Samples) > 1 {
			fmt.Fprintln(out, asciigraph.Plot(
				res.after(), asciigraph.Height(10), asciigraph.Width(60),
				asciigraph.Caption("mean |divergence| after projection"),
			))
		}
		d := res.Diagnostics
		fmt.Fprintf(out,
			"particles %d  fluid cells %d  mean |div| %.4g  max |div| %.4g  "+
				"close pairs %.3g  max speed %.3g  rest density %.3g  "+
				"density at particles %.3g\n",
			d.Particles, d.FluidCells, d.MeanDivergence, d.MaxDivergence,
			d.CloseFraction, d.MaxSpeed, d.RestDensity, d.ParticleDensity,
		)
		printHist(out, res.Hist)

		if dumpFile != "" {
			if err := io.WriteGridFile(dumpFile, res.Tank, frames); err != nil {
				return err
			}
			s.log.Info("Wrote density grid.", zap.String("file", dumpFile))
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{headlessCmd, plotCmd} {
		flags := cmd.Flags()
		flags.IntVarP(&frames, "frames", "n", 600, "Number of frames to run.")
		flags.Float64Var(&width, "width", 640, "View width in pixels.")
		flags.Float64Var(&height, "height", 360, "View height in pixels.")
		flags.StringVar(&replayFile, "replay", "",
			"Pointer events to replay. Overrides Replay.")
	}
	headlessCmd.Flags().StringVar(&dumpFile, "dump", "",
		"Write the final particle density grid to this file.")
}

// sample is the state of the tank after a single frame.
type sample struct {
	Frame                             int
	DivergenceBefore, DivergenceAfter float64
	CloseFraction                     float64
}

type headlessResult struct {
	Tank        *flip.Tank
	Frame       string
	Samples     []sample
	Diagnostics flip.Diagnostics
	Hist        *flip.Hist
}

func (res *headlessResult) after() []float64 {
	xs := make([]float64, len(res.Samples))
	for i := range res.Samples {
		xs[i] = res.Samples[i].DivergenceAfter
	}
	return xs
}

// runHeadless steps a scene for n frames on a fake clock. Frames are
// simulated on one goroutine and collected on another, so a slow consumer
// never holds up the solver for long.
func runHeadless(
	ctx context.Context, con *io.FluidConfig, log *zap.Logger, n int,
) (*headlessResult, error) {
	if n < 0 {
		return nil, fmt.Errorf("Frame count must be non-negative, but is %d.", n)
	}

	var replay *io.Replay
	if con.ValidReplay() {
		events, err := io.ReadReplay(con.Replay)
		if err != nil {
			return nil, err
		}
		replay = io.NewReplay(events)
		log.Info("Loaded replay.", zap.Int("events", len(events)))
	}

	sched := loop.NewScheduler(log)
	defer sched.Dispose()
	s := scene.New(width, height, con, sched)
	s.Tank.Record = true
	s.Attach(sched)
	log.Info("Built tank.",
		zap.Int("nx", s.Tank.NX), zap.Int("ny", s.Tank.NY),
		zap.Int("particles", s.Tank.NumParticles))

	samples := make(chan sample, 64)
	res := &headlessResult{Tank: s.Tank}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(samples)

		clock := time.Unix(0, 0)
		interval := time.Second / time.Duration(con.FPS)
		for frame := 0; frame < n; frame++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if replay != nil {
				s.Play(replay.Until(frame))
				if replay.Done() {
					log.Info("Replay finished.", zap.Int("frame", frame))
					replay = nil
				}
			}
			sched.Tick(clock)
			clock = clock.Add(interval)

			smp := sample{
				Frame:            frame,
				DivergenceBefore: s.Tank.Stats.DivergenceBefore,
				DivergenceAfter:  s.Tank.Stats.DivergenceAfter,
				CloseFraction:    s.Tank.CloseFraction(),
			}
			select {
			case samples <- smp:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		for smp := range samples {
			res.Samples = append(res.Samples, smp)
			if (smp.Frame+1)%100 == 0 {
				log.Debug("Simulated frames.", zap.Int("frames", smp.Frame+1),
					zap.Float64("divergence", smp.DivergenceAfter))
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Frame = s.Frame()
	res.Diagnostics = s.Tank.Diagnose()
	res.Hist = flip.NewHist(0, 2, 8)
	s.Tank.DensityHist(res.Hist)
	return res, nil
}

// printHist draws a sideways bar chart of a density histogram.
func printHist(out stdio.Writer, h *flip.Hist) {
	const barWidth = 50
	max := 0.0
	for _, n := range h.Counts {
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return
	}

	fmt.Fprintln(out, "fluid cells by density / rest density:")
	for i, n := range h.Counts {
		bar := strings.Repeat("#", int(n/max*barWidth))
		fmt.Fprintf(out, "  [%4.2f, %4.2f) %6d %s\n",
			h.Edges[i], h.Edges[i+1], int(n), bar)
	}
}
