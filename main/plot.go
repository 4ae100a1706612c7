package main

import (
	"fmt"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var plotFile string

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot how well the pressure solve and particle separation hold up",
	Long: `Runs the simulation headlessly and plots, against frame number, the
mean divergence before and after each pressure solve and the fraction of
particles overlapping a neighbor. Plotting needs python with matplotlib.`,
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
		if len(res.Samples) == 0 {
			return fmt.Errorf("Nothing to plot with %d frames.", frames)
		}

		plotSamples(res.Samples, plotFile)
		s.log.Info("Wrote plot.", zap.String("file", plotFile))
		return nil
	},
}

func init() {
	plotCmd.Flags().StringVarP(&plotFile, "out", "o", "fluid.png",
		"Image file to write.")
}

func plotSamples(samples []sample, fname string) {
	n := len(samples)
	fs := make([]float64, n)
	before, after := make([]float64, n), make([]float64, n)
	overlap := make([]float64, n)
	for i, smp := range samples {
		fs[i] = float64(smp.Frame)
		before[i] = smp.DivergenceBefore
		after[i] = smp.DivergenceAfter
		overlap[i] = smp.CloseFraction
	}

	plt.Reset()
	plt.Figure(plt.FigSize(8, 8))

	plt.Plot(fs, before, plt.LW(2), plt.C("r"))
	plt.Plot(fs, after, plt.LW(2), plt.C("b"))
	plt.Plot(fs, overlap, "k", plt.LW(1))

	plt.Title("red: divergence before solve, blue: after, black: overlap")
	plt.XLabel("frame", plt.FontSize(16))
	plt.YLabel(`mean $|\nabla \cdot u|$, overlap fraction`, plt.FontSize(16))
	plt.YScale("log")
	plt.XLim(0, fs[n-1]+1)
	plt.Grid(plt.Axis("y"))

	plt.SaveFig(fname)
	plt.Execute()
}
