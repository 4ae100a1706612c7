package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/flipascii/io"
	"github.com/phil-mansfield/flipascii/tui"
)

var (
	configFile  string
	verbose     bool
	logFile     string
	profileFile string
	watch       bool
)

// session holds everything a command needs once flags and the config file
// have been read.
type session struct {
	con  *io.FluidConfig
	log  *zap.Logger
	prof *os.File
}

func (s *session) Close() {
	if s.prof != nil {
		pprof.StopCPUProfile()
		s.prof.Close()
	}
	if s.log != nil {
		_ = s.log.Sync()
	}
}

// newSession reads the config file and starts logging and profiling. Without
// a log file, interactive sessions don't log at all, since the terminal is
// being drawn over.
func newSession(interactive bool) (*session, error) {
	con, err := io.ReadFluidConfig(configFile)
	if err != nil {
		return nil, err
	}
	if logFile != "" {
		con.LogFile = logFile
	}
	if profileFile != "" {
		con.ProfileFile = profileFile
	}

	s := &session{con: con}
	if s.log, err = newLogger(con, interactive); err != nil {
		return nil, err
	}

	if con.ValidProfileFile() {
		if s.prof, err = os.Create(con.ProfileFile); err != nil {
			return nil, err
		}
		if err = pprof.StartCPUProfile(s.prof); err != nil {
			s.prof.Close()
			return nil, err
		}
	}
	return s, nil
}

func newLogger(con *io.FluidConfig, interactive bool) (*zap.Logger, error) {
	if interactive && !con.ValidLogFile() {
		return zap.NewNop(), nil
	}

	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if con.ValidLogFile() {
		config.OutputPaths = []string{con.LogFile}
	}
	log, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

var rootCmd = &cobra.Command{
	Use:   "flipascii",
	Short: "A PIC/FLIP fluid simulation drawn with text",
	Long: `flipascii simulates a tank of water with a PIC/FLIP solver and draws
it as text. Move the mouse to stir the water, hold a button to grow the
obstacle under the pointer and right click to set off an explosion.

Run without a subcommand to start an interactive session.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive session in the terminal",
	RunE:  runInteractive,
}

var exampleConfigCmd = &cobra.Command{
	Use:   "example-config",
	Short: "Print an example config file",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), io.ExampleFluidFile)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "",
		"Config file, as printed by example-config.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug messages.")
	flags.StringVar(&logFile, "log-file", "",
		"Log to this file. Overrides LogFile.")
	flags.StringVar(&profileFile, "pprof", "",
		"Write a CPU profile to this file. Overrides ProfileFile.")

	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().BoolVarP(&watch, "watch", "w", false,
			"Reload tuning parameters when the config file changes.")
	}

	rootCmd.AddCommand(runCmd, headlessCmd, plotCmd, exampleConfigCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	if watch && configFile == "" {
		return errors.New("--watch needs a config file to watch.")
	}

	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	g, ctx := errgroup.WithContext(cmd.Context())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tui.NewProgram(ctx, tui.New(s.con, s.log))
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	if watch {
		g.Go(func() error {
			return io.WatchFluidConfig(ctx, configFile,
				func(con *io.FluidConfig, err error) {
					p.Send(tui.ReloadMsg{Config: con, Err: err})
				})
		})
	}
	return g.Wait()
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
