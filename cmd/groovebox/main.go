package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/avolyn/groovebox/internal/app"
	"github.com/avolyn/groovebox/internal/player/application/ports"
	"github.com/avolyn/groovebox/internal/player/catalog"
	"github.com/avolyn/groovebox/internal/player/domain"
	"github.com/avolyn/groovebox/internal/player/infrastructure"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/groovebox
var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "groovebox",
	Short:        "Queue-based music player",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

var playCmd = &cobra.Command{
	Use:   "play <catalog.json>",
	Short: "Load a track catalog and start playback",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd, versionCmd)
}

func main() {
	// Configure JSON logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	slog.Info("starting groovebox", "version", version)

	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	tracks, err := catalog.ParseTracks(file)
	file.Close()
	if err != nil {
		return err
	}

	engine, err := app.NewEngine(cfg, func(listener ports.OutputListener) (ports.AudioOutput, error) {
		return infrastructure.NewBeepOutput(listener), nil
	})
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer engine.Close()

	engine.Events().OnTrackStarted(func(_ context.Context, event domain.TrackStartedEvent) {
		fmt.Printf("now playing: %s - %s\n", event.Track.Artist, event.Track.Title)
	})
	engine.Events().OnPlaybackFailed(func(_ context.Context, event domain.PlaybackFailedEvent) {
		fmt.Fprintf(os.Stderr, "playback failed: %s (%s)\n", event.Track.Title, event.Message)
	})

	ctx := cmd.Context()
	if err := engine.Queue().PlayNow(ctx, tracks, ""); err != nil {
		return err
	}

	// Read commands from stdin until EOF or a termination signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-stop:
			slog.Info("received termination signal, shutting down")
			return nil
		case line, ok := <-lines:
			if !ok {
				<-stop
				return nil
			}
			if err := dispatch(ctx, engine, line); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
}

// dispatch executes a single console command against the engine.
func dispatch(ctx context.Context, engine *app.Engine, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	transport := engine.Transport()

	switch fields[0] {
	case "p", "toggle":
		return transport.TogglePlay(ctx)
	case "n", "next":
		return transport.Next(ctx)
	case "b", "prev":
		return transport.Previous(ctx)
	case "s", "shuffle":
		fmt.Println("shuffle:", transport.ToggleShuffle())
	case "r", "repeat":
		fmt.Println("repeat:", transport.CycleRepeat())
	case "m", "mute":
		muted, err := transport.ToggleMute(ctx)
		if err != nil {
			return err
		}
		fmt.Println("muted:", muted)
	case "seek":
		if len(fields) < 2 {
			return fmt.Errorf("usage: seek <0..1>")
		}
		frac, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("invalid seek fraction: %w", err)
		}
		return transport.SeekToFraction(ctx, frac)
	case "vol":
		if len(fields) < 2 {
			return fmt.Errorf("usage: vol <0..1>")
		}
		level, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("invalid volume: %w", err)
		}
		return transport.SetVolume(ctx, level)
	case "jump":
		if len(fields) < 2 {
			return fmt.Errorf("usage: jump <position>")
		}
		// Positions are 1-based on screen.
		position, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid position: %w", err)
		}
		return engine.Queue().JumpTo(ctx, position-1)
	case "q", "queue":
		printQueue(engine)
	case "h", "history":
		for _, entry := range engine.History().Recent(10) {
			fmt.Printf("%s  %s - %s\n",
				entry.PlayedAt.Local().Format("15:04:05"), entry.Track.Artist, entry.Track.Title)
		}
	case "now":
		printNowPlaying(engine)
	default:
		fmt.Println("commands: p n b s r m seek vol jump q h now")
	}
	return nil
}

func printQueue(engine *app.Engine) {
	current := engine.State().CurrentIndex()
	for i, track := range engine.Queue().Tracks() {
		marker := "  "
		if i == current {
			marker = "> "
		}
		fmt.Printf("%s%d. %s - %s (%s)\n", marker, i+1, track.Artist, track.Title, track.FormattedDuration())
	}
}

func printNowPlaying(engine *app.Engine) {
	state := engine.State()
	track := state.CurrentTrack()
	if track == nil {
		fmt.Println("nothing playing")
		return
	}
	status := "paused"
	if state.IsPlaying() {
		status = "playing"
	}
	fmt.Printf("%s: %s - %s [%s / %s]\n", status, track.Artist, track.Title,
		formatPosition(state.Position()), track.FormattedDuration())
}

func formatPosition(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
