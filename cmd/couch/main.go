// ABOUTME: Entry point for the Sigmund's Couch terminal client
// ABOUTME: Parses CLI flags and starts the chat TUI or a headless playback
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Resonate-Protocol/couch-go/internal/attach"
	"github.com/Resonate-Protocol/couch-go/internal/chat"
	"github.com/Resonate-Protocol/couch-go/internal/config"
	"github.com/Resonate-Protocol/couch-go/internal/gemini"
	"github.com/Resonate-Protocol/couch-go/internal/prompt"
	"github.com/Resonate-Protocol/couch-go/internal/ui"
	"github.com/Resonate-Protocol/couch-go/internal/version"
	"github.com/Resonate-Protocol/couch-go/pkg/audio"
	"github.com/Resonate-Protocol/couch-go/pkg/audio/output"
	"github.com/Resonate-Protocol/couch-go/pkg/playback"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(args []string) error {
	cfg := config.Load()
	fs := flag.NewFlagSet("couch", flag.ContinueOnError)

	var (
		lang        = fs.String("lang", cfg.Language, "Conversation language (zh, en)")
		voice       = fs.String("voice", cfg.Voice, "Analyst voice (Charon, Fenrir, Kore, Zephyr, Puck)")
		backend     = fs.String("audio-backend", cfg.Backend, "Audio output ("+strings.Join(output.Backends, ", ")+")")
		volume      = fs.Int("volume", cfg.Volume, "Playback volume (0-100)")
		speech      = fs.String("speech", cfg.SpeechTransport, "Speech transport (rest, live, off)")
		exclusive   = fs.Bool("exclusive", cfg.Exclusive, "Stop other replies when one starts playing")
		saveAudio   = fs.String("save-audio", cfg.SaveAudioDir, "Directory to save spoken replies as WAV")
		logFile     = fs.String("log-file", cfg.LogFile, "Log file path")
		playFile    = fs.String("play", "", "Play a base64 speech file (- for stdin), or a .mp3/.flac file, and exit")
		codec       = fs.String("codec", "pcm", "Codec of the -play blob (pcm, mp3, flac, opus)")
		ask         = fs.String("ask", "", "Ask one question without the TUI, print and speak the reply")
		image       = fs.String("image", "", "Image path or URL to attach to -ask")
		showVersion = fs.Bool("version", false, "Print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Println(version.String())
		return nil
	}

	useTUI := *playFile == "" && *ask == ""

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	defer func() { _ = f.Close() }()
	defer log.SetOutput(os.Stderr)

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Headless mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}
	log.Printf("Starting %s", version.String())

	language, err := prompt.ParseLanguage(*lang)
	if err != nil {
		return fmt.Errorf("invalid -lang: %w", err)
	}
	if _, err := prompt.LookupVoice(*voice); err != nil {
		return fmt.Errorf("invalid -voice: %w", err)
	}

	out, err := output.New(*backend)
	if err != nil {
		return fmt.Errorf("invalid -audio-backend: %w", err)
	}
	defer out.Close()
	if vc, ok := out.(output.VolumeControl); ok {
		vc.SetVolume(*volume)
	}
	log.Printf("Audio output: %s", out.Name())

	var arbiter *playback.Arbiter
	if *exclusive {
		arbiter = playback.NewArbiter()
	}

	if *playFile != "" {
		if err := playBlobFile(out, *playFile, *codec); err != nil {
			return fmt.Errorf("playback failed: %w", err)
		}
		return nil
	}

	client, err := gemini.NewClient(gemini.Config{
		APIKey:        cfg.APIKey,
		AnalysisModel: cfg.AnalysisModel,
		SpeechModel:   cfg.SpeechModel,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	speaker, err := newSpeaker(*speech, client, cfg)
	if err != nil {
		return fmt.Errorf("invalid -speech: %w", err)
	}

	loader, err := attach.NewLoader()
	if err != nil {
		return fmt.Errorf("failed to create attachment loader: %w", err)
	}
	defer func() {
		if err := loader.Cleanup(); err != nil {
			log.Printf("Failed to clean attachment cache: %v", err)
		}
	}()

	analyst := chat.NewAnalyst(client, speaker, chat.NewHistory())

	if *ask != "" {
		turn := chat.Turn{Text: *ask, Language: language, Voice: *voice}
		return askOnce(analyst, loader, out, turn, *image, *saveAudio)
	}

	err = ui.Run(ui.Config{
		Analyst:      analyst,
		Loader:       loader,
		Players:      ui.NewPlayers(out, arbiter),
		Language:     language,
		Voice:        *voice,
		SaveAudioDir: *saveAudio,
	})
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	log.Printf("Shutdown complete")
	return nil
}

func newSpeaker(transport string, client *gemini.Client, cfg config.Config) (gemini.Speaker, error) {
	switch strings.ToLower(transport) {
	case "", "rest":
		return client, nil
	case "live":
		live, err := gemini.NewLiveSpeaker(cfg.APIKey, "", cfg.LiveModel)
		if err != nil {
			return nil, err
		}
		return live, nil
	case "off", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown speech transport %q", transport)
	}
}

// askOnce answers a single turn on stdout and plays its audio
func askOnce(analyst *chat.Analyst, loader *attach.Loader, out output.Output, turn chat.Turn, image, saveDir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if image != "" {
		img, err := loader.Load(ctx, image)
		if err != nil {
			return err
		}
		turn.Image = img.DataURL()
	}

	if _, err := analyst.Submit(turn); err != nil {
		return err
	}

	log.Printf("%s", turn.Language.UI().Analyzing)
	reply, err := analyst.Respond(ctx, turn)
	if err != nil {
		return err
	}
	fmt.Println(reply.Content)

	if !reply.HasAudio() {
		return nil
	}
	if saveDir != "" {
		if _, err := chat.ExportAudio(saveDir, reply); err != nil {
			log.Printf("Failed to save reply audio: %v", err)
		}
	}
	return play(ctx, out, reply.Audio, audio.SpeechFormat)
}

// playBlobFile plays a stored blob until it finishes or is interrupted
func playBlobFile(out output.Output, path, codec string) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	blob, format := playbackSource(path, data, codec)
	log.Printf("Playing %s as %s", path, format.Codec)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return play(ctx, out, blob, format)
}

// playbackSource turns a -play file into a blob and its format. Files
// named .mp3 or .flac hold the raw stream; anything else holds a base64
// blob encoded with codec.
func playbackSource(path string, data []byte, codec string) (string, audio.Format) {
	format := audio.SpeechFormat

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3", ".flac":
		format.Codec = strings.TrimPrefix(ext, ".")
		return base64.StdEncoding.EncodeToString(data), format
	}

	if codec != "" {
		format.Codec = strings.ToLower(codec)
	}
	return strings.TrimSpace(string(data)), format
}

func play(ctx context.Context, out output.Output, blob string, format audio.Format) error {
	finished := make(chan struct{})
	ctrl, err := playback.NewController(playback.Config{
		Output:     out,
		Format:     format,
		OnFinished: func() { close(finished) },
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := ctrl.Start(blob); err != nil {
		return err
	}
	if ctrl.State() == playback.Idle {
		return nil
	}

	select {
	case <-finished:
	case <-ctx.Done():
		log.Printf("Interrupted, stopping playback")
	}
	return nil
}
