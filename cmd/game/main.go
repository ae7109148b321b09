package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/risingtide/internal/audio"
	"github.com/tomz197/risingtide/internal/config"
	"github.com/tomz197/risingtide/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The terminal is the game screen, so logs go to a file when asked for.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("RISINGTIDE_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewWithOptions(logOut, log.Options{
		ReportTimestamp: true,
		Prefix:          "risingtide",
	})

	tuning := config.DefaultTuning()
	if path := config.GetEnv("RISINGTIDE_TUNING", ""); path != "" {
		t, err := config.LoadTuning(path)
		if err != nil {
			return err
		}
		tuning = t
	}
	if tuning.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	var sound loop.Audio = audio.Silent{}
	if !config.GetEnvBool("RISINGTIDE_NO_AUDIO", false) {
		mixer, err := audio.NewMixer(audio.SampleRate, tuning.Volume)
		if err == nil {
			err = mixer.Start()
		}
		if err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer mixer.Close()
			sound = mixer
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := loop.NewClient(bufio.NewReader(os.Stdin), os.Stdout, loop.ClientOptions{
		Audio:  sound,
		Tuning: tuning,
		Logger: logger,
	})
	return c.Run(ctx)
}
