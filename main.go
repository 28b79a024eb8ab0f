package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/habedi/tixshell/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// shutdownGrace is how long a command gets to stop after an interrupt.
const shutdownGrace = 10 * time.Second

func main() {
	configureLogLevelFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopChan := setupInterruptListener()
	go handleInterrupt(stopChan, cancel, func(msg string) {
		log.Warn().Msg(msg)
	}, os.Exit)

	cmd.Execute(ctx)
}

// configureLogLevelFromEnv enables debug logging when DEBUG_TIXSHELL is
// set to anything but "", "0" or "false"; otherwise logging is disabled.
func configureLogLevelFromEnv() {
	switch os.Getenv("DEBUG_TIXSHELL") {
	case "", "0", "false":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func setupInterruptListener() chan os.Signal {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	return stopChan
}

// handleInterrupt cancels the running command on the first interrupt and
// exits if it has not stopped within shutdownGrace or a second interrupt arrives.
func handleInterrupt(stopChan chan os.Signal, cancel context.CancelFunc, logFn func(string), exit func(int)) {
	<-stopChan
	logFn("Interrupt signal received. Exiting...")
	cancel()

	select {
	case <-stopChan:
	case <-time.After(shutdownGrace):
	}
	exit(1)
}
