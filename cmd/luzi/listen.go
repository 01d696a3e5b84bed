package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luzi-app/luzi/internal/cli"
	"github.com/luzi-app/luzi/internal/match"
	"github.com/luzi-app/luzi/internal/model"
	"github.com/luzi-app/luzi/internal/parse"
	"github.com/luzi-app/luzi/internal/voice"
)

func listenCmd() *cobra.Command {
	var hotword bool

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Start an interactive expense session",
		Long: `Open a voice-style session where each typed line stands in for an
utterance. Say things like "gasté 1500 en sushi" and luzi parses the amount,
description and category, asking for confirmation when the category is
ambiguous.

With --hotword, luzi stays passive until a line contains "hey luzi".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListen(cmd.Context(), hotword)
		},
	}

	cmd.Flags().BoolVar(&hotword, "hotword", false, `wait for "hey luzi" before each session`)

	return cmd
}

// sessionEvents forwards controller notifications to the terminal notifier
// and surfaces the state transitions the command loop waits on.
type sessionEvents struct {
	*cli.Notifier

	mu         sync.Mutex
	candidates model.CategoryCandidates
	awaitingCh chan struct{}
	idleCh     chan struct{}
}

func newSessionEvents(notifier *cli.Notifier) *sessionEvents {
	return &sessionEvents{
		Notifier:   notifier,
		awaitingCh: make(chan struct{}, 1),
		idleCh:     make(chan struct{}, 1),
	}
}

func (e *sessionEvents) AmbiguousCategory(draft model.ExpenseDraft, candidates model.CategoryCandidates) {
	e.mu.Lock()
	e.candidates = candidates
	e.mu.Unlock()

	e.Notifier.AmbiguousCategory(draft, candidates)
	notify(e.awaitingCh)
}

func (e *sessionEvents) lastCandidates() model.CategoryCandidates {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.candidates
}

func (e *sessionEvents) signalIdle() {
	notify(e.idleCh)
}

// notify performs a non-blocking send so repeated notifications coalesce.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func runListen(ctx context.Context, hotword bool) error {
	interrupts := cli.NewInterruptHandler(os.Stdout)
	ctx = interrupts.HandleInterrupts(ctx, true)

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	matcher, err := match.New(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to initialize category matcher: %w", err)
	}

	reader := cli.NewNonBlockingReader(os.Stdin)
	capture := cli.NewTerminalCaptureWithReader(reader, os.Stdout)
	prompter := cli.NewPrompterWithReader(reader, os.Stdout)
	events := newSessionEvents(cli.NewNotifier(os.Stdout))

	controller := voice.NewWithConfig(store, parse.New(), matcher, capture, events, voice.Config{
		ConfidenceThreshold: viper.GetFloat64("voice.confidence_threshold"),
		SessionTimeout:      viper.GetDuration("voice.session_timeout"),
	})

	var listener *voice.HotwordListener
	if hotword {
		listener = voice.NewHotwordListener(capture, controller)
	}
	controller.SetIdleHandler(func() {
		if listener != nil {
			listener.Resume()
		}
		events.signalIdle()
	})

	if hotword {
		fmt.Println(cli.FormatTitle(`Decí "hey luzi" para registrar un gasto`))
		if err := listener.Start(ctx); err != nil {
			return fmt.Errorf("failed to start hotword detection: %w", err)
		}
		defer listener.Stop()
	}

	startNeeded := !hotword
	for {
		if startNeeded {
			startNeeded = false
			if err := controller.StartSession(ctx); err != nil {
				select {
				case <-capture.Done():
					return nil
				default:
				}
				return err
			}
		}

		select {
		case <-ctx.Done():
			controller.Cancel()
			return nil
		case <-capture.Done():
			return nil
		case <-events.awaitingCh:
			if err := confirmPending(ctx, controller, prompter, store, events); err != nil {
				return err
			}
		case <-events.idleCh:
			if !hotword {
				startNeeded = true
			}
		}
	}
}

// confirmPending resolves an ambiguous draft through the interactive prompter.
func confirmPending(ctx context.Context, controller *voice.Controller, prompter *cli.Prompter, store voice.Store, events *sessionEvents) error {
	pending := controller.Pending()
	if pending == nil {
		return nil
	}

	categories, err := store.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	categoryID, err := prompter.SelectCategory(ctx, *pending, events.lastCandidates(), categories)
	if err != nil {
		if errors.Is(err, cli.ErrSelectionCancelled) {
			controller.Cancel()
			fmt.Println(cli.FormatInfo("Gasto descartado."))
			return nil
		}
		return err
	}

	if err := controller.ConfirmCategory(ctx, categoryID); err != nil {
		// The draft stays pending; let the user pick again.
		notify(events.awaitingCh)
	}
	return nil
}
