package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/neexbeast/trekmate/internal/app"
	"github.com/neexbeast/trekmate/internal/chat"
	"github.com/neexbeast/trekmate/internal/config"
)

type cli struct {
	config.Config `embed:""`

	Destination string `arg:"" optional:"" help:"Destination to plan for. Prompts when omitted."`
}

func main() {
	config.LoadDotEnv()

	var c cli
	kong.Parse(&c,
		kong.Name("trekmate"),
		kong.Description("Chat with TrekMate about a trek in Japan. Type /restart to start over, /quit to exit."),
	)

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.Level()}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, c, os.Stdin, os.Stdout, log); err != nil {
		log.Error("trekmate exited with error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c cli, in io.Reader, out io.Writer, log *slog.Logger) error {
	a, err := app.New(ctx, c.Config, log)
	if err != nil {
		return fmt.Errorf("wiring services: %w", err)
	}
	defer a.Close()

	return repl(ctx, chat.NewSession(a.Lookup, a.Generator, log), c.Destination, in, out)
}

// repl drives a session from line-oriented input until EOF or /quit.
func repl(ctx context.Context, session *chat.Session, first string, in io.Reader, out io.Writer) error {
	renderMessages(out, session.State().Messages)

	send := func(text string) error {
		turn, err := session.Send(ctx, text)
		if err != nil {
			return err
		}
		renderMessages(out, assistantOnly(turn.Messages))
		renderSuggestions(out, turn.Suggestions)
		return nil
	}

	if strings.TrimSpace(first) != "" {
		fmt.Fprintf(out, "> %s\n", first)
		if err := send(first); err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "/quit", "/exit":
			return nil
		case "/restart":
			if err := session.Restart(); err != nil {
				return err
			}
			renderMessages(out, session.State().Messages)
			continue
		}

		if err := send(resolveInput(line, session.State().Suggestions)); err != nil {
			if errors.Is(err, chat.ErrTurnInFlight) {
				continue
			}
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	fmt.Fprintln(out)
	return nil
}
