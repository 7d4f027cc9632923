package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"secret-santa/internal/flow"
)

const version = "v2.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		serverURL   = flag.String("server", "http://localhost:8080", "Exchange server URL")
		statePath   = flag.String("state", "", "Path to the local session file")
		reset       = flag.Bool("reset", false, "Clear the local session and start over")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`santa - Secret Santa terminal client

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --server URL    Exchange server URL (default: http://localhost:8080)
  --state PATH    Local session file (default: ~/.secret-santa/session.json)
  --reset         Clear the local session and start over
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("santa %s\n", version)
		return
	}

	path := *statePath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot determine home directory:", err)
			os.Exit(1)
		}
		path = filepath.Join(home, ".secret-santa", "session.json")
	}

	f := flow.New(flow.NewFileRepository(path), flow.NewHTTPClient(*serverURL))

	if *reset {
		if err := f.Reset(); err != nil {
			fmt.Fprintln(os.Stderr, "cannot clear session:", err)
			os.Exit(1)
		}
		fmt.Println("Session cleared.")
		return
	}

	if err := run(f); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(f *flow.Flow) error {
	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	for {
		stage, err := f.Resolve(flow.StageSelection)
		if err != nil {
			return err
		}
		switch stage {
		case flow.StageSelection:
			if err := selectIdentity(ctx, f, in); err != nil {
				return err
			}
		case flow.StageMessage:
			if err := writeMessage(ctx, f, in); err != nil {
				return err
			}
		case flow.StageReveal:
			return reveal(ctx, f, in)
		}
	}
}

func selectIdentity(ctx context.Context, f *flow.Flow, in *bufio.Scanner) error {
	participants, err := f.Participants(ctx)
	if err != nil {
		return fmt.Errorf("cannot load participants: %w", err)
	}
	fmt.Println("🎅 Qui es-tu ?")
	for i, name := range participants {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return errors.New("aborted")
		}
		choice := strings.TrimSpace(in.Text())
		name := choice
		if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(participants) {
			name = participants[n-1]
		}
		found := false
		for _, p := range participants {
			if p == name {
				found = true
				break
			}
		}
		if !found {
			fmt.Println("Choix invalide, réessaie.")
			continue
		}
		if _, err := f.Select(name); err != nil {
			return err
		}
		fmt.Printf("Salut %s !\n\n", name)
		return nil
	}
}

func writeMessage(ctx context.Context, f *flow.Flow, in *bufio.Scanner) error {
	existing, err := f.CurrentMessage(ctx)
	if err != nil {
		fmt.Println("(impossible de charger ton message existant, on continue)")
	} else if existing != "" {
		fmt.Printf("Ton message actuel : %q\n", existing)
	}
	fmt.Printf("Laisse un message pour ton Secret Santa (max %d caractères),\nou appuie sur Entrée pour passer :\n> ", flow.MaxMessageChars)
	if !in.Scan() {
		return errors.New("aborted")
	}
	text := strings.TrimSpace(in.Text())

	if text == "" {
		if err := f.Skip(); err != nil {
			return err
		}
		fmt.Println("Pas de message, on passe à la révélation !")
		return nil
	}

	for {
		err := f.Submit(ctx, text)
		if err == nil {
			fmt.Println("Message envoyé !")
			return nil
		}
		if errors.Is(err, flow.ErrMessageTooLong) {
			fmt.Printf("Message trop long (max %d caractères), raccourcis-le :\n> ", flow.MaxMessageChars)
		} else {
			fmt.Printf("Envoi impossible (%v), réessaie :\n> ", err)
		}
		if !in.Scan() {
			return errors.New("aborted")
		}
		text = strings.TrimSpace(in.Text())
		if text == "" {
			return f.Skip()
		}
	}
}

func reveal(ctx context.Context, f *flow.Flow, in *bufio.Scanner) error {
	revealed, err := f.Revealed()
	if err != nil {
		return err
	}
	if !revealed {
		fmt.Print("Appuie sur Entrée pour découvrir ton Secret Santa... ")
		if !in.Scan() {
			return errors.New("aborted")
		}
	}

	data, err := f.Reveal(ctx)
	if err != nil {
		return fmt.Errorf("révélation impossible, réessaie plus tard: %w", err)
	}

	fmt.Printf("\n✨ Tu offres un cadeau à... %s ! 🎁\n", data.Match)
	if data.Message != "" {
		fmt.Printf("Message de %s : %q\n", data.Match, data.Message)
	} else {
		fmt.Printf("%s n'a pas laissé de message.\n", data.Match)
	}
	return nil
}
