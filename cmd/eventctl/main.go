package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"eventpass/internal/api"
	"eventpass/internal/config"
	"eventpass/internal/credentials"
	"eventpass/internal/logger"
	"eventpass/internal/models"
	"eventpass/internal/navigation"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const usage = "Usage: eventctl [-api URL] [-db PATH] [-secret S] [-ephemeral] <login|signup|logout|status|events|buy> [flags]"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fs := flag.NewFlagSet("eventctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	apiURL := fs.String("api", cfg.API.BaseURL, "Backend base URL")
	dbPath := fs.String("db", cfg.Credentials.Path, "Path to credentials database")
	secret := fs.String("secret", cfg.Credentials.Secret, "Secret sealing the stored token")
	ephemeral := fs.Bool("ephemeral", false, "Keep the token in memory only")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(stdout, usage)
		fs.PrintDefaults()
		return fmt.Errorf("missing command")
	}

	var store credentials.Store
	if *ephemeral {
		store = credentials.NewMemoryStore()
	} else {
		db, err := credentials.NewSQLiteStore(*dbPath, []byte(*secret))
		if err != nil {
			return fmt.Errorf("failed to open credentials: %w", err)
		}
		defer db.Close()
		store = db
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, stderr)
	client := api.NewClient(strings.TrimRight(*apiURL, "/"), store, api.WithLogger(logger.WithComponent(log, "api")))

	ctx := context.Background()
	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]

	switch cmd {
	case "login":
		return login(ctx, client, cmdArgs, stdin, stdout, stderr)
	case "signup":
		return signup(ctx, client, cmdArgs, stdin, stdout, stderr)
	case "logout":
		client.Logout(ctx)
		fmt.Fprintln(stdout, "Logged out")
		return nil
	case "status":
		screen := navigation.Initial(ctx, client)
		fmt.Fprintf(stdout, "Screen: %s (%s)\n", screen, navigation.Path(screen))
		return nil
	case "events":
		return listEvents(ctx, client, log, stdout)
	case "buy":
		return buy(ctx, client, cmdArgs, stdout, stderr)
	default:
		fmt.Fprintln(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func login(ctx context.Context, client *api.Client, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fmt.Fprintln(stdout, "Usage: eventctl login -email <email> [-password <password>]")
		return fmt.Errorf("missing required flags: email")
	}

	password, err := promptPassword(*passwordFlag, stdin, stdout)
	if err != nil {
		return err
	}

	if _, err := client.Login(ctx, *email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Fprintln(stdout, "Login successful")
	return nil
}

func signup(ctx context.Context, client *api.Client, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("username", "", "Username")
	email := fs.String("email", "", "Email")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: eventctl signup -username <name> -email <email> [-password <password>]")
		return fmt.Errorf("missing required flags: username, email")
	}

	password, err := promptPassword(*passwordFlag, stdin, stdout)
	if err != nil {
		return err
	}
	if len(password) < models.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", models.MinPasswordLength)
	}

	if _, err := client.Signup(ctx, *username, *email, password); err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	fmt.Fprintln(stdout, "Account created successfully")
	return nil
}

func listEvents(ctx context.Context, client *api.Client, log zerolog.Logger, stdout io.Writer) error {
	events, err := client.Events(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("error loading events, using placeholders")
		events = models.PlaceholderEvents
	}
	if len(events) == 0 {
		fmt.Fprintln(stdout, "No events")
		return nil
	}
	for _, ev := range events {
		fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\n", ev.ID, ev.Date, ev.Title, ev.Location)
	}
	return nil
}

func buy(ctx context.Context, client *api.Client, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("buy", flag.ContinueOnError)
	fs.SetOutput(stderr)

	eventID := fs.String("event", "", "Event ID")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *eventID == "" {
		fmt.Fprintln(stdout, "Usage: eventctl buy -event <id>")
		return fmt.Errorf("missing required flags: event")
	}

	payload, err := client.PurchaseTicket(ctx, *eventID)
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("not logged in, run eventctl login first")
	}
	if err != nil {
		return fmt.Errorf("purchase failed: %w", err)
	}
	fmt.Fprintf(stdout, "Ticket purchased: %s\n", payload)
	return nil
}

func promptPassword(flagValue string, stdin io.Reader, stdout io.Writer) (string, error) {
	password := flagValue
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Non-terminal input (tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
