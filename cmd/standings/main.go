// Command standings shows the live ranking of a contest in the terminal,
// or submits a solution and follows it to its verdict.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/royal-judge/backend/client"
	"github.com/royal-judge/backend/poller"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	server := flag.String("server", envOr("ROYAL_JUDGE_URL", "http://localhost:8080"), "api base url")
	contestID := flag.String("contest", "c1", "contest to show")
	email := flag.String("email", os.Getenv("ROYAL_JUDGE_EMAIL"), "login email")
	password := flag.String("password", os.Getenv("ROYAL_JUDGE_PASSWORD"), "login password")
	submitFile := flag.String("submit", "", "source file to submit instead of showing standings")
	problemID := flag.String("problem", "p1", "problem to submit to")
	lang := flag.String("lang", "Python", "language of the submitted file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := client.New(*server)
	var userID string
	if *email != "" {
		u, err := c.Login(ctx, *email, *password)
		if err != nil {
			fmt.Printf("Error: login failed: %v\n", err)
			os.Exit(1)
		}
		userID = u.ID
	}

	p := poller.New(clockwork.NewRealClock())

	var m tea.Model
	if *submitFile != "" {
		if userID == "" {
			fmt.Println("Please log in with -email and -password to submit.")
			os.Exit(1)
		}
		code, err := os.ReadFile(*submitFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		m = newSubmitModel(ctx, c, p, *problemID, *lang, string(code))
	} else {
		m = newStandingsModel(ctx, c, p, *contestID, userID)
	}

	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
