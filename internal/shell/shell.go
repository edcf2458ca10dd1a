package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tagvault/mediasearch/internal/models"
	"github.com/tagvault/mediasearch/internal/services"
	"go.uber.org/zap"
)

const (
	separator = "=================================================="
	divider   = "--------------------------------------------------"
)

// Authenticator verifies login credentials
type Authenticator interface {
	// Method Login returns the user for a valid username and password pair.
	//
	// Invalid credentials give services.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// Searcher runs the tag search pipeline
type Searcher interface {
	// Method Search matches tags and walks every resolved item through the sink.
	//
	// Please reference services.ResultSink for the order of events.
	Search(ctx context.Context, userID int, tags []string, sink services.ResultSink) (int, error)
}

// HistoryReporter returns the recent views of a user
type HistoryReporter interface {
	History(ctx context.Context, userID int) ([]models.HistoryItem, error)
}

// Shell is an interactive session: login followed by a read-eval loop over tag searches and history reports
type Shell struct {
	auth    Authenticator
	search  Searcher
	history HistoryReporter
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger

	user *models.User
}

// New creates a new session reading commands from in and writing output to out
func New(auth Authenticator, search Searcher, history HistoryReporter, in io.Reader, out io.Writer, logger *zap.Logger) *Shell {
	return &Shell{
		auth:    auth,
		search:  search,
		history: history,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run executes the session until "exit", end of input or context cancellation
//
// Failures inside the loop are reported to the user and never end the session.
func (s *Shell) Run(ctx context.Context) error {
	s.println()
	s.println(separator)
	s.println("      MULTIMEDIA SEARCH & RATING CLI TOOL")
	s.println(separator)

	if !s.login(ctx) {
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.println()
		s.println(separator)
		line, ok := s.prompt("Enter tags to search (e.g., car, vehicle), 'history', or 'exit': ")
		s.println(separator)
		if !ok {
			break
		}

		command := strings.ToLower(strings.TrimSpace(line))
		switch command {
		case "exit":
			s.println()
			s.println("Session closed. Goodbye!")
			return nil
		case "history", "h":
			s.printHistory(ctx)
			continue
		}

		tags := services.ParseTagInput(line)
		if len(tags) == 0 {
			s.println("[INVALID] No valid tags entered. Try again.")
			continue
		}

		s.runSearch(ctx, tags)
	}

	s.println()
	s.println("Session closed. Goodbye!")
	return nil
}

func (s *Shell) login(ctx context.Context) bool {
	username, ok := s.prompt("Enter username: ")
	if !ok {
		return false
	}
	password, ok := s.prompt("Enter password: ")
	if !ok {
		return false
	}

	user, err := s.auth.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			s.println()
			s.println("[FAILED] Invalid username or password.")
			return false
		}
		s.logger.Error("login failed", zap.Error(err))
		s.println("[ERROR] Login failed. Please try again later.")
		return false
	}

	s.user = user
	s.println()
	s.printf("[SUCCESS] Welcome, %s!\n", user.Username)
	return true
}

func (s *Shell) runSearch(ctx context.Context, tags []string) {
	s.println()
	s.printf("Searching for media matching: %s...\n", strings.Join(tags, ", "))

	count, err := s.search.Search(ctx, s.user.ID, tags, &sessionSink{shell: s})
	switch {
	case errors.Is(err, services.ErrNoTags):
		s.println("[INVALID] No valid tags entered. Try again.")
	case errors.Is(err, services.ErrNoResults):
		s.println(separator)
		s.printf("[NOT FOUND] No media found matching all tags: %s\n", strings.Join(tags, ", "))
		s.println(separator)
	case errors.Is(err, services.ErrSearchFailed):
		s.println("[ERROR] Search query failed. Please try again.")
	case err != nil:
		s.logger.Error("search aborted", zap.Error(err))
		s.println("[ERROR] Search was interrupted.")
	default:
		s.println(separator)
		s.printf("[SUCCESS] Displayed %d matching item(s).\n", count)
	}
}

func (s *Shell) printHistory(ctx context.Context) {
	items, err := s.history.History(ctx, s.user.ID)

	s.println()
	s.println(separator)
	s.printf("VIEW HISTORY FOR USER: %s\n", s.user.Username)
	s.println(divider)

	if err != nil {
		s.println("[ERROR] Failed to fetch history.")
		return
	}
	if len(items) == 0 {
		s.println("[NOT FOUND] No viewing history found.")
		return
	}

	for _, item := range items {
		s.println(FormatHistoryLine(item))
	}
}

// prompt writes a prompt and reads one line; false means end of input
func (s *Shell) prompt(text string) (string, bool) {
	fmt.Fprint(s.out, text)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			s.logger.Warn("failed to read input", zap.Error(err))
		}
		return "", false
	}
	return s.in.Text(), true
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}
