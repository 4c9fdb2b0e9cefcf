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
	"path/filepath"
	"strings"

	"github.com/pbaille/ideas/internal/api"
	"github.com/pbaille/ideas/internal/config"
	"github.com/pbaille/ideas/internal/controller"
	"github.com/pbaille/ideas/internal/dom"
	"github.com/pbaille/ideas/internal/remote"
	"github.com/pbaille/ideas/internal/render"
	"github.com/pbaille/ideas/internal/store"
	"github.com/pbaille/ideas/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dbPath    string
	serverURL string
	logLevel  string
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:          "ideas",
		Short:        "Share, like and prune a list of ideas",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "database path (serve, seed)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", cfg.ServerURL, "backend URL (client commands)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd(cfg.Addr))
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(likeCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(tuiCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newLogger(w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(dbPath)
}

func serveCmd(defaultAddr string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ideas API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(os.Stderr)
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			server := api.New(s, addr, logger)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", defaultAddr, "server address")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample ideas into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.Seed()
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d ideas\n", n)
			return nil
		},
	}
}

// session is a bootstrapped controller over a headless document
type session struct {
	doc  *dom.Document
	seen int
}

func openSession(ctx context.Context, confirm func(string) bool) (*session, error) {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return nil, err
	}

	doc := dom.New(confirm)
	controller.New(remote.New(serverURL, nil), doc, logger).Bootstrap(ctx)

	s := &session{doc: doc}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// check turns alerts raised since the last call into an error
func (s *session) check() error {
	alerts := s.doc.Alerts()
	fresh := alerts[s.seen:]
	s.seen = len(alerts)
	if len(fresh) == 0 {
		return nil
	}
	return errors.New(strings.Join(fresh, "\n"))
}

// resolve finds the rendered entry whose id starts with prefix
func (s *session) resolve(prefix string) (dom.Entry, error) {
	entries, err := s.doc.Entries()
	if err != nil {
		return dom.Entry{}, err
	}

	var matches []dom.Entry
	for _, e := range entries {
		if e.ID == prefix {
			return e, nil
		}
		if strings.HasPrefix(e.ID, prefix) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return dom.Entry{}, fmt.Errorf("idea not found: %s", prefix)
	case 1:
		return matches[0], nil
	}
	return dom.Entry{}, fmt.Errorf("ambiguous id %s matches %d ideas", prefix, len(matches))
}

func printEntries(entries []dom.Entry) {
	if len(entries) == 0 {
		fmt.Println("No ideas yet. Use 'ideas add' to create one.")
		return
	}

	for _, e := range entries {
		fmt.Printf("%s  %s  (%d likes)\n", shortID(e.ID), truncate(e.Title, 60), e.Likes)
		if e.Description != "" {
			fmt.Printf("    %s\n", truncate(e.Description, 76))
		}
		if len(e.Tags) > 0 {
			fmt.Printf("    tags: %s\n", strings.Join(e.Tags, ", "))
		}
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ideas",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return err
			}

			entries, err := s.doc.Entries()
			if err != nil {
				return err
			}
			printEntries(entries)
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	var title, description, tags string

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a new idea",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				title = args[0]
			}

			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return err
			}

			s.doc.SetField(controller.FieldTitle, title)
			s.doc.SetField(controller.FieldDescription, description)
			s.doc.SetField(controller.FieldTags, tags)
			if err := s.doc.Submit(cmd.Context()); err != nil {
				return err
			}
			if err := s.check(); err != nil {
				return err
			}

			fmt.Println("Added idea")
			entries, err := s.doc.Entries()
			if err != nil {
				return err
			}
			printEntries(entries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "idea title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "idea description")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")
	return cmd
}

func likeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like [id]",
		Short: "Like an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return err
			}

			e, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if err := s.doc.Click(cmd.Context(), render.AttrLike, e.LikeID); err != nil {
				return err
			}
			if err := s.check(); err != nil {
				return err
			}

			if updated, err := s.resolve(e.ID); err == nil {
				fmt.Printf("Liked %s: %d likes\n", shortID(e.ID), updated.Likes)
			}
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			declined := false
			confirm := func(message string) bool {
				if yes {
					return true
				}
				ok := promptYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), message)
				declined = !ok
				return ok
			}

			s, err := openSession(cmd.Context(), confirm)
			if err != nil {
				return err
			}

			e, err := s.resolve(args[0])
			if err != nil {
				return err
			}

			if err := s.doc.Click(cmd.Context(), render.AttrDelete, e.DeleteID); err != nil {
				return err
			}
			if err := s.check(); err != nil {
				return err
			}

			if declined {
				fmt.Println("Cancelled")
				return nil
			}
			fmt.Printf("Deleted %s\n", shortID(e.ID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse ideas interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal is owned by the UI, so logs are discarded
			logger := slog.New(slog.DiscardHandler)
			return tui.Run(cmd.Context(), remote.New(serverURL, nil), logger)
		},
	}
}

func promptYesNo(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N] ", message)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
