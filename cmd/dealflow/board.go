package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pbaille/dealflow/internal/actions"
	"github.com/pbaille/dealflow/internal/domain"
	"github.com/pbaille/dealflow/internal/render"
	"github.com/pbaille/dealflow/internal/tui"
)

func boardCmd() *cobra.Command {
	var (
		seedFile    string
		fromCatalog bool
		touch       bool
		view        string
	)

	cmd := &cobra.Command{
		Use:         "board",
		Short:       "Open the interactive pipeline board",
		Annotations: map[string]string{screenOwner: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			applyBoardFlags(cmd, seedFile, fromCatalog)
			if cmd.Flags().Changed("touch") {
				cfg.Board.Touch = touch
			}
			if cmd.Flags().Changed("view") {
				cfg.Board.View = view
			}
			mode, err := render.ParseViewMode(cfg.Board.View)
			if err != nil {
				return err
			}

			session, err := mountSession()
			if err != nil {
				return err
			}
			defer session.Close()

			p := tea.NewProgram(tui.New(session, mode, logger), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	boardFlags(cmd, &seedFile, &fromCatalog)
	cmd.Flags().BoolVar(&touch, "touch", false, "use the touch drag backend")
	cmd.Flags().StringVar(&view, "view", "kanban", "initial view: kanban, table or calendar")
	return cmd
}

func showCmd() *cobra.Command {
	var (
		seedFile    string
		fromCatalog bool
		view        string
		archived    bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyBoardFlags(cmd, seedFile, fromCatalog)
			mode, err := render.ParseViewMode(view)
			if err != nil {
				return err
			}

			session, err := mountSession()
			if err != nil {
				return err
			}
			defer session.Close()

			snap := session.Snapshot()
			fmt.Println(render.Board(snap, render.Options{Mode: mode}))

			if archived && len(snap.Archived) > 0 {
				fmt.Println("\nArchived:")
				for _, s := range snap.Archived {
					fmt.Printf("  %s  %-20s %s\n", s.ID, truncate(s.Name, 20), s.Status)
				}
			}
			return nil
		},
	}

	boardFlags(cmd, &seedFile, &fromCatalog)
	cmd.Flags().StringVar(&view, "view", "kanban", "kanban, table or calendar")
	cmd.Flags().BoolVar(&archived, "archived", false, "also list passed and removed startups")
	return cmd
}

func moveCmd() *cobra.Command {
	var (
		seedFile    string
		fromCatalog bool
	)

	cmd := &cobra.Command{
		Use:   "move [startup-id] [from] [to]",
		Short: "Move a startup between columns and print the result",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyBoardFlags(cmd, seedFile, fromCatalog)
			from, err := domain.ParseColumnID(args[1])
			if err != nil {
				return err
			}
			to, err := domain.ParseColumnID(args[2])
			if err != nil {
				return err
			}

			session, err := mountSession()
			if err != nil {
				return err
			}
			defer session.Close()

			moved, err := session.Move(args[0], from, to)
			if err != nil {
				return err
			}
			if !moved {
				fmt.Printf("Nothing moved: %s is not in %s\n", args[0], from)
				return nil
			}

			if t, ok := session.Toast(); ok {
				fmt.Println(t.Message)
			}
			fmt.Println(render.Board(session.Snapshot(), render.Options{Mode: render.Table}))
			return nil
		},
	}

	boardFlags(cmd, &seedFile, &fromCatalog)
	return cmd
}

// stdinPrompter answers action prompts from the terminal
type stdinPrompter struct {
	in *bufio.Reader
}

func (p stdinPrompter) Confirm(msg string) bool {
	fmt.Printf("%s [y/N] ", msg)
	line, _ := p.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (p stdinPrompter) Input(msg string) (string, bool) {
	fmt.Printf("%s ", msg)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func actionCmd() *cobra.Command {
	var (
		seedFile    string
		fromCatalog bool
		yes         bool
	)

	var names []string
	for _, a := range actions.All() {
		names = append(names, string(a))
	}

	cmd := &cobra.Command{
		Use:   "action [action] [startup-id]",
		Short: "Run a quick action on a startup",
		Long:  "Actions: " + strings.Join(names, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyBoardFlags(cmd, seedFile, fromCatalog)
			a, err := actions.Parse(args[0])
			if err != nil {
				return err
			}

			session, err := mountSession()
			if err != nil {
				return err
			}
			defer session.Close()

			var prompter actions.Prompter = stdinPrompter{in: bufio.NewReader(os.Stdin)}
			if yes {
				prompter = actions.Answers{Confirmed: true}
			}

			outcome, err := session.RunAction(a, args[1], prompter)
			if err != nil {
				return err
			}

			switch outcome {
			case actions.OutcomeCancelled:
				fmt.Println("Cancelled")
				return nil
			case actions.OutcomeSkipped:
				fmt.Println("Nothing to do: the startup already left the board")
				return nil
			case actions.OutcomeArchived:
				if t, ok := session.Toast(); ok {
					fmt.Println(t.Message)
				}
				return nil
			}

			job, _ := session.Dispatcher().Processing()
			fmt.Printf("%s: %s...\n", job.Action.Label(), job.StartupName)
			if !waitIdle(session.Dispatcher(), cfg.ProcessingDelay()+time.Second) {
				return fmt.Errorf("action %s did not complete", a)
			}

			if t, ok := session.Toast(); ok {
				fmt.Println(t.Message)
			}
			if h := session.Dispatcher().History(); len(h) > 0 && h[len(h)-1].Detail != "" {
				fmt.Println()
				fmt.Println(h[len(h)-1].Detail)
			}
			return nil
		},
	}

	boardFlags(cmd, &seedFile, &fromCatalog)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm prompts without asking")
	return cmd
}

// waitIdle polls until the processing modal closes or timeout passes
func waitIdle(d *actions.Dispatcher, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, busy := d.Processing(); !busy {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}

func askCmd() *cobra.Command {
	var analyze string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the deal assistant, or analyze a startup with --analyze",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := mountSession()
			if err != nil {
				return err
			}
			defer session.Close()

			if analyze != "" {
				st, _, ok := session.Find(analyze)
				if !ok {
					return fmt.Errorf("startup not found: %s", analyze)
				}
				fmt.Println(session.Assistant().Analyze(st))
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("ask needs a question or --analyze")
			}
			fmt.Println(session.Assistant().Respond(strings.Join(args, " ")))
			return nil
		},
	}

	cmd.Flags().StringVar(&analyze, "analyze", "", "startup id to analyze")
	return cmd
}
