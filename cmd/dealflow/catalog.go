package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/dealflow/internal/board"
	"github.com/pbaille/dealflow/internal/domain"
	"github.com/pbaille/dealflow/internal/seed"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the startup catalog database",
	}

	cmd.AddCommand(catalogAddCmd())
	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogShowCmd())
	cmd.AddCommand(catalogSearchCmd())
	cmd.AddCommand(catalogSeedCmd())
	cmd.AddCommand(catalogExportCmd())
	cmd.AddCommand(catalogRmCmd())
	return cmd
}

func catalogAddCmd() *cobra.Command {
	var (
		st      domain.Startup
		owner   string
		column  string
		founder string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "List a new startup",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st.Name = strings.Join(args, " ")
			st.Founder.Name = founder

			col, err := domain.ParseColumnID(column)
			if err != nil {
				return err
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entry, err := s.AddStartup(owner, col, st)
			if err != nil {
				return err
			}

			fmt.Printf("Added startup: %s\n", entry.ID[:min(8, len(entry.ID))])
			fmt.Printf("Name:   %s\n", entry.Name)
			fmt.Printf("Column: %s\n", entry.Column)
			return nil
		},
	}

	cmd.Flags().StringVar(&st.Pitch, "pitch", "", "one-line pitch")
	cmd.Flags().StringVar(&st.Ask, "ask", "", "amount raised, e.g. $2M")
	cmd.Flags().Float64Var(&st.Equity, "equity", 0, "equity offered, percent")
	cmd.Flags().StringVar(&st.Stage, "stage", "Seed", "funding stage")
	cmd.Flags().IntVar(&st.TeamSize, "team", 0, "team size")
	cmd.Flags().StringSliceVar(&st.Industries, "industry", nil, "industry tags (repeatable)")
	cmd.Flags().IntVar(&st.AIScore, "score", 0, "AI score, 0-100")
	cmd.Flags().StringVar(&st.Logo, "logo", "🚀", "logo emoji")
	cmd.Flags().StringVar(&founder, "founder", "", "founder name")
	cmd.Flags().StringVar(&owner, "owner", "", "owning founder account id")
	cmd.Flags().StringVar(&column, "column", string(domain.ColumnInterested), "board column")
	return cmd
}

func catalogListCmd() *cobra.Command {
	var (
		limit int
		owner string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog startups",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var entries []domain.CatalogEntry
			if owner != "" {
				entries, err = s.ListByOwner(owner)
			} else {
				entries, err = s.ListStartups(limit, 0)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No startups yet. Use 'dealflow catalog add' or 'dealflow catalog seed'.")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%-8s  %-12s  %-20s  %s\n", truncate(e.ID, 8), e.Column, truncate(e.Name, 20), truncate(e.Pitch, 50))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of startups to show")
	cmd.Flags().StringVar(&owner, "owner", "", "only startups listed by this account")
	return cmd
}

func catalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show startup details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			e, err := s.GetStartup(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID:         %s\n", e.ID)
			fmt.Printf("Name:       %s %s\n", e.Logo, e.Name)
			fmt.Printf("Pitch:      %s\n", e.Pitch)
			fmt.Printf("Ask:        %s for %.1f%%\n", e.Ask, e.Equity)
			fmt.Printf("Stage:      %s, team of %d\n", e.Stage, e.TeamSize)
			fmt.Printf("Industries: %s\n", strings.Join(e.Industries, ", "))
			fmt.Printf("AI score:   %d\n", e.AIScore)
			fmt.Printf("Founder:    %s\n", e.Founder.Name)
			fmt.Printf("Column:     %s\n", e.Column)
			if e.OwnerID != "" {
				fmt.Printf("Owner:      %s\n", e.OwnerID)
			}
			fmt.Printf("Created:    %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func catalogSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search startups by name, pitch or industry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.SearchStartups(args[0])
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No matching startups found.")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("%-8s  %-20s  %s\n", truncate(e.ID, 8), truncate(e.Name, 20), truncate(e.Pitch, 50))
			}
			return nil
		},
	}
}

func catalogSeedCmd() *cobra.Command {
	var (
		file  string
		owner string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import the demo deals, or a YAML seed file, into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			bs := seed.Default()
			if file != "" {
				var err error
				if bs, err = seed.Load(file); err != nil {
					return err
				}
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.Import(owner, bs)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d startups\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file")
	cmd.Flags().StringVar(&owner, "owner", "", "owning founder account id")
	return cmd
}

func catalogExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the catalog as a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			bs, err := s.BoardSeed()
			if err != nil {
				return err
			}
			if err := seed.Save(args[0], bs); err != nil {
				return err
			}
			fmt.Printf("Exported %d startups to %s\n", seedSize(bs), args[0])
			return nil
		},
	}
}

func catalogRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a startup from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteStartup(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

func seedSize(bs board.Seed) int {
	n := 0
	for _, list := range bs {
		n += len(list)
	}
	return n
}
