package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/casekanban/internal/board"
	"github.com/mesh-intelligence/casekanban/internal/render"
	"github.com/mesh-intelligence/casekanban/pkg/types"
)

// fieldFlags binds the five card fields to --title, --name, --age, --email
// and --phone.
func fieldFlags(fs *pflag.FlagSet, f *types.Fields) {
	fs.StringVar(&f.Title, "title", "", "title, e.g. Dr")
	fs.StringVar(&f.Name, "name", "", "full name (letters and spaces)")
	fs.StringVar(&f.Age, "age", "", "age in years")
	fs.StringVar(&f.Email, "email", "", "email address")
	fs.StringVar(&f.Phone, "phone", "", "phone number (11 digits)")
}

func newCreateCmd(a *app) *cobra.Command {
	var f types.Fields
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a card to the Unclaimed column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openBoard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer s.close(a.logger)

			card, err := s.board.Create(cmd.Context(), f)
			if err != nil {
				return boardError(err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), card)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created card %d\n", card.ID)
			return nil
		},
	}
	fieldFlags(cmd.Flags(), &f)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var f types.Fields
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the fields of a card",
		Long:  "Edit the fields of a card. Fields without a flag keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openBoard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer s.close(a.logger)

			current, ok := s.board.Get(id)
			if !ok {
				return userError(fmt.Errorf("card %d not found", id))
			}
			updated := current.WithFields(mergeFields(cmd.Flags(), current.Fields(), f))

			card, found, err := s.board.UpdateFields(cmd.Context(), updated)
			if err != nil {
				return boardError(err)
			}
			if !found {
				return userError(fmt.Errorf("card %d not found", id))
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), card)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated card %d\n", card.ID)
			return nil
		},
	}
	fieldFlags(cmd.Flags(), &f)
	return cmd
}

// mergeFields returns current with every field whose flag was set replaced
// by the flag value.
func mergeFields(fs *pflag.FlagSet, current, set types.Fields) types.Fields {
	if fs.Changed("title") {
		current.Title = set.Title
	}
	if fs.Changed("name") {
		current.Name = set.Name
	}
	if fs.Changed("age") {
		current.Age = set.Age
	}
	if fs.Changed("email") {
		current.Email = set.Email
	}
	if fs.Changed("phone") {
		current.Phone = set.Phone
	}
	return current
}

// lookup reports in --json mode whether an id matched a card.
type lookup struct {
	Found bool  `json:"found"`
	ID    int64 `json:"id"`
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a card to another column",
		Long: "Move a card to another column. Status is one of: " + types.StatusNames() + ".\n" +
			"Matching ignores case; multi-word statuses may be quoted or given as separate words.",
		Example: `  kanban move 1700000000000 "First Contact"
  kanban move 1700000000000 send to therapist`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := types.ParseStatus(strings.Join(args[1:], " "))
			if err != nil {
				return userError(fmt.Errorf("%w (valid: %s)", err, types.StatusNames()))
			}
			s, err := a.openBoard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer s.close(a.logger)

			card, found, err := s.board.Move(cmd.Context(), board.MoveCommand{CardID: id, To: status})
			if err != nil {
				return boardError(err)
			}
			out := cmd.OutOrStdout()
			if !found {
				if a.flags.jsonMode {
					return printJSON(out, lookup{Found: false, ID: id})
				}
				fmt.Fprintf(out, "No card %d; nothing moved\n", id)
				return nil
			}
			if a.flags.jsonMode {
				return printJSON(out, card)
			}
			fmt.Fprintf(out, "Moved card %d to %s\n", card.ID, card.Status)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openBoard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer s.close(a.logger)

			found := s.board.Delete(cmd.Context(), id)
			out := cmd.OutOrStdout()
			switch {
			case a.flags.jsonMode:
				return printJSON(out, lookup{Found: found, ID: id})
			case found:
				fmt.Fprintf(out, "Deleted card %d\n", id)
			default:
				fmt.Fprintf(out, "No card %d; nothing deleted\n", id)
			}
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openBoard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer s.close(a.logger)

			card, ok := s.board.Get(id)
			if !ok {
				return userError(fmt.Errorf("card %d not found", id))
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), card)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Card(card))
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", card.Status)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var statusFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards, optionally one column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var status types.Status
			if statusFlag != "" {
				st, err := types.ParseStatus(statusFlag)
				if err != nil {
					return userError(fmt.Errorf("%w (valid: %s)", err, types.StatusNames()))
				}
				status = st
			}
			s, err := a.openBoard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer s.close(a.logger)

			cards := s.board.Cards()
			if status != "" {
				cards = s.board.Column(status)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), cards)
			}
			for _, c := range cards {
				fmt.Fprintln(cmd.OutOrStdout(), render.Line(c))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&statusFlag, "status", "", "only cards in this column")
	return cmd
}

func newBoardCmd(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Draw the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openBoard(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer s.close(a.logger)

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), s.board.Columns())
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Board(s.board.Columns(), width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", render.DefaultWidth, "terminal width")
	return cmd
}
