package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/otog-org/otog-server/internal/scoreboard"
	"github.com/spf13/cobra"
)

// NewRankCmd builds the subcommand that ranks a snapshot file offline.
func NewRankCmd() *cobra.Command {
	var detail bool
	cmd := &cobra.Command{
		Use:   "rank <snapshot>",
		Short: "Rank a scoreboard snapshot file (YAML or JSON) and print the table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := scoreboard.LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			return printBoard(cmd.OutOrStdout(), scoreboard.Build(snapshot, detail))
		},
	}
	cmd.Flags().BoolVarP(&detail, "detail", "d", false, "print a score column per problem")
	return cmd
}

func printBoard(out io.Writer, board scoreboard.Board) error {
	if board.Name != "" {
		fmt.Fprintf(out, "%s\n\n", board.Name)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	header := []string{"RANK", "NAME"}
	if board.Detailed {
		for _, p := range board.Problems {
			header = append(header, p.Name)
		}
	}
	header = append(header, "TOTAL", "TIME")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range board.Rows {
		cells := []string{strconv.Itoa(row.Rank), row.ShowName}
		for _, score := range row.Scores {
			cells = append(cells, score.String())
		}
		cells = append(cells, row.TotalScore.String(), strconv.FormatInt(row.TimeTotal, 10))
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
