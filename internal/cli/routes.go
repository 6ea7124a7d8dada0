package cli

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/app/routing"
	"github.com/FACorreiaa/go-volunteerhub/internal/routes"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Assemble the route table and print it",
		Long:  "Assemble the route table and print it. Exits non-zero if the table is misconfigured.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := routes.NewAppHandlers(nil, zap.NewNop()).Table()
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), table)
		},
	}
}

func printTable(out io.Writer, table *routing.Table) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tMETHODS\tGROUP\tROLES\tTITLE")
	for _, d := range table.Descriptors() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Path, methods(d), d.Group, d.Requirement, d.Title)
	}
	return w.Flush()
}

func methods(d routing.Descriptor) string {
	var ms []string
	for m := range d.Actions {
		ms = append(ms, m)
	}
	sort.Strings(ms)
	if d.View != nil {
		ms = append([]string{http.MethodGet}, ms...)
	}
	return strings.Join(ms, ",")
}
