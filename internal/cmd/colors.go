package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/ayusman/huedetect/internal/palette"
)

var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "List the palette colors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeColors(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(colorsCmd)
}

func writeColors(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tHEX\tBGR\tHCL HUE")

	for _, e := range palette.All() {
		c, err := colorful.Hex(e.Name.Hex())
		if err != nil {
			return err
		}
		h, _, _ := c.Hcl()
		marker := ""
		if e.Name == palette.Default() {
			marker = " (default)"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%d,%d,%d\t%.0f\n",
			strings.ToLower(e.Name.String()), marker, e.Name.Hex(),
			e.Sample.B, e.Sample.G, e.Sample.R, h)
	}
	return tw.Flush()
}
