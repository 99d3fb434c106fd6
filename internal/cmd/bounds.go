package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayusman/huedetect/internal/detector"
	"github.com/ayusman/huedetect/internal/hsv"
	"github.com/ayusman/huedetect/internal/palette"
)

var boundsSample string

var boundsCmd = &cobra.Command{
	Use:   "bounds [color...]",
	Short: "Print the HSV conversion and detection ranges of palette colors",
	Long: `Print, for each color, its BGR sample, the sample converted to HSV, the
range the calculator derives from it and the ranges detection actually uses.
Red always detects with two ranges, one on each side of the hue wraparound.

With --bgr the command describes an arbitrary sample instead and reports
which palette colors would detect it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if boundsSample != "" {
			if len(args) > 0 {
				return errors.New("--bgr cannot be combined with color arguments")
			}
			sample, err := parseSample(boundsSample)
			if err != nil {
				return err
			}
			return writeSampleBounds(cmd.OutOrStdout(), sample)
		}

		names, err := parseColors(args)
		if err != nil {
			return err
		}
		return writeBounds(cmd.OutOrStdout(), names)
	},
}

func init() {
	boundsCmd.Flags().StringVar(&boundsSample, "bgr", "", "describe a sample given as b,g,r instead of palette colors")
	rootCmd.AddCommand(boundsCmd)
}

// parseColors parses color arguments; no arguments selects the whole palette.
func parseColors(args []string) ([]palette.Name, error) {
	if len(args) == 0 {
		entries := palette.All()
		names := make([]palette.Name, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name)
		}
		return names, nil
	}

	names := make([]palette.Name, 0, len(args))
	for _, arg := range args {
		name, err := palette.Parse(arg)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func writeBounds(w io.Writer, names []palette.Name) error {
	for i, name := range names {
		sample, err := name.Sample()
		if err != nil {
			return err
		}
		converted, err := hsv.ToHSV(sample)
		if err != nil {
			return err
		}
		calculated, err := hsv.ComputeBounds(sample)
		if err != nil {
			return err
		}
		target, err := detector.NewTarget(name)
		if err != nil {
			return err
		}

		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", name)
		fmt.Fprintf(w, "  sample:     %s\n", sample)
		fmt.Fprintf(w, "  hsv:        %s\n", converted)
		fmt.Fprintf(w, "  calculated: %s\n", describeBounds(calculated))
		for _, b := range target.Ranges {
			fmt.Fprintf(w, "  detects:    %s\n", b)
		}
	}
	return nil
}

// parseSample parses "b,g,r" into a validated sample.
func parseSample(s string) (hsv.Sample, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return hsv.Sample{}, fmt.Errorf("sample %q: want b,g,r", s)
	}

	var channels [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return hsv.Sample{}, fmt.Errorf("sample %q: %w", s, err)
		}
		channels[i] = v
	}

	sample := hsv.Sample{B: channels[0], G: channels[1], R: channels[2]}
	if err := sample.Validate(); err != nil {
		return hsv.Sample{}, err
	}
	return sample, nil
}

func writeSampleBounds(w io.Writer, sample hsv.Sample) error {
	converted, err := hsv.ToHSV(sample)
	if err != nil {
		return err
	}
	calculated, err := hsv.ComputeBounds(sample)
	if err != nil {
		return err
	}
	matched, err := detector.MatchingColors(converted)
	if err != nil {
		return err
	}

	label := "Custom"
	if name, ok := palette.Lookup(sample); ok {
		label = name.String()
	}

	matchedBy := "none"
	if len(matched) > 0 {
		parts := make([]string, 0, len(matched))
		for _, n := range matched {
			parts = append(parts, n.String())
		}
		matchedBy = strings.Join(parts, ", ")
	}

	fmt.Fprintf(w, "%s\n", label)
	fmt.Fprintf(w, "  sample:     %s\n", sample)
	fmt.Fprintf(w, "  hsv:        %s\n", converted)
	fmt.Fprintf(w, "  calculated: %s\n", describeBounds(calculated))
	fmt.Fprintf(w, "  matched by: %s\n", matchedBy)
	return nil
}

// describeBounds formats bounds, adding the clamped view when the raw
// window reaches outside the channel ranges.
func describeBounds(b hsv.Bounds) string {
	if c := b.Clamped(); c != b {
		return fmt.Sprintf("%s (clamped %s)", b, c)
	}
	return b.String()
}
