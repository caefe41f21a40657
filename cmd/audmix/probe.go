// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix/decode"
	"github.com/ik5/audmix/stream"
)

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe FILE...",
		Short: "Show the container and stream format of assets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ASSET\tFORMAT\tRATE\tCHANNELS\tLAYOUT\tSIZE")

			spec := a.deviceInfo().Spec()
			for _, path := range args {
				src, err := stream.Open(path)
				if err != nil {
					return err
				}
				size := src.Size()

				g, err := decode.Open(src, spec, decode.Options{})
				if err != nil {
					fmt.Fprintf(tw, "%s\terror: %v\t\t\t\t%d\n", path, err, size)
					continue
				}
				info := g.Info()
				g.Close()

				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\n",
					path, info.Format, info.SampleRate, info.Channels, info.Layout, size)
			}

			return tw.Flush()
		},
	}
}
