package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phambaophuc/pdf-watermark/internal/models"
	"github.com/phambaophuc/pdf-watermark/internal/services/processor"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print where the stamp would land on a page of the given size",
		Args:  cobra.NoArgs,
		RunE:  runPlan,
	}

	cmd.Flags().Float64("width", 595.28, "Page width in points")
	cmd.Flags().Float64("height", 841.89, "Page height in points")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	p, err := processorFromFlags(cmd)
	if err != nil {
		return err
	}

	width, _ := cmd.Flags().GetFloat64("width")
	height, _ := cmd.Flags().GetFloat64("height")
	if width <= 0 || height <= 0 || width > models.MaxPageDimension || height > models.MaxPageDimension {
		return fmt.Errorf("page size must be within (0, %d] points", models.MaxPageDimension)
	}

	first, _ := cmd.Flags().GetString("first")
	last, _ := cmd.Flags().GetString("last")
	email, _ := cmd.Flags().GetString("email")

	stamp := p.ComposeStamp(models.Recipient{FirstName: first, LastName: last, Email: email})
	pl := p.Plan([]processor.PageSize{{Width: width, Height: height}}, stamp)[0]

	output := struct {
		Placement string              `json:"placement"`
		Page      processor.PageSize  `json:"page"`
		Lines     []string            `json:"lines"`
		Stamp     processor.Placement `json:"stamp"`
		Bounds    processor.Rect      `json:"bounds"`
	}{
		Placement: p.PlacementName(),
		Page:      processor.PageSize{Width: width, Height: height},
		Lines:     stamp.Lines,
		Stamp:     pl,
		Bounds:    pl.Bounds(),
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
