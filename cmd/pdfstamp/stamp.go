package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phambaophuc/pdf-watermark/internal/apperr"
	"github.com/phambaophuc/pdf-watermark/internal/models"
)

func stampCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Stamp a local PDF for one recipient",
		Args:  cobra.NoArgs,
		RunE:  runStamp,
	}

	cmd.Flags().StringP("in", "i", "", "Source PDF")
	cmd.Flags().StringP("out", "o", "", "Destination PDF")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runStamp(cmd *cobra.Command, args []string) error {
	recipient, err := recipientFromFlags(cmd)
	if err != nil {
		return err
	}

	p, err := processorFromFlags(cmd)
	if err != nil {
		return err
	}

	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")

	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	result, err := p.ProcessPDF(data, recipient)
	if err != nil {
		return fmt.Errorf("%s: %w", apperr.From(err).Kind, err)
	}

	if err := os.WriteFile(out, result.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stamped %d pages for %s -> %s\n", result.PageCount, recipient.FullName(), out)
	return nil
}

func recipientFromFlags(cmd *cobra.Command) (models.Recipient, error) {
	first, _ := cmd.Flags().GetString("first")
	last, _ := cmd.Flags().GetString("last")
	email, _ := cmd.Flags().GetString("email")

	recipient := models.Recipient{
		FirstName: strings.TrimSpace(first),
		LastName:  strings.TrimSpace(last),
		Email:     strings.TrimSpace(email),
	}

	var missing []string
	if recipient.FirstName == "" {
		missing = append(missing, "--first")
	}
	if recipient.LastName == "" {
		missing = append(missing, "--last")
	}
	if recipient.Email == "" {
		missing = append(missing, "--email")
	}
	if len(missing) > 0 {
		return models.Recipient{}, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	return recipient, nil
}
