package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phambaophuc/pdf-watermark/internal/services/processor"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pdfstamp",
		Short:         "Stamp recipient attribution onto PDF pages",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("placement", processor.PlacementLeftMargin, "Placement policy (corner, left-margin, spine)")
	rootCmd.PersistentFlags().String("site", "Liviskov.com", "Site attribution line; empty to omit")
	rootCmd.PersistentFlags().Int("font-size", processor.DefaultFontSize, "Font size in points")
	rootCmd.PersistentFlags().Float64("opacity", processor.DefaultOpacity, "Stamp opacity, between 0 and 1")
	rootCmd.PersistentFlags().String("first", "", "Recipient first name")
	rootCmd.PersistentFlags().String("last", "", "Recipient last name")
	rootCmd.PersistentFlags().String("email", "", "Recipient email")

	rootCmd.AddCommand(stampCmd())
	rootCmd.AddCommand(planCmd())

	return rootCmd
}

func processorFromFlags(cmd *cobra.Command) (*processor.PDFProcessor, error) {
	flags := cmd.Flags()
	placement, _ := flags.GetString("placement")
	site, _ := flags.GetString("site")
	fontSize, _ := flags.GetInt("font-size")
	opacity, _ := flags.GetFloat64("opacity")

	style := processor.DefaultStyle()
	style.FontSize = fontSize
	style.Opacity = opacity

	return processor.NewPDFProcessor(processor.Options{
		Placement:       placement,
		SiteAttribution: site,
		Style:           style,
	})
}
