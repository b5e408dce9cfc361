package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/nguyenvanduocit/grctrans/pkg/models"
	"github.com/nguyenvanduocit/grctrans/pkg/translator"
	"github.com/spf13/cobra"
)

var Models = &cobra.Command{
	Use:   "models",
	Short: "List the models a translation can use",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	Models.Flags().Bool("remote", false, "ask the Anthropic API which models your key can use")
}

func runModels(cmd *cobra.Command, args []string) error {
	list := models.List()

	if remote, _ := cmd.Flags().GetBool("remote"); remote {
		key, err := credentialFor(translator.DefaultAnthropicModel)
		if err != nil {
			return err
		}
		if list, err = models.NewLister("").ListAnthropic(cmd.Context(), key); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tDEFAULT")
	for _, m := range list {
		def := ""
		if m.Default {
			def = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Provider, def)
	}
	return w.Flush()
}
