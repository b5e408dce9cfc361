package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/nguyenvanduocit/grctrans/pkg/batch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Batch = &cobra.Command{
	Use:   "batch [sourceDir] [outputDir]",
	Short: "Translate every .txt file of a directory",
	Long: `Translate every .txt file of sourceDir into outputDir. Files that already
have a translation are skipped unless --force is given. Each translation gets
a .meta.json file, failures are recorded under errors/, and the run ends with
translation_summary.json.`,
	Example: `grctrans batch texts translations
grctrans batch texts translations --workers 3 --files book1.txt --files book2.txt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBatch,
}

func init() {
	Batch.Flags().Int("workers", 1, "files translated at once")
	Batch.Flags().Bool("force", false, "retranslate files that already have a translation")
	Batch.Flags().StringSlice("files", nil, "only translate these file names")

	viper.BindPFlag("workers", Batch.Flags().Lookup("workers"))
}

// defaultOutputDir stamps the run date onto the source directory name.
func defaultOutputDir(sourceDir string, now time.Time) string {
	return filepath.Clean(sourceDir) + "_translations_" + now.Format("01.02.06")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := withSignalCancel(cmd.Context())
	defer cancel()

	sourceDir := args[0]
	outputDir := defaultOutputDir(sourceDir, time.Now())
	if len(args) == 2 {
		outputDir = args[1]
	}

	model := viper.GetString("model")
	key, err := credentialFor(model)
	if err != nil {
		return err
	}

	completer, closeCompleter, err := newCompleter()
	if err != nil {
		return err
	}
	defer closeCompleter()

	force, _ := cmd.Flags().GetBool("force")
	files, _ := cmd.Flags().GetStringSlice("files")

	summary, err := batch.NewRunner(newPipeline(completer), nil).Run(ctx, batch.Config{
		SourceDir:  sourceDir,
		OutputDir:  outputDir,
		Credential: key,
		Model:      model,
		Workers:    viper.GetInt("workers"),
		Force:      force,
		Files:      files,
	})
	if summary != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Completed: %d\nSkipped: %d\nFailed: %d\nSummary: %s\n",
			summary.Completed, summary.Skipped, summary.Failed, filepath.Join(outputDir, batch.SummaryFile))
	}
	return err
}
