package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/textpub/internal/parser"
	"github.com/dgallion1/textpub/internal/pipeline"
	"github.com/spf13/cobra"
)

var cleanOutput string

var cleanCmd = &cobra.Command{
	Use:   "clean <input>",
	Short: "Clean OCR text without packaging it",
	Long: `Clean runs the selected cleaner on the input and writes the cleaned
text, one paragraph per blank-line separated block, to stdout or --output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}

		src, err := parser.ParseFile(args[0], sess.parser)
		if err != nil {
			return err
		}

		bar := newProgressBar(cmd.ErrOrStderr(), "Cleaning")
		out, err := sess.conv.Convert(cmd.Context(), src, pipeline.Options{
			Cleaner:     sess.kind,
			KnownTitles: knownTitles,
		}, bar.Update)
		bar.Done()
		if err != nil {
			return err
		}
		if out.FallbackErr != nil {
			printWarning(cmd.ErrOrStderr(), fmt.Sprintf("ai cleaner failed, used heuristic: %v", out.FallbackErr))
		}

		text := out.CleanedText + "\n"
		if cleanOutput == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		}
		if err := os.WriteFile(cleanOutput, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write cleaned text: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", successStyle.Render("✓"), cleanOutput)
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "Write cleaned text here instead of stdout")
	rootCmd.AddCommand(cleanCmd)
}
