package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/textpub/internal/epub"
	"github.com/dgallion1/textpub/internal/parser"
	"github.com/dgallion1/textpub/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	convertOutput   string
	convertTitle    string
	convertAuthor   string
	convertLanguage string
	convertTextOut  string
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a text, markdown, html, pdf or docx file to EPUB",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		sess, err := newSession()
		if err != nil {
			return err
		}

		src, err := parser.ParseFile(input, sess.parser)
		if err != nil {
			return err
		}

		stderr := cmd.ErrOrStderr()
		printHeader(stderr, input, string(sess.kind))
		bar := newProgressBar(stderr, "Converting")
		out, err := sess.conv.Convert(cmd.Context(), src, pipeline.Options{
			Title:       convertTitle,
			Author:      convertAuthor,
			Language:    convertLanguage,
			Cleaner:     sess.kind,
			KnownTitles: knownTitles,
		}, bar.Update)
		if err != nil {
			bar.Done()
			return err
		}

		output := convertOutput
		if output == "" {
			output = strings.TrimSuffix(input, filepath.Ext(input)) + ".epub"
		}
		if err := epub.Build(output, out.Document); err != nil {
			bar.Done()
			return err
		}
		bar.Update(1)
		bar.Done()

		if convertTextOut != "" {
			if err := os.WriteFile(convertTextOut, []byte(out.CleanedText+"\n"), 0o644); err != nil {
				return fmt.Errorf("write cleaned text: %w", err)
			}
		}

		printSummary(cmd.OutOrStdout(), output, out)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "EPUB path (default: input name with .epub)")
	convertCmd.Flags().StringVar(&convertTitle, "title", "", "Book title (default: from the input)")
	convertCmd.Flags().StringVar(&convertAuthor, "author", "", "Book author")
	convertCmd.Flags().StringVar(&convertLanguage, "language", "", "BCP 47 language tag (default: DEFAULT_LANGUAGE or en)")
	convertCmd.Flags().StringVar(&convertTextOut, "text-out", "", "Also write the cleaned text to this path")

	rootCmd.AddCommand(convertCmd)
}
