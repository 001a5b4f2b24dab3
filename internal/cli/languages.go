package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List installed tesseract language packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rec := buildEngines()

		langs, err := rec.ListLanguages(cmd.Context())
		if err != nil {
			return err
		}

		for _, lang := range langs {
			marker := " "
			if lang == cfg.Processing.Language {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, lang)
		}
		return nil
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available conversion profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := profileStore()
		if err != nil {
			return err
		}

		for _, p := range store.List() {
			fmt.Printf("%-10s %4d dpi  %s\n", p.Profile.Name, p.Processing.DPI, p.Profile.Description)
		}
		return nil
	},
}
