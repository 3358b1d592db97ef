package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage the tracked keyword set",
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked keywords",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		terms, err := loadTerms(st)
		if err != nil {
			return err
		}
		if terms.Len() == 0 {
			fmt.Println("No keywords tracked.")
			return nil
		}
		for _, term := range terms.Terms() {
			fmt.Println(term)
		}
		return nil
	},
}

var keywordsAddCmd = &cobra.Command{
	Use:   "add <term>...",
	Short: "Add keywords",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		terms, err := loadTerms(st)
		if err != nil {
			return err
		}
		for _, raw := range args {
			if !terms.Add(raw) {
				fmt.Printf("Skipped: %s\n", raw)
				continue
			}
			normalized, _ := terms.Normalize(raw)
			if err := st.PutKeyword(normalized); err != nil {
				return fmt.Errorf("failed to persist keyword: %w", err)
			}
			fmt.Printf("Added: %s\n", normalized)
		}
		return nil
	},
}

var keywordsRemoveCmd = &cobra.Command{
	Use:   "remove <term>...",
	Short: "Remove keywords",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		terms, err := loadTerms(st)
		if err != nil {
			return err
		}
		for _, raw := range args {
			if !terms.Remove(raw) {
				fmt.Printf("Not tracked: %s\n", raw)
				continue
			}
			normalized, ok := terms.Normalize(raw)
			if !ok {
				normalized = raw
			}
			if err := st.DeleteKeyword(normalized); err != nil {
				return fmt.Errorf("failed to remove keyword: %w", err)
			}
			fmt.Printf("Removed: %s\n", normalized)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.AddCommand(keywordsListCmd)
	keywordsCmd.AddCommand(keywordsAddCmd)
	keywordsCmd.AddCommand(keywordsRemoveCmd)
}
