package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure transcript paths, run storage and quality filter
thresholds. Settings are stored in config.toml in the configuration directory.

Use subcommands to change a single setting or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting. Lists are given as comma-separated values;
an empty value clears the list, which disables the rule that uses it.

Examples:
  podchunk settings set filter.min_chars 250
  podchunk settings set filter.hosts "Lenny,Co Host"
  podchunk settings set storage.enabled false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Paths]")
	cmd.Printf("  Transcripts: %s\n", settings.TranscriptsDir)
	cmd.Printf("  Output: %s\n", settings.OutputDir)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.StoreEnabled))
	cmd.Println()

	f := settings.Filter
	cmd.Println("[Filter]")
	cmd.Printf("  Min chars: %d\n", f.MinChars)
	cmd.Printf("  Sentences: %d-%d\n", f.MinSentences, f.MaxSentences)
	cmd.Printf("  Short host chars: %d\n", f.ShortHostChars)
	cmd.Printf("  Max question marks: %d\n", f.MaxQuestionMarks)
	cmd.Printf("  Max glue hits: %d\n", f.MaxGlueHits)
	cmd.Printf("  Hosts: %s\n", listOrNone(f.Hosts))
	cmd.Printf("  Boilerplate phrases: %s\n", listOrNone(f.BoilerplatePhrases))
	cmd.Printf("  Glue phrases: %s\n", listOrNone(f.GluePhrases))
	cmd.Println()

	cmd.Printf("Set in config file: %s\n", listOrNone(settingsService.StoredKeys()))
	cmd.Printf("Config file: %s\n", settingsService.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("podchunk Settings Wizard")
	cmd.Println("========================")
	cmd.Println("Press Enter to keep the current value.")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	current := currentValues(settings)

	changed := 0
	for _, key := range domain.SettingKeys() {
		cmd.Printf("%s [%s]: ", key, current[key])
		input := readLine(reader)
		if input == "" || input == current[key] {
			continue
		}
		if err := settingsService.Set(key, input); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		changed++
	}

	cmd.Println()
	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if _, err := settingsService.Get(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Printf("Updated %d settings.\n", changed)
	}
	return nil
}

// currentValues renders settings the way Set expects them.
func currentValues(s *domain.AppSettings) map[string]string {
	f := s.Filter
	return map[string]string{
		domain.KeyTranscriptsDir:         s.TranscriptsDir,
		domain.KeyOutputDir:              s.OutputDir,
		domain.KeyStoreEnabled:           fmt.Sprint(s.StoreEnabled),
		domain.KeyFilterMinChars:         fmt.Sprint(f.MinChars),
		domain.KeyFilterMinSentences:     fmt.Sprint(f.MinSentences),
		domain.KeyFilterMaxSentences:     fmt.Sprint(f.MaxSentences),
		domain.KeyFilterShortHostChars:   fmt.Sprint(f.ShortHostChars),
		domain.KeyFilterMaxQuestionMarks: fmt.Sprint(f.MaxQuestionMarks),
		domain.KeyFilterMaxGlueHits:      fmt.Sprint(f.MaxGlueHits),
		domain.KeyFilterHosts:            strings.Join(f.Hosts, ","),
		domain.KeyFilterBoilerplate:      strings.Join(f.BoilerplatePhrases, ","),
		domain.KeyFilterGlue:             strings.Join(f.GluePhrases, ","),
	}
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
