package gittrim

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/foriequal0/git-trim/internal/config"
)

const (
	configUsage         = "explicit path to a .git-trim.yml; default is discovered by walking up from the working directory"
	basesUsage          = "base branches; default is each remote's HEAD symref target"
	protectedUsage      = "globs that demote a matching branch to Kept; default empty"
	deleteUsage         = "comma-separated delete-range tokens; default merged:origin"
	updateUsage         = "force the pre-run remote prune"
	noUpdateUsage       = "skip the pre-run remote prune"
	updateIntervalUsage = "skip the pre-run prune if it last ran within N seconds; default 5; 0 disables"
	confirmUsage        = "enable the y/N confirmation prompt"
	noConfirmUsage      = "disable the y/N confirmation prompt"
	detachUsage         = "detach HEAD before deleting the checked-out branch"
	noDetachUsage       = "never detach HEAD, even if the checked-out branch would be deleted"
	dryRunUsage         = "print the plan; make no changes"
)

func registerTrimFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", configUsage)
	cmd.Flags().StringSliceP("bases", "b", nil, basesUsage)
	cmd.Flags().StringSliceP("protected", "p", nil, protectedUsage)
	cmd.Flags().StringP("delete", "d", "", deleteUsage)
	cmd.Flags().Bool("update", false, updateUsage)
	cmd.Flags().Bool("no-update", false, noUpdateUsage)
	cmd.Flags().Int("update-interval", 0, updateIntervalUsage)
	cmd.Flags().Bool("confirm", false, confirmUsage)
	cmd.Flags().Bool("no-confirm", false, noConfirmUsage)
	cmd.Flags().Bool("detach", false, detachUsage)
	cmd.Flags().Bool("no-detach", false, noDetachUsage)
	cmd.Flags().Bool("dry-run", false, dryRunUsage)
}

// cliOverridesFromFlags reads registerTrimFlags's flags into a
// config.CLIOverrides, using Changed to distinguish an explicit flag from
// cobra's zero value.
func cliOverridesFromFlags(cmd *cobra.Command) (config.CLIOverrides, error) {
	var ov config.CLIOverrides

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return ov, err
	}
	ov.ConfigPath = configPath

	bases, err := cmd.Flags().GetStringSlice("bases")
	if err != nil {
		return ov, err
	}
	ov.Bases = bases
	ov.BasesSet = cmd.Flags().Changed("bases")

	protected, err := cmd.Flags().GetStringSlice("protected")
	if err != nil {
		return ov, err
	}
	ov.Protected = protected
	ov.ProtSet = cmd.Flags().Changed("protected")

	del, err := cmd.Flags().GetString("delete")
	if err != nil {
		return ov, err
	}
	ov.Delete = del
	ov.DeleteSet = cmd.Flags().Changed("delete")

	ov.Update, _ = cmd.Flags().GetBool("update")
	ov.NoUpdate, _ = cmd.Flags().GetBool("no-update")

	interval, err := cmd.Flags().GetInt("update-interval")
	if err != nil {
		return ov, err
	}
	ov.UpdateInterval = time.Duration(interval) * time.Second
	ov.UpdateIntervalSet = cmd.Flags().Changed("update-interval")

	ov.Confirm, _ = cmd.Flags().GetBool("confirm")
	ov.NoConfirm, _ = cmd.Flags().GetBool("no-confirm")
	ov.Detach, _ = cmd.Flags().GetBool("detach")
	ov.NoDetach, _ = cmd.Flags().GetBool("no-detach")
	ov.DryRun, _ = cmd.Flags().GetBool("dry-run")

	return ov, nil
}
