package display

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/locofilter/config"
	"github.com/teranos/locofilter/errors"
)

// ShouldOutputJSON determines if a command should output JSON based on flags and config
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return configJSON()
	}

	// Explicit --json on the command wins either way
	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	// Global --json flag
	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return configJSON()
}

func configJSON() bool {
	cfg, err := config.Load()
	return err == nil && cfg.Log.JSON
}

// OutputJSON marshals v with MarshalJSON and prints it to w
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
