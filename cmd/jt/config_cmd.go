package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jtcli/jt/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: GroupSetup,
	Short:   "Show the effective configuration (auth token masked)",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(showConfig(os.Stdout, cfg, jsonOutput))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configView is the --json form of the configuration.
type configView struct {
	File      string   `json:"file,omitempty"`
	Domain    string   `json:"domain"`
	Auth      string   `json:"auth"`
	Editor    string   `json:"editor"`
	CacheDir  string   `json:"cache_dir"`
	IssueType string   `json:"issue_type"`
	Status    []string `json:"status"`
}

func showConfig(w io.Writer, c *config.Config, asJSON bool) error {
	r := c.Redacted()
	if asJSON {
		return writeJSON(w, configView{
			File:      r.File,
			Domain:    r.Domain,
			Auth:      r.Auth,
			Editor:    c.EditorCommand(),
			CacheDir:  r.CacheDir,
			IssueType: r.IssueType,
			Status:    c.Status(),
		})
	}

	if r.File != "" {
		fmt.Fprintf(w, "# %s\n", r.File)
	}
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
