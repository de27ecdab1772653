package cmd

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ca-srg/hexocat/internal/github"
	"github.com/ca-srg/hexocat/internal/hexocat"
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword...]",
	Short: "Run one search and print the reply the slash command would post",
	Example: `  hexocat search linux
  HEXOCAT_REPLY_STYLE=rich hexocat search rust lang`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := github.NewClient(cfg.GitHubAPIURL, cfg.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	logger := log.New(cmd.ErrOrStderr(), "[search] ", log.LstdFlags)
	handler := hexocat.NewHandler(cfg, client, logger)

	reply := handler.Reply(cmd.Context(), strings.Join(args, " "))
	_, err = io.WriteString(cmd.OutOrStdout(), reply+"\n")
	return err
}
