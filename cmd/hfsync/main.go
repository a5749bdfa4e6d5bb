package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yaseminozkut/huggingface-sync-action/internal/action"
	"github.com/yaseminozkut/huggingface-sync-action/internal/hub"
	"github.com/yaseminozkut/huggingface-sync-action/internal/sync"
	"github.com/yaseminozkut/huggingface-sync-action/internal/utils"
	"github.com/yaseminozkut/huggingface-sync-action/internal/version"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:     "hfsync",
	Short:   "Sync a GitHub checkout to a Hugging Face Hub repository",
	Version: version.Detailed(),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := action.FromEnv()
		applyFlagOverrides(cmd, inputs)

		req, err := inputs.SyncRequest()
		if err != nil {
			return err
		}

		// all inputs are valid, errors past this point are operational
		cmd.SilenceUsage = true

		cfg := inputs.HubConfig()
		slog.Debug("hub client", "endpoint", cfg.Endpoint, "token", utils.MaskSecret(cfg.Token))

		client, err := hub.New(cfg)
		if err != nil {
			return err
		}

		syncer := sync.New(sync.NewHubStore(client))
		result, err := syncer.Sync(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), green("synced"), result.Repo.ID, "->", result.Repo.URL)
		if err := action.WriteOutput("repo_url", result.Repo.URL); err != nil {
			return err
		}
		if result.Commit != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "commit:", result.Commit.URL)
			return action.WriteOutput("commit_ref", result.Commit.OID)
		}
		return nil
	},
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().SortFlags = false
	cmd.Flags().StringP("repo-id", "r", "", "Hugging Face repo id (owner/name)")
	cmd.Flags().StringP("token", "t", "", "Hugging Face access token with write scope")
	cmd.Flags().StringP("dir", "d", "", "Directory to sync (defaults to the workspace root)")
	cmd.Flags().String("subdirectory", "", "Subdirectory of the workspace to sync")
	cmd.Flags().String("type", "", "Repo type: model, dataset or space (default space)")
	cmd.Flags().String("space-sdk", "", "Space runtime: gradio, streamlit, static or docker")
	cmd.Flags().Bool("private", false, "Create the repo as private")
	cmd.Flags().String("revision", "", "Branch to commit to (default main)")
	cmd.Flags().StringP("message", "m", "", "Commit message")
	cmd.Flags().Bool("delete-missing", false, "Also delete remote files that no longer exist locally")
	cmd.Flags().StringSlice("ignore", nil, "Extra ignore patterns")
	cmd.Flags().String("endpoint", "", "Hub endpoint url")
}

// applyFlagOverrides lets explicit flags win over environment inputs.
func applyFlagOverrides(cmd *cobra.Command, in *action.Inputs) {
	flags := cmd.Flags()

	if flags.Changed("repo-id") {
		in.HFRepoID, _ = flags.GetString("repo-id")
	}
	if flags.Changed("token") {
		in.Token, _ = flags.GetString("token")
	}
	if flags.Changed("dir") {
		in.Workspace, _ = flags.GetString("dir")
	}
	if flags.Changed("subdirectory") {
		in.Subdirectory, _ = flags.GetString("subdirectory")
	}
	if flags.Changed("type") {
		in.RepoType, _ = flags.GetString("type")
	}
	if flags.Changed("space-sdk") {
		in.SpaceSDK, _ = flags.GetString("space-sdk")
	}
	if flags.Changed("private") {
		private, _ := flags.GetBool("private")
		in.Private = strconv.FormatBool(private)
	}
	if flags.Changed("revision") {
		in.Revision, _ = flags.GetString("revision")
	}
	if flags.Changed("message") {
		in.CommitMessage, _ = flags.GetString("message")
	}
	if flags.Changed("delete-missing") {
		deleteMissing, _ := flags.GetBool("delete-missing")
		in.DeleteMissing = strconv.FormatBool(deleteMissing)
	}
	if flags.Changed("ignore") {
		patterns, _ := flags.GetStringSlice("ignore")
		in.IgnorePatterns = strings.Join(patterns, ",")
	}
	if flags.Changed("endpoint") {
		in.Endpoint, _ = flags.GetString("endpoint")
	}
}

func init() {
	registerFlags(rootCmd)
}

func main() {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("sync failed:"), err)
		os.Exit(1)
	}
}
