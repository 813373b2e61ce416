package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zachkp/kussetech/internal/content"
	"github.com/Zachkp/kussetech/internal/integrations/openai"
	"github.com/Zachkp/kussetech/internal/repository"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Drafts site copy with the OpenAI API",
	Long: `generate asks a chat model for draft copy. Nothing is written back to the
site content; the result is printed for review. Requires OPENAI_API_KEY.`,
}

var generateProjectCmd = &cobra.Command{
	Use:   "project <id>",
	Short: "Drafts a description for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid project id %q", args[0])
		}
		store, err := content.Load(logger)
		if err != nil {
			return err
		}
		project, ok := repository.NewProjectRepository(store).ByID(id)
		if !ok {
			return fmt.Errorf("project %d not found", id)
		}

		text, err := newGenerator().ProjectDescription(cmd.Context(), project.Title, project.Technologies)
		if err != nil {
			return generateError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var generateServiceCmd = &cobra.Command{
	Use:   "service <index>",
	Short: "Rewrites the description of a service (0-based index)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := content.Load(logger)
		if err != nil {
			return err
		}
		services := repository.NewServiceRepository(store).All()
		i, err := strconv.Atoi(args[0])
		if err != nil || i < 0 || i >= len(services) {
			return fmt.Errorf("service index must be between 0 and %d", len(services)-1)
		}

		text, err := newGenerator().ServiceDescription(cmd.Context(), services[i].Title, services[i].Description)
		if err != nil {
			return generateError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var generateOutlineCmd = &cobra.Command{
	Use:   "outline <topic>",
	Short: "Drafts a blog post outline",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outline, err := newGenerator().BlogOutline(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return generateError(err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(outline)
	},
}

func init() {
	generateCmd.AddCommand(generateProjectCmd, generateServiceCmd, generateOutlineCmd)
	rootCmd.AddCommand(generateCmd)
}

func newGenerator() *openai.Client {
	return openai.New(openai.Options{
		APIKey:  appConfig.OpenAIAPIKey,
		Timeout: appConfig.OutboundTimeout,
	})
}

func generateError(err error) error {
	if errors.Is(err, openai.ErrDisabled) {
		return errors.New("content generation is disabled: set OPENAI_API_KEY")
	}
	return err
}
