package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"folio/internal/clix"
	"folio/internal/models"
	"folio/internal/services"
	"folio/internal/util"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	contentTitle       string
	contentDescription string
	contentBody        string
	contentFile        string
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage searchable portfolio content",
}

var contentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a content record",
	Long: `Adds a project, service or page. The body comes from --body or from a text file given with --file;
the title defaults to the file's base name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		in, err := contentInputFromFlags(cmd)
		if err != nil {
			return err
		}

		c, err := appInstance.ContentService.AddContent(cmd.Context(), in)
		if err != nil {
			printValidation(err)
			return fmt.Errorf("failed to add content: %w", err)
		}
		fmt.Printf("%s content %d: %s\n", color.GreenString("Added"), c.ID, c.Title)
		return nil
	},
}

var contentUpdateCmd = &cobra.Command{
	Use:   "update [content_id]",
	Short: "Replace a content record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseContentID(args[0])
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		in, err := contentInputFromFlags(cmd)
		if err != nil {
			return err
		}

		c, err := appInstance.ContentService.UpdateContent(cmd.Context(), id, in)
		if err != nil {
			printValidation(err)
			return fmt.Errorf("failed to update content %d: %w", id, err)
		}
		fmt.Printf("%s content %d: %s\n", color.GreenString("Updated"), c.ID, c.Title)
		return nil
	},
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List content records, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}
		category, err := clix.ParseCategory(cmd.Flags())
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		items, err := appInstance.ContentService.ListContent(cmd.Context(), services.ListContentParams{
			Limit:    pagination.Limit,
			Offset:   pagination.Offset,
			Category: category,
		})
		if err != nil {
			return fmt.Errorf("failed to list content: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("No content found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Category", "Title", "Tags", "Updated"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, c := range items {
			table.Append([]string{
				strconv.FormatInt(c.ID, 10),
				string(c.Category),
				c.Title,
				strings.Join(c.Tags, ", "),
				c.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

var contentGetCmd = &cobra.Command{
	Use:   "get [content_id]",
	Short: "Show one content record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseContentID(args[0])
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		c, err := appInstance.ContentService.GetContent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get content %d: %w", id, err)
		}

		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s %d\n", bold("ID:"), c.ID)
		fmt.Printf("%s %s\n", bold("Title:"), c.Title)
		fmt.Printf("%s %s\n", bold("Category:"), c.Category)
		if c.Description != "" {
			fmt.Printf("%s %s\n", bold("Description:"), c.Description)
		}
		if len(c.Tags) > 0 {
			fmt.Printf("%s %s\n", bold("Tags:"), strings.Join(c.Tags, ", "))
		}
		fmt.Printf("%s %s\n", bold("Created:"), c.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("%s %s\n\n", bold("Updated:"), c.UpdatedAt.Format("2006-01-02 15:04:05"))
		fmt.Println(c.Content)
		return nil
	},
}

var contentDeleteCmd = &cobra.Command{
	Use:   "delete [content_id]",
	Short: "Delete a content record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseContentID(args[0])
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if err := appInstance.ContentService.DeleteContent(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete content %d: %w", id, err)
		}
		fmt.Printf("%s content %d\n", color.YellowString("Deleted"), id)
		return nil
	},
}

func parseContentID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid content ID provided: %q, please provide a positive number", s)
	}
	return id, nil
}

func contentInputFromFlags(cmd *cobra.Command) (services.ContentInput, error) {
	tags, err := clix.ParseTags(cmd.Flags())
	if err != nil {
		return services.ContentInput{}, err
	}
	category, err := clix.ParseCategory(cmd.Flags())
	if err != nil {
		return services.ContentInput{}, err
	}

	body, title := contentBody, contentTitle
	switch {
	case contentFile != "" && body != "":
		return services.ContentInput{}, errors.New("use either --body or --file, not both")
	case contentFile != "":
		body, err = util.ReadTextFile(contentFile)
		if err != nil {
			return services.ContentInput{}, err
		}
		if title == "" {
			base := filepath.Base(contentFile)
			title = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}

	return services.ContentInput{
		Title:       title,
		Description: contentDescription,
		Content:     body,
		Category:    category,
		Tags:        tags,
	}, nil
}

func printValidation(err error) {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, f := range verr.Fields {
		fmt.Fprintf(os.Stderr, "  - %s: %s\n", color.RedString(f.Field), f.Message)
	}
}

func init() {
	for _, c := range []*cobra.Command{contentAddCmd, contentUpdateCmd} {
		c.Flags().StringVarP(&contentTitle, "title", "t", "", "Content title (defaults to the --file base name)")
		c.Flags().StringVarP(&contentDescription, "description", "d", "", "Short description")
		c.Flags().StringVar(&contentBody, "body", "", "Content body text")
		c.Flags().StringVarP(&contentFile, "file", "f", "", "Read the body from a text or markdown file")
		c.Flags().StringP("category", "c", "", "One of project, service or page")
		c.Flags().String("tags", "", "Comma separated tags")
		_ = c.MarkFlagRequired("category")
	}

	contentListCmd.Flags().IntP("limit", "n", services.DefaultListLimit, "Maximum number of records")
	contentListCmd.Flags().Int("offset", 0, "Records to skip")
	contentListCmd.Flags().StringP("category", "c", "", "Only list this category")

	contentCmd.AddCommand(contentAddCmd, contentUpdateCmd, contentListCmd, contentGetCmd, contentDeleteCmd)
	rootCmd.AddCommand(contentCmd)
}
