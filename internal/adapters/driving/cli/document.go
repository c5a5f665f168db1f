package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docuflow-labs/docuflow-cli/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents in the workflow",
	Long:  `List, view, create, and act on documents in the review workflow.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [document-id]",
	Short: "Show a document with versions and available actions",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a document with its initial version",
	RunE:  runDocumentCreate,
}

var documentActionCmd = &cobra.Command{
	Use:       "action [document-id] [approve|reject|archive|esign]",
	Short:     "Apply a workflow action",
	Args:      cobra.ExactArgs(2),
	RunE:      runDocumentAction,
	ValidArgs: []string{"approve", "reject", "archive", "esign"},
}

var documentApproveCmd = &cobra.Command{
	Use:   "approve [document-id]",
	Short: "Approve a pending document",
	Args:  cobra.ExactArgs(1),
	RunE:  actionRunner(domain.ActionApprove),
}

var documentRejectCmd = &cobra.Command{
	Use:   "reject [document-id]",
	Short: "Reject a pending document",
	Args:  cobra.ExactArgs(1),
	RunE:  actionRunner(domain.ActionReject),
}

var documentArchiveCmd = &cobra.Command{
	Use:   "archive [document-id]",
	Short: "Archive a signed document",
	Args:  cobra.ExactArgs(1),
	RunE:  actionRunner(domain.ActionArchive),
}

var documentSaveCmd = &cobra.Command{
	Use:   "save [document-id]",
	Short: "Replace a document's upload and metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentSave,
}

var documentResubmitCmd = &cobra.Command{
	Use:   "resubmit [document-id]",
	Short: "Upload a new version of a pending or rejected document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentResubmit,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document and all of its versions",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users for assignee selection",
	RunE:  runDocumentUsers,
}

// Flags for document create, save and resubmit.
var (
	createTitle       string
	createDescription string
	createAssignee    string
	createFile        string
	saveTitle         string
	saveDescription   string
	saveFile          string
	resubmitFile      string
)

func init() {
	documentCreateCmd.Flags().StringVar(&createTitle, "title", "", "Document title (required)")
	documentCreateCmd.Flags().StringVar(&createDescription, "description", "", "Optional description")
	documentCreateCmd.Flags().StringVar(&createAssignee, "assignee", "", "Assignee user ID (required)")
	documentCreateCmd.Flags().StringVar(&createFile, "file", "", "Path to the initial version file (required)")

	documentSaveCmd.Flags().StringVar(&saveTitle, "title", "", "New document title (required)")
	documentSaveCmd.Flags().StringVar(&saveDescription, "description", "", "Optional description")
	documentSaveCmd.Flags().StringVar(&saveFile, "file", "", "Path to the replacement file (required)")

	documentResubmitCmd.Flags().StringVar(&resubmitFile, "file", "", "Path to the new version file (required)")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentCreateCmd)
	documentCmd.AddCommand(documentActionCmd)
	documentCmd.AddCommand(documentApproveCmd)
	documentCmd.AddCommand(documentRejectCmd)
	documentCmd.AddCommand(documentArchiveCmd)
	documentCmd.AddCommand(documentSaveCmd)
	documentCmd.AddCommand(documentResubmitCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentUsersCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}

	docs, err := lifecycleService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("%s  %-9s  %s\n", doc.DocumentID, doc.Status, doc.Title)
	}
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}

	doc, err := lifecycleService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	printDocument(cmd, doc)
	return nil
}

func runDocumentCreate(cmd *cobra.Command, _ []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}

	draft := domain.DocumentDraft{
		Title:       createTitle,
		Description: createDescription,
		AssigneeID:  createAssignee,
	}
	if createFile != "" {
		file, err := readUpload(createFile)
		if err != nil {
			return err
		}
		draft.File = file
	}

	doc, err := lifecycleService.Create(context.Background(), draft)
	if err != nil {
		return err
	}

	cmd.Printf("Created document %s (%s)\n", doc.DocumentID, doc.Status)
	return nil
}

func runDocumentAction(cmd *cobra.Command, args []string) error {
	action, err := domain.ParseAction(args[1])
	if err != nil {
		return fmt.Errorf("unknown action %q", args[1])
	}
	return applyAction(cmd, args[0], action)
}

// actionRunner builds the RunE for the action shortcut commands.
func actionRunner(action domain.Action) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return applyAction(cmd, args[0], action)
	}
}

func applyAction(cmd *cobra.Command, documentID string, action domain.Action) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}

	ctx := context.Background()
	doc, err := lifecycleService.Get(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	updated, err := lifecycleService.Apply(ctx, doc, action)
	if err != nil {
		if errors.Is(err, domain.ErrActionRejected) && updated != nil {
			// The snapshot was stale; show what the server actually holds.
			cmd.Printf("Action %s rejected; document is now %s\n", action, updated.Status)
			printAffordances(cmd, updated)
		}
		return err
	}

	cmd.Printf("Document %s is now %s\n", updated.DocumentID, updated.Status)
	return nil
}

func runDocumentSave(cmd *cobra.Command, args []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}
	if saveFile == "" {
		return errors.New("--file is required")
	}

	file, err := readUpload(saveFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	doc, err := lifecycleService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	updated, err := lifecycleService.Save(ctx, doc, domain.DocumentDraft{
		Title:       saveTitle,
		Description: saveDescription,
		File:        file,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Saved document %s (status %s)\n", updated.DocumentID, updated.Status)
	return nil
}

func runDocumentResubmit(cmd *cobra.Command, args []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}
	if resubmitFile == "" {
		return errors.New("--file is required")
	}

	file, err := readUpload(resubmitFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	doc, err := lifecycleService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	updated, err := lifecycleService.Resubmit(ctx, doc, file)
	if err != nil {
		return err
	}

	latest, _ := updated.LatestVersion()
	cmd.Printf("Uploaded version %d of %s (status %s)\n", latest.VersionNumber, updated.DocumentID, updated.Status)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}

	if err := lifecycleService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

func runDocumentUsers(cmd *cobra.Command, _ []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}

	users, err := lifecycleService.Users(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range users {
		cmd.Printf("%s  %s\n", u.UserID, u.Email)
	}
	return nil
}

// printDocument renders one document with its versions and the actions
// the server currently allows.
func printDocument(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("ID:       %s\n", doc.DocumentID)
	cmd.Printf("Title:    %s\n", doc.Title)
	if doc.Description != "" {
		cmd.Printf("About:    %s\n", doc.Description)
	}
	cmd.Printf("Status:   %s\n", doc.Status)
	cmd.Printf("Creator:  %s\n", doc.CreatedBy)
	if doc.AssignedTo != nil {
		cmd.Printf("Assignee: %s\n", *doc.AssignedTo)
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("Tags:     %s\n", strings.Join(doc.Tags, ", "))
	}

	if len(doc.Versions) > 0 {
		cmd.Println("Versions:")
		for _, v := range doc.Versions {
			cmd.Printf("  v%-3d %s  (%s)\n", v.VersionNumber, v.FileName, v.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	printAffordances(cmd, doc)
}

// printAffordances renders only the server-permitted actions.
func printAffordances(cmd *cobra.Command, doc *domain.Document) {
	actions := domain.Affordances(doc)
	if len(actions) == 0 {
		cmd.Println("Actions:  none available")
		return
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	cmd.Printf("Actions:  %s\n", strings.Join(names, ", "))
}

// readUpload loads a local file for a multipart upload.
func readUpload(path string) (domain.FileUpload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.FileUpload{}, fmt.Errorf("read file: %w", err)
	}
	return domain.FileUpload{Name: filepath.Base(path), Content: content}, nil
}
