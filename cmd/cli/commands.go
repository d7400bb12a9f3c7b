package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/extraction"
	"github.com/dvloznov/budget-tracker/internal/ledger"
	"github.com/dvloznov/budget-tracker/internal/notionsync"
	"github.com/dvloznov/budget-tracker/internal/review"
	"github.com/spf13/cobra"
)

var (
	imagePath   string
	commitAfter bool
	splitPeople int

	merchant     string
	amount       float64
	categoryName string
	categoryType string
	date         string
	recurring    bool

	listType   string
	dryRun     bool
	extractNow bool
	auditLimit int
	appliedBy  string
)

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Extract a transaction from text or a receipt image",
	Long: `Send free text or a receipt photo to the model and print the structured
transaction. With --commit the result is committed to the seeded budget.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit a transaction to the budget",
	Args:  cobra.NoArgs,
	RunE:  runCommit,
}

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Compute an even bill split and its UPI payment link",
	Args:  cobra.NoArgs,
	RunE:  runSplit,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List budget categories with totals",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var syncNotionCmd = &cobra.Command{
	Use:   "sync-notion",
	Short: "Export the budget categories to a Notion database",
	Args:  cobra.NoArgs,
	RunE:  runSyncNotion,
}

var uploadReceiptCmd = &cobra.Command{
	Use:   "upload-receipt <file>",
	Short: "Upload a receipt image to GCS",
	Args:  cobra.ExactArgs(1),
	RunE:  runUploadReceipt,
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent raw model outputs from BigQuery",
	Args:  cobra.NoArgs,
	RunE:  runAudit,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot-bigquery",
	Short: "Write the current categories to BigQuery as one snapshot",
	Args:  cobra.NoArgs,
	RunE:  runSnapshot,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate-bigquery",
	Short: "Create or update the BigQuery audit tables",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	extractCmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to a receipt image instead of text")
	extractCmd.Flags().BoolVar(&commitAfter, "commit", false, "Commit the extracted transaction")
	extractCmd.Flags().IntVar(&splitPeople, "split", 0, "Split the committed transaction among N people (payer included)")

	commitCmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name")
	commitCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Total amount")
	commitCmd.Flags().StringVarP(&categoryName, "category", "c", "", "Category name")
	commitCmd.Flags().StringVarP(&categoryType, "type", "t", string(domain.CategoryExpense), "Category type")
	commitCmd.Flags().StringVarP(&date, "date", "d", time.Now().Format(domain.DateLayout), "Transaction date (YYYY-MM-DD)")
	commitCmd.Flags().BoolVar(&recurring, "recurring", false, "Mark as a recurring bill")
	commitCmd.Flags().IntVar(&splitPeople, "split", 0, "Split among N people (payer included)")
	_ = commitCmd.MarkFlagRequired("amount")
	_ = commitCmd.MarkFlagRequired("category")

	splitCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Total amount")
	splitCmd.Flags().IntVarP(&splitPeople, "people", "n", 0, "Number of people, payer included")
	splitCmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant for the payment note")
	_ = splitCmd.MarkFlagRequired("amount")
	_ = splitCmd.MarkFlagRequired("people")

	categoriesCmd.Flags().StringVarP(&listType, "type", "t", "", "Only list categories of this type")

	syncNotionCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be synced without writing to Notion")

	uploadReceiptCmd.Flags().BoolVar(&extractNow, "extract", false, "Extract a transaction from the uploaded receipt")

	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "Number of outputs to show")

	migrateCmd.Flags().StringVar(&appliedBy, "applied-by", "budget-cli", "Name recorded in schema_migrations")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	in, err := extractionInput(args)
	if err != nil {
		return err
	}

	s, err := loadServices(ctx)
	if err != nil {
		return err
	}

	result, err := s.App.Extract(ctx, in)
	if err != nil {
		return err
	}
	if !commitAfter {
		return printJSON(cmd.OutOrStdout(), result)
	}

	out, err := s.App.CommitTransaction(ctx, result, splitPeople)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func extractionInput(args []string) (extraction.Input, error) {
	switch {
	case imagePath != "" && len(args) > 0:
		return extraction.Input{}, errors.New("give either text or --image, not both")
	case imagePath != "":
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return extraction.Input{}, fmt.Errorf("read image: %w", err)
		}
		return extraction.ImageInput(data, ""), nil
	case len(args) == 1 && strings.TrimSpace(args[0]) != "":
		return extraction.TextInput(args[0]), nil
	default:
		return extraction.Input{}, errors.New("text or --image is required")
	}
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := loadServices(ctx)
	if err != nil {
		return err
	}

	result := domain.ExtractionResult{
		Merchant:     merchant,
		Amount:       amount,
		CategoryName: categoryName,
		CategoryType: domain.CategoryType(categoryType),
		Date:         date,
		IsRecurring:  recurring,
	}
	out, err := s.App.CommitTransaction(ctx, result, splitPeople)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func runSplit(cmd *cobra.Command, args []string) error {
	payee := review.Payee{
		Address:  cfg.PayeeAddress,
		Name:     cfg.PayeeName,
		Currency: review.DefaultPayee.Currency,
	}
	split, err := review.ComputeSplit(payee, amount, splitPeople, merchant)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), split)
}

func runCategories(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := loadServices(ctx)
	if err != nil {
		return err
	}

	categories := s.App.Categories()
	if listType != "" {
		t, err := domain.ParseCategoryType(listType)
		if err != nil {
			return err
		}
		categories = s.App.Ledger().ByType(t)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tBUDGETED\tSPENT\tSTATUS")
	for _, c := range categories {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Type,
			domain.FormatINR(c.BudgetedAmount), domain.FormatINR(c.SpentAmount),
			ledger.Status(c))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	t := ledger.ComputeTotals(s.App.Categories())
	fmt.Fprintf(cmd.OutOrStdout(), "\nIncome %s  Expenses %s  Savings %s  Balance %s\n",
		domain.FormatINR(t.TotalIncome), domain.FormatINR(t.TotalExpenses),
		domain.FormatINR(t.TotalSavings), domain.FormatINR(t.Balance))
	return nil
}

func runSyncNotion(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if !cfg.HasNotion() {
		return errors.New("NOTION_TOKEN and NOTION_DATABASE_ID must be set")
	}
	s, err := loadServices(ctx)
	if err != nil {
		return err
	}

	log.Info().Str("database_id", cfg.NotionDatabaseID).Bool("dry_run", dryRun).Msg("Starting Notion sync")

	res, err := notionsync.SyncCategories(ctx, s.Notion, cfg.NotionDatabaseID, s.App.Categories(), dryRun)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %d, updated %d, archived %d, failed %d\n",
		res.Created, res.Updated, res.Archived, res.Failed)
	if res.Failed > 0 {
		return fmt.Errorf("%d categories failed to sync", res.Failed)
	}
	return nil
}

func runUploadReceipt(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := loadServices(ctx)
	if err != nil {
		return err
	}

	uri, err := s.App.UploadReceipt(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to %s\n", args[0], uri)

	if !extractNow {
		return nil
	}
	session, err := s.App.ExtractFromReceipt(ctx, uri)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), session.Draft)
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := loadServices(ctx)
	if err != nil {
		return err
	}
	if s.BigQuery == nil {
		return errors.New("BIGQUERY_PROJECT and BIGQUERY_DATASET must be set")
	}

	outputs, err := s.BigQuery.ListRecentModelOutputs(ctx, auditLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tMODEL\tINPUT\tERROR\tOUTPUT")
	for _, o := range outputs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			o.CreatedAt.Format(time.RFC3339), o.ModelName, o.InputKind, o.Error, oneLine(o.RawText, 80))
	}
	return w.Flush()
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := loadServices(ctx)
	if err != nil {
		return err
	}
	if s.BigQuery == nil {
		return errors.New("BIGQUERY_PROJECT and BIGQUERY_DATASET must be set")
	}

	id, err := s.BigQuery.SnapshotCategories(ctx, s.App.Categories())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s written\n", id)
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := loadServices(ctx)
	if err != nil {
		return err
	}
	if s.BigQuery == nil {
		return errors.New("BIGQUERY_PROJECT and BIGQUERY_DATASET must be set")
	}

	n, err := s.BigQuery.Migrate(ctx, appliedBy, log)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No new migrations to apply. Dataset is up to date.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Successfully applied %d migration(s)\n", n)
	return nil
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
