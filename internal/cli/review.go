package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veredicto/veredicto/internal/feedback"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/review"
)

var (
	reviewLimit   int
	correctStatus string
	correctReason string
	correctorID   string
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Work the human review queue",
	Long: `Review lists claims the pipeline was not confident about, and records
human decisions on them. Approving keeps the machine verdict; correcting
overwrites it and feeds the correction back into the knowledge base.`,
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List claims awaiting review, highest priority first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		claims, err := review.NewService(st).Queue(reviewLimit)
		if err != nil {
			return err
		}
		if len(claims) == 0 {
			fmt.Println("Review queue is empty")
			return nil
		}

		for _, c := range claims {
			fmt.Printf("[%s] %s\n", c.ReviewPriority, c.ID)
			fmt.Printf("  %s\n", c.ClaimText)
			fmt.Printf("  verdict: %s (confidence %.2f, evidence %s)\n\n",
				c.Status, c.Confidence, c.EvidenceStrength)
		}
		return nil
	},
}

var reviewApproveCmd = &cobra.Command{
	Use:   "approve <claim-id>",
	Short: "Confirm a machine verdict and clear it from the queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := review.NewService(st).Approve(args[0]); err != nil {
			return err
		}
		fmt.Printf("Approved %s\n", args[0])
		return nil
	},
}

var reviewCorrectCmd = &cobra.Command{
	Use:   "correct <claim-id>",
	Short: "Override a verdict and propagate the correction",
	Long: `Correct overwrites a claim's verdict with a human decision. The
correction is recorded in the audit log, facts mined from the claim are
discounted, and the source domain's credibility is adjusted when the
corrected verdict is negative.

Example:
  veredicto review correct 4f1c2a... --status debunked --reason "Official budget figures contradict the claim" --by maria`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		status := model.ClaimStatus(correctStatus)
		if !model.ValidStatus(status) {
			return fmt.Errorf("invalid --status %q (verified, debunked, misleading, unverified)", correctStatus)
		}
		if correctorID == "" {
			return fmt.Errorf("--by is required")
		}

		if err := feedback.NewService(st, log).Apply(args[0], status, correctReason, correctorID); err != nil {
			return err
		}
		fmt.Printf("Corrected %s to %s\n", args[0], status)
		return nil
	},
}

var reviewShowCmd = &cobra.Command{
	Use:   "show <claim-id>",
	Short: "Show a claim with its findings and correction history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		claim, err := st.ClaimByID(args[0])
		if err != nil {
			return err
		}
		if err := printJSON(claim); err != nil {
			return err
		}

		corrections, err := st.CorrectionsForClaim(args[0])
		if err != nil {
			return err
		}
		for _, c := range corrections {
			fmt.Fprintf(os.Stderr, "correction %s: %s -> %s by %s (%s)\n",
				c.CreatedAt.Format("2006-01-02"), c.OriginalStatus, c.CorrectedStatus,
				c.CorrectorID, c.Reason)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewApproveCmd)
	reviewCmd.AddCommand(reviewCorrectCmd)
	reviewCmd.AddCommand(reviewShowCmd)

	reviewListCmd.Flags().IntVar(&reviewLimit, "limit", 20, "max claims to list")
	reviewCorrectCmd.Flags().StringVar(&correctStatus, "status", "", "corrected verdict (verified, debunked, misleading, unverified)")
	reviewCorrectCmd.Flags().StringVar(&correctReason, "reason", "", "why the verdict was corrected")
	reviewCorrectCmd.Flags().StringVar(&correctorID, "by", "", "reviewer identifier")
	_ = reviewCorrectCmd.MarkFlagRequired("status")
}
