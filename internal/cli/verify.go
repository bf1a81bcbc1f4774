package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/pipeline"
)

var (
	verifyText     string
	verifyPlatform string
	verifyAuthor   string
	verifyURL      string
	verifyTimeout  time.Duration
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [source-id]",
	Short: "Run one source through the full verification pipeline",
	Long: `Verify processes a single source end to end: claim extraction,
deduplication, evidence gathering, the analyst pool, and verdict
synthesis. The verdict is persisted and printed as JSON.

Pass the id of an ingested source, or --text to verify ad-hoc input
(which is ingested first, so the verdict lands in the same knowledge
base).

Example:
  veredicto verify 4f1c2a...
  veredicto verify --text "El ministro duplicó el presupuesto de salud" --platform twitter`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyText, "text", "", "verify this text instead of a stored source")
	verifyCmd.Flags().StringVar(&verifyPlatform, "platform", "manual", "platform label for --text input")
	verifyCmd.Flags().StringVar(&verifyAuthor, "author", "", "author label for --text input")
	verifyCmd.Flags().StringVar(&verifyURL, "url", "", "source URL for --text input")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 5*time.Minute, "overall verification timeout")
}

func runVerify(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (verifyText == "") {
		return fmt.Errorf("pass exactly one of a source id or --text")
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	var src *model.Source
	if verifyText != "" {
		src = &model.Source{
			ID:       uuid.NewString(),
			Platform: verifyPlatform,
			Content:  verifyText,
			Author:   verifyAuthor,
			URL:      verifyURL,
		}
		if err := a.store.InsertSource(*src); err != nil {
			return err
		}
	} else {
		src, err = a.store.SourceByID(args[0])
		if err != nil {
			return err
		}
	}

	result, err := a.pipe.ProcessSource(ctx, *src)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	switch result.Outcome {
	case pipeline.OutcomeNoClaim:
		fmt.Fprintf(os.Stderr, "No checkable claim found in source %s\n", src.ID)
		return nil
	case pipeline.OutcomeReused:
		fmt.Fprintf(os.Stderr, "Verdict reused from existing claim %s\n", result.Claim.ID)
	}

	return printJSON(result.Claim)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
