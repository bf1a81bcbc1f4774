package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veredicto/veredicto/internal/model"
)

var (
	claimsStatus string
	claimsQuery  string
	claimsLimit  int
	connDepth    int
)

// claimsCmd represents the claims command
var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Query verified claims",
}

var claimsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List claims, newest first",
	Long: `List claims with optional filters.

Example:
  veredicto claims list --status debunked
  veredicto claims list --query presupuesto --limit 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		status := model.ClaimStatus(claimsStatus)
		if claimsStatus != "" && !model.ValidStatus(status) {
			return fmt.Errorf("invalid --status %q", claimsStatus)
		}

		claims, err := st.ListClaims(status, claimsQuery, claimsLimit)
		if err != nil {
			return err
		}
		if len(claims) == 0 {
			fmt.Println("No matching claims")
			return nil
		}
		for _, c := range claims {
			fmt.Printf("%s  %-11s %.2f  %s\n", c.CreatedAt.Format("2006-01-02"), c.Status, c.Confidence, c.ClaimText)
		}
		return nil
	},
}

var claimsShowCmd = &cobra.Command{
	Use:   "show <claim-id>",
	Short: "Show one claim as JSON",
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
		return printJSON(claim)
	},
}

// credibilityCmd represents the credibility command
var credibilityCmd = &cobra.Command{
	Use:   "credibility <domain>",
	Short: "Show the verdict track record for a source domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		cred, err := st.Credibility(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d claims, %d verified, %d debunked, score %.2f\n",
			cred.Domain, cred.TotalClaims, cred.VerifiedCount, cred.DebunkedCount, cred.CredibilityScore)
		return nil
	},
}

// connectionsCmd represents the connections command
var connectionsCmd = &cobra.Command{
	Use:   "connections <entity>",
	Short: "Show entities co-mentioned with an entity across claims",
	Long: `Connections walks the claim graph outward from an entity: every claim
mentioning it links it to the other entities in those claims, out to
--depth hops.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		connected, err := st.Connections(args[0], connDepth)
		if err != nil {
			return err
		}
		if len(connected) == 0 {
			fmt.Println("No connections on record")
			return nil
		}
		for _, e := range connected {
			fmt.Printf("%-12s %s\n", e.Type, e.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(claimsCmd)
	rootCmd.AddCommand(credibilityCmd)
	rootCmd.AddCommand(connectionsCmd)
	claimsCmd.AddCommand(claimsListCmd)
	claimsCmd.AddCommand(claimsShowCmd)

	claimsListCmd.Flags().StringVar(&claimsStatus, "status", "", "filter by verdict status")
	claimsListCmd.Flags().StringVar(&claimsQuery, "query", "", "substring filter over claim text")
	claimsListCmd.Flags().IntVar(&claimsLimit, "limit", 50, "max claims to list")
	connectionsCmd.Flags().IntVar(&connDepth, "depth", 1, "graph hops to walk")
}
