package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suzukaplayer/resilience/internal/engine/classify"
	"github.com/suzukaplayer/resilience/internal/engine/policy"
)

// classifyCmd is a quick check for how an error message would be handled.
var classifyCmd = &cobra.Command{
	Use:   "classify <message>",
	Short: "Classify an error message and show its retry policy",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		message := strings.Join(args, " ")
		kind := classify.New().Classify(message, "")
		p := policy.DefaultTable().Policy(kind)

		fmt.Printf("kind:        %s\n", kind)
		fmt.Printf("max retries: %d\n", p.MaxRetries)
		if p.MaxRetries > 0 {
			fmt.Printf("backoff:     %v base, x%.1f up to %v\n", p.BaseDelay, p.Multiplier, p.MaxDelay)
		}
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
