package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	turnSet, turnLeg, turnRound, turnScore, turnDarts int
	turnPlayer                                        string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(turnCmd)
	rootCmd.AddCommand(updateTurnCmd)
	rootCmd.AddCommand(deleteTurnCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(deleteMatchCmd)
	rootCmd.AddCommand(reloadCheckoutsCmd)

	for _, cmd := range []*cobra.Command{turnCmd, updateTurnCmd} {
		cmd.Flags().IntVar(&turnSet, "set", 1, "Set number")
		cmd.Flags().IntVar(&turnLeg, "leg", 1, "Leg number")
		cmd.Flags().IntVar(&turnRound, "round", 1, "Round number")
		cmd.Flags().StringVar(&turnPlayer, "player", "", "Player id")
		cmd.Flags().IntVar(&turnScore, "score", 0, "Score of the turn")
		cmd.Flags().IntVar(&turnDarts, "darts", 3, "Darts thrown")
		cmd.MarkFlagRequired("player")
	}
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Get the persisted counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/stats", nil)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the matches the server has views for",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches", nil)
	},
}

var viewCmd = &cobra.Command{
	Use:   "view [match-id]",
	Short: "Show every view derived for a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, matchPath(args[0], ""), nil)
	},
}

var timelineCmd = &cobra.Command{
	Use:   "timeline [match-id]",
	Short: "Show the standings after every leg of a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, matchPath(args[0], "/timeline"), nil)
	},
}

var cardsCmd = &cobra.Command{
	Use:   "cards [match-id]",
	Short: "Show the player cards of every leg of a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, matchPath(args[0], "/cards"), nil)
	},
}

var tableCmd = &cobra.Command{
	Use:   "table [match-id] [set] [leg]",
	Short: "Show a leg's table, or the leg in play when set and leg are omitted",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch len(args) {
		case 1:
			return performRequest(http.MethodGet, matchPath(args[0], "/table"), nil)
		case 3:
			return performRequest(http.MethodGet, matchPath(args[0], fmt.Sprintf("/sets/%s/legs/%s/table", url.PathEscape(args[1]), url.PathEscape(args[2]))), nil)
		default:
			return fmt.Errorf("pass both set and leg, or neither")
		}
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout [remaining]",
	Short: "Suggest a checkout, or print the whole table without an argument",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return performRequest(http.MethodGet, "/checkouts", nil)
		}
		if _, err := strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("remaining must be a number: %w", err)
		}
		return performRequest(http.MethodGet, "/checkouts/"+args[0], nil)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [match-id]",
	Short: "Pull a match from the backend and rebuild its views",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, matchPath(args[0], "/refresh"), nil)
	},
}

var turnCmd = &cobra.Command{
	Use:   "turn [match-id]",
	Short: "Submit a turn to the backend through the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := turnBody()
		if err != nil {
			return err
		}
		return performRequest(http.MethodPost, matchPath(args[0], "/turns"), body)
	},
}

var updateTurnCmd = &cobra.Command{
	Use:   "update-turn [match-id] [request-id]",
	Short: "Replace a previously submitted turn",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := turnBody()
		if err != nil {
			return err
		}
		return performRequest(http.MethodPut, matchPath(args[0], "/turns/"+url.PathEscape(args[1])), body)
	},
}

var deleteTurnCmd = &cobra.Command{
	Use:   "delete-turn [match-id] [set] [leg] [round] [player]",
	Short: "Delete one player's turn in a round",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, name := range []string{"set", "leg", "round"} {
			if _, err := strconv.Atoi(args[i+1]); err != nil {
				return fmt.Errorf("%s must be a number: %w", name, err)
			}
		}
		return performRequest(http.MethodDelete, matchPath(args[0], fmt.Sprintf("/turns/%s/%s/%s/%s",
			args[1], args[2], args[3], url.PathEscape(args[4]))), nil)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [match-id]",
	Short: "Clear every turn of a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, matchPath(args[0], "/reset"), nil)
	},
}

var deleteMatchCmd = &cobra.Command{
	Use:   "delete [match-id]",
	Short: "Delete a match and drop its views",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, matchPath(args[0], ""), nil)
	},
}

var reloadCheckoutsCmd = &cobra.Command{
	Use:   "reload-checkouts",
	Short: "Drop the cached checkout table and fetch it again",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/checkouts/reload", nil)
	},
}

func turnBody() ([]byte, error) {
	return json.Marshal(map[string]any{
		"setNumber":   turnSet,
		"legNumber":   turnLeg,
		"roundNumber": turnRound,
		"playerId":    turnPlayer,
		"score":       turnScore,
		"dartsUsed":   turnDarts,
	})
}

func matchPath(matchID, suffix string) string {
	return "/matches/" + url.PathEscape(matchID) + suffix
}

func performRequest(method, endpoint string, body []byte) error {
	target := host + endpoint
	if dryRun {
		target += "?dry_run=true"
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
