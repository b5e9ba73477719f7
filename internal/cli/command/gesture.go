// Package command provides CLI command definitions for airsig-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/airsig/airsig-go/internal/cli/connection"
	"github.com/airsig/airsig-go/internal/cli/output"
)

// ScoreCommand scores a gesture trace against the template catalog.
func ScoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "Score a gesture trace against the template catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "trace",
				Aliases:  []string{"t"},
				Usage:    "Gesture trace JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "Score against a single template ID",
			},
		},
		Action: gestureScore,
	}
}

func gestureScore(c *cli.Context) error {
	points, err := LoadTrace(c.String("trace"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{"points": points}
	if id := c.String("template"); id != "" {
		body["template_id"] = id
	}

	resp, err := NewClient(c).Post(ctx, "/v1/gestures/score", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	type templateScore struct {
		TemplateID string  `json:"template_id"`
		Name       string  `json:"name"`
		Similarity float64 `json:"similarity"`
	}
	var result struct {
		Signature string          `json:"signature"`
		Scores    []templateScore `json:"scores"`
		Best      *templateScore  `json:"best"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(os.Stdout, result)
	}

	fmt.Printf("Signature: %s\n\n", result.Signature)
	table := &output.Table{Headers: []string{"TEMPLATE", "NAME", "SIMILARITY"}}
	for _, s := range result.Scores {
		table.Rows = append(table.Rows, []string{
			s.TemplateID, s.Name, fmt.Sprintf("%.3f", s.Similarity),
		})
	}
	if err := table.Render(os.Stdout); err != nil {
		return err
	}

	if result.Best != nil {
		fmt.Printf("\nBest match: %s (%.3f)\n", result.Best.Name, result.Best.Similarity)
	} else {
		fmt.Printf("\nNo template cleared the match floor.\n")
	}
	return nil
}
