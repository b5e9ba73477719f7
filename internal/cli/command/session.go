// Package command provides CLI command definitions for airsig-cli.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/airsig/airsig-go/internal/cli/connection"
	"github.com/airsig/airsig-go/internal/cli/output"
)

// sessionView mirrors the server's session payload.
type sessionView struct {
	ID          string `json:"id"`
	GestureHash string `json:"gesture_hash" table:"wide"`
	SenderID    string `json:"sender_id" table:"wide"`
	DataType    string `json:"data_type"`
	DataTitle   string `json:"data_title,omitempty"`
	Content     string `json:"content,omitempty"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at" table:"wide"`
	ExpiresAt   int64  `json:"expires_at"`
	MatchedAt   int64  `json:"matched_at,omitempty" table:"wide"`
	CompletedAt int64  `json:"completed_at,omitempty" table:"wide"`
}

// SendCommand publishes a payload behind a recorded gesture.
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Create a session from a gesture trace and a payload",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "trace",
				Aliases:  []string{"t"},
				Usage:    "Gesture trace JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "type",
				Value: "text",
				Usage: "Payload type (text, contact, credentials, link)",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Payload title shown to the receiver",
			},
			&cli.StringFlag{
				Name:  "content",
				Usage: "Payload content",
			},
			&cli.StringFlag{
				Name:  "content-file",
				Usage: "Read payload content from a file",
			},
		},
		Action: sessionSend,
	}
}

func sessionSend(c *cli.Context) error {
	points, err := LoadTrace(c.String("trace"))
	if err != nil {
		return err
	}

	content := c.String("content")
	if path := c.String("content-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read content file: %w", err)
		}
		content = string(data)
	}
	if content == "" {
		return fmt.Errorf("payload content required (--content or --content-file)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body := map[string]any{
		"points": points,
		"data": map[string]string{
			"type":    c.String("type"),
			"title":   c.String("title"),
			"content": content,
		},
	}

	resp, err := NewClient(c).Post(ctx, "/v1/sessions", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		SessionID   string `json:"session_id"`
		GestureHash string `json:"gesture_hash"`
		Status      string `json:"status"`
		ExpiresAt   int64  `json:"expires_at"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(os.Stdout, result)
	}

	fmt.Printf("Session created:\n")
	fmt.Printf("  Session ID: %s\n", result.SessionID)
	fmt.Printf("  Signature:  %s\n", result.GestureHash)
	fmt.Printf("  Expires:    %s\n", formatMillis(result.ExpiresAt))
	fmt.Printf("\nThe receiver must replay the gesture before it expires.\n")
	return nil
}

// ReceiveCommand claims a waiting session by replaying a gesture.
func ReceiveCommand() *cli.Command {
	return &cli.Command{
		Name:  "receive",
		Usage: "Claim a waiting session by replaying its gesture",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "trace",
				Aliases:  []string{"t"},
				Usage:    "Gesture trace JSON file",
				Required: true,
			},
		},
		Action: sessionReceive,
	}
}

func sessionReceive(c *cli.Context) error {
	points, err := LoadTrace(c.String("trace"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := NewClient(c).Post(ctx, "/v1/sessions/match", map[string]any{
		"points": points,
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Matched bool         `json:"matched"`
		Session *sessionView `json:"session"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(os.Stdout, result)
	}

	if !result.Matched {
		fmt.Println("No waiting session matched the gesture.")
		return nil
	}

	s := result.Session
	fmt.Printf("Matched session %s\n", s.ID)
	if s.DataTitle != "" {
		fmt.Printf("  Title: %s\n", s.DataTitle)
	}
	fmt.Printf("  Type:  %s\n", s.DataType)
	fmt.Printf("  Content:\n%s\n", s.Content)
	fmt.Printf("\nRun 'airsig-cli complete %s' to acknowledge delivery.\n", s.ID)
	return nil
}

// CompleteCommand acknowledges delivery of a matched session.
func CompleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Acknowledge delivery of a matched session",
		ArgsUsage: "SESSION_ID",
		Action:    sessionComplete,
	}
}

func sessionComplete(c *cli.Context) error {
	sessionID := c.Args().First()
	if sessionID == "" {
		return fmt.Errorf("session ID required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := NewClient(c).Post(ctx, "/v1/sessions/"+sessionID+"/complete", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		SessionID   string `json:"session_id"`
		Status      string `json:"status"`
		CompletedAt int64  `json:"completed_at"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Printf("Session %s completed at %s.\n", result.SessionID, formatMillis(result.CompletedAt))
	return nil
}

// StatusCommand shows a session's current state.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show session details",
		ArgsUsage: "SESSION_ID",
		Action:    sessionStatus,
	}
}

func sessionStatus(c *cli.Context) error {
	sessionID := c.Args().First()
	if sessionID == "" {
		return fmt.Errorf("session ID required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := NewClient(c).Get(ctx, "/v1/sessions/"+sessionID)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result sessionView
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
	return formatter.Format(os.Stdout, result)
}

// WatchCommand follows a session's status over SSE until it reaches a
// terminal state.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Follow session status changes until completion or expiry",
		ArgsUsage: "SESSION_ID",
		Action:    sessionWatch,
	}
}

func sessionWatch(c *cli.Context) error {
	sessionID := c.Args().First()
	if sessionID == "" {
		return fmt.Errorf("session ID required")
	}

	flags := ParseGlobalFlags(c)
	jsonOut := output.Format(flags.Output) == output.FormatJSON

	return NewClient(c).Stream(c.Context, "/v1/sessions/"+sessionID+"/events",
		func(event string, data []byte) error {
			if jsonOut {
				fmt.Println(string(data))
				return nil
			}
			var s sessionView
			if err := json.Unmarshal(data, &s); err != nil {
				return fmt.Errorf("parse event: %w", err)
			}
			fmt.Printf("%s  %s\n", time.Now().Format("15:04:05"), s.Status)
			return nil
		})
}

// formatMillis renders a UnixMilli timestamp in local time.
func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}
