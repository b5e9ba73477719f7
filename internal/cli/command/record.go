// Package command provides CLI command definitions for airsig-cli.
package command

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/airsig/airsig-go/internal/core/domain"
	"github.com/airsig/airsig-go/internal/core/service"
)

// RecordCommand captures a gesture trace from a point stream.
func RecordCommand() *cli.Command {
	return &cli.Command{
		Name:  "record",
		Usage: "Capture a gesture trace from a point stream",
		Description: "Reads \"x y [timestampMillis]\" lines from stdin or a file and runs\n" +
			"them through the capture policy: points closer together than the\n" +
			"minimum spacing are dropped, a long gap stops the recording, and a\n" +
			"recording never exceeds the hard duration cap. The accepted points\n" +
			"are written as a trace file usable with send, receive and score.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Point stream file (default: stdin)",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Trace output file (default: stdout)",
			},
		},
		Action: recordTrace,
	}
}

func recordTrace(c *cli.Context) error {
	in := io.Reader(os.Stdin)
	if path := c.String("input"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open point stream: %w", err)
		}
		defer f.Close()
		in = f
	}

	stream, err := readPointStream(in)
	if err != nil {
		return err
	}
	if len(stream) == 0 {
		return fmt.Errorf("point stream is empty")
	}

	captured := replayCapture(stream)
	if len(captured) == 0 {
		return fmt.Errorf("no points captured")
	}

	points := make([]TracePoint, len(captured))
	for i, p := range captured {
		points[i] = TracePoint{X: p.X, Y: p.Y, Timestamp: p.Timestamp}
	}
	data, err := json.MarshalIndent(traceFile{Points: points}, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path := c.String("out"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write trace: %w", err)
		}
		fmt.Printf("Captured %d of %d points to %s\n", len(points), len(stream), path)
		return nil
	}

	_, err = os.Stdout.Write(data)
	return err
}

// streamPoint is one parsed line of the input stream. A negative
// timestamp means the line did not carry one.
type streamPoint struct {
	x, y float64
	ts   int64
}

// synthSpacing is the timestamp step assumed for stream lines without
// an explicit timestamp.
const synthSpacing = 50

// readPointStream parses "x y [timestampMillis]" lines. Blank lines and
// lines starting with # are skipped. Missing timestamps are synthesized
// at a fixed spacing from the previous point.
func readPointStream(r io.Reader) ([]streamPoint, error) {
	scanner := bufio.NewScanner(r)
	var out []streamPoint
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: want \"x y [timestampMillis]\", got %q", line, text)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad x %q", line, fields[0])
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad y %q", line, fields[1])
		}
		p := streamPoint{x: x, y: y, ts: -1}
		if len(fields) == 3 {
			ts, err := strconv.ParseInt(fields[2], 10, 64)
			if err != nil || ts < 0 {
				return nil, fmt.Errorf("line %d: bad timestamp %q", line, fields[2])
			}
			p.ts = ts
		}
		out = append(out, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read point stream: %w", err)
	}

	cur := int64(-synthSpacing)
	for i := range out {
		if out[i].ts >= 0 {
			cur = out[i].ts
		} else {
			cur += synthSpacing
			out[i].ts = cur
		}
	}
	return out, nil
}

// replayCapture feeds the stream through the capture policy with the
// point timestamps as the clock, so a pre-recorded stream is filtered
// exactly as a live one would be.
func replayCapture(stream []streamPoint) domain.PathSample {
	// The recorder treats a zero accept time as "no point yet", so the
	// replay clock runs one millisecond ahead of the stream timestamps.
	const tsOffset = 1

	var captured domain.PathSample
	cur := stream[0].ts + tsOffset
	rec := service.NewRecorderWithClock(
		func(points domain.PathSample) { captured = points },
		func() time.Time { return time.UnixMilli(cur) },
	)

	if err := rec.Start(); err != nil {
		return nil
	}
	for _, p := range stream {
		cur = p.ts + tsOffset
		rec.AddPoint(p.x, p.y)
		if rec.State() != service.RecorderRecording {
			break
		}
	}
	rec.Stop()

	for i := range captured {
		captured[i].Timestamp -= tsOffset
	}
	return captured
}
