// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the upstream HTTP clients and the streaming
// response decoder shared by all OpenAI-compatible chat providers.
package api

import (
	"bytes"
	"encoding/json"
)

// STREAMING: Robust SSE parsing with carry-over across chunk boundaries.

// FrameKind classifies a decoded stream frame.
type FrameKind int

const (
	// FrameContent is answer text.
	FrameContent FrameKind = iota
	// FrameReasoning is chain-of-thought text.
	FrameReasoning
)

// Frame is one classified piece of streamed model output.
type Frame struct {
	Kind FrameKind
	Text string
}

// reasoningFormat records which wire format delivered reasoning first.
// Once a format is seen, only that format classifies reasoning for the
// rest of the turn, so a model emitting both fields cannot duplicate
// its chain of thought.
type reasoningFormat int

const (
	formatUnknown reasoningFormat = iota
	formatReasoning
	formatReasoningContent
)

type streamDelta struct {
	Content          string `json:"content"`
	Reasoning        string `json:"reasoning"`
	ReasoningContent string `json:"reasoning_content"`
}

type streamChunk struct {
	Choices []struct {
		Delta        streamDelta `json:"delta"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// FrameDecoder converts a raw SSE byte stream into classified frames.
//
// Network reads split the stream at arbitrary byte offsets, so the
// decoder keeps the trailing incomplete line between Feed calls and only
// parses complete lines. Per-line JSON failures are swallowed: one
// malformed keep-alive must not kill a multi-second generation.
type FrameDecoder struct {
	carry  []byte
	format reasoningFormat
	done   bool
}

// NewFrameDecoder creates a decoder for one streaming response.
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{}
}

var (
	dataPrefix   = []byte("data:")
	doneSentinel = []byte("[DONE]")
)

// Feed consumes the next network chunk and returns the frames completed
// by it. Feeding after the [DONE] sentinel returns nothing.
func (d *FrameDecoder) Feed(chunk []byte) []Frame {
	if d.done {
		return nil
	}
	d.carry = append(d.carry, chunk...)

	var frames []Frame
	for {
		nl := bytes.IndexByte(d.carry, '\n')
		if nl < 0 {
			return frames
		}
		line := d.carry[:nl]
		d.carry = d.carry[nl+1:]

		frames = append(frames, d.decodeLine(line)...)
		if d.done {
			d.carry = nil
			return frames
		}
	}
}

// Flush processes a trailing unterminated line after the stream ends.
// Some servers omit the final newline before closing the connection.
func (d *FrameDecoder) Flush() []Frame {
	if d.done || len(d.carry) == 0 {
		return nil
	}
	line := d.carry
	d.carry = nil
	return d.decodeLine(line)
}

// Done reports whether the [DONE] sentinel was seen.
func (d *FrameDecoder) Done() bool {
	return d.done
}

// SawReasoning reports whether any delta-level reasoning field has been
// seen. When true, tag scanning of the content buffer is skipped: the
// first reasoning format detected wins for the turn.
func (d *FrameDecoder) SawReasoning() bool {
	return d.format != formatUnknown
}

func (d *FrameDecoder) decodeLine(line []byte) []Frame {
	line = bytes.TrimRight(line, "\r")
	if !bytes.HasPrefix(line, dataPrefix) {
		// Ignore event:, id:, retry:, and comment lines.
		return nil
	}
	data := bytes.TrimSpace(line[len(dataPrefix):])
	if len(data) == 0 {
		return nil
	}
	if bytes.Equal(data, doneSentinel) {
		d.done = true
		return nil
	}

	var chunk streamChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		// Skip malformed chunks.
		return nil
	}

	var frames []Frame
	for _, choice := range chunk.Choices {
		if f, ok := d.classifyReasoning(choice.Delta); ok {
			frames = append(frames, f)
		}
		if choice.Delta.Content != "" {
			frames = append(frames, Frame{Kind: FrameContent, Text: choice.Delta.Content})
		}
	}
	return frames
}

func (d *FrameDecoder) classifyReasoning(delta streamDelta) (Frame, bool) {
	switch d.format {
	case formatReasoning:
		if delta.Reasoning != "" {
			return Frame{Kind: FrameReasoning, Text: delta.Reasoning}, true
		}
	case formatReasoningContent:
		if delta.ReasoningContent != "" {
			return Frame{Kind: FrameReasoning, Text: delta.ReasoningContent}, true
		}
	default:
		if delta.Reasoning != "" {
			d.format = formatReasoning
			return Frame{Kind: FrameReasoning, Text: delta.Reasoning}, true
		}
		if delta.ReasoningContent != "" {
			d.format = formatReasoningContent
			return Frame{Kind: FrameReasoning, Text: delta.ReasoningContent}, true
		}
	}
	return Frame{}, false
}
