package ui

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func TestConsole_ReadLine_Long_Line_Keeps_Input_Open(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	// Given a pasted line well over the usual 64 KiB token size, then Q
	long := strings.Repeat("x", 70*1024)
	console := NewConsole(testLogger(), strings.NewReader(long+"\nQ\n"), &bytes.Buffer{}, false)

	// When both lines are read
	first, err := console.ReadLine(ctx, "")
	req.NoError(err)
	second, err := console.ReadLine(ctx, "")
	req.NoError(err)

	// Then the long line arrives whole and the next line is not lost
	req.Len(first, len(long))
	req.Equal("Q", second)

	_, err = console.ReadLine(ctx, "")
	req.ErrorIs(err, io.EOF)
}

func TestConsole_ReadLine_Trims_Line_Endings(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	console := NewConsole(testLogger(), strings.NewReader("M\r\nhello"), &bytes.Buffer{}, false)

	line, err := console.ReadLine(ctx, "")
	req.NoError(err)
	req.Equal("M", line)

	// Last line without newline
	line, err = console.ReadLine(ctx, "")
	req.NoError(err)
	req.Equal("hello", line)

	_, err = console.ReadLine(ctx, "")
	req.ErrorIs(err, io.EOF)
}

func TestConsole_ReadLine_Cancelled(t *testing.T) {
	req := require.New(t)
	pr, pw := io.Pipe()
	defer pw.Close()
	console := NewConsole(testLogger(), pr, &bytes.Buffer{}, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := console.ReadLine(ctx, "> ")
	req.ErrorIs(err, context.Canceled)
}
