package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/gookit/color"
)

const ruleWidth = 50

// Console is the terminal of one interactive user. A single goroutine owns the
// input stream so a read abandoned on cancellation never loses the next line.
type Console struct {
	out     io.Writer
	colours bool
	mu      sync.Mutex
	lines   <-chan string
}

// NewConsole starts reading in. Lines have no length limit here, the services
// reject content that is too long.
func NewConsole(log *slog.Logger, in io.Reader, out io.Writer, colours bool) *Console {
	lines := make(chan string)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			// A last line without newline is still delivered
			if line != "" {
				lines <- strings.TrimRight(line, "\r\n")
			}
			if err == nil {
				continue
			}
			if err != io.EOF {
				log.Error("Console input failed", "error", err)
			} else {
				log.Debug("Console input closed")
			}
			return
		}
	}()
	return &Console{out: out, colours: colours, lines: lines}
}

// ReadLine prints prompt, then waits for the next line. It returns io.EOF once
// the input is exhausted.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		c.write(prompt)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

func (c *Console) Printf(format string, args ...any) {
	c.write(fmt.Sprintf(format, args...))
}

func (c *Console) Println(args ...any) {
	c.write(fmt.Sprintln(args...))
}

// Header prints a boxed title.
func (c *Console) Header(title string) {
	bar := strings.Repeat("=", ruleWidth)
	c.write(fmt.Sprintf("\n%s\n%s\n%s\n", bar, c.style(title, color.OpBold), bar))
}

func (c *Console) Rule() {
	c.write(strings.Repeat("-", ruleWidth) + "\n")
}

func (c *Console) Success(msg string) {
	c.write(c.style(msg, color.FgGreen) + "\n")
}

func (c *Console) Error(msg string) {
	c.write(c.style(msg, color.FgRed) + "\n")
}

func (c *Console) Notice(msg string) {
	c.write(c.style(msg, color.FgYellow) + "\n")
}

// ShowChat renders the full chat screen.
func (c *Console) ShowChat(snapshot chat.Chat) {
	var b strings.Builder
	bar := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(&b, "\n%s\n%s\n%s\n\n", bar, c.style("CHAT: "+snapshot.Name, color.OpBold), bar)
	if len(snapshot.Messages) == 0 {
		b.WriteString("No messages yet.\n")
	}
	for _, msg := range snapshot.Messages {
		fmt.Fprintf(&b, "[%s] %s: %s\n",
			chat.FormatTimestamp(msg.Timestamp), c.style(msg.Sender, color.FgCyan), msg.Content)
	}
	fmt.Fprintf(&b, "\n%s\n", strings.Repeat("-", ruleWidth))
	b.WriteString("Type 'M' to send a message, 'Q' to quit chat.\n")
	c.write(b.String())
}

// Table renders rows under header.
func (c *Console) Table(header []string, rows [][]string) {
	var b strings.Builder
	RenderTable(&b, header, rows)
	c.write(b.String())
}

func (c *Console) style(s string, opts ...color.Color) string {
	if !c.colours {
		return s
	}
	return color.New(opts...).Render(s)
}

func (c *Console) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, s)
}
