package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/domain/search"
	"github.com/AlexandreSaynov/tp1ADC/observability"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// RenderTable writes a borderless, left aligned table.
func RenderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}

var (
	UserHeader   = []string{"Username", "Email", "Role", "Created"}
	HitHeader    = []string{"Timestamp", "Chat", "Sender", "Content"}
	ChatHeader   = []string{"ID", "Name", "Owner", "Participants", "Messages", "Latest"}
	StatusHeader = []string{"Metric", "Value"}
)

func UserRows(users []repositories.User) [][]string {
	return lo.Map(users, func(u repositories.User, _ int) []string {
		return []string{u.Username, u.Email, u.Role, chat.FormatTimestamp(u.CreatedAt.Local())}
	})
}

func HitRows(hits []search.Hit) [][]string {
	return lo.Map(hits, func(h search.Hit, _ int) []string {
		return []string{h.Timestamp, h.ChatName, h.Sender, h.Content}
	})
}

func ChatRows(chats []chat.Chat) [][]string {
	return lo.Map(chats, func(c chat.Chat, _ int) []string {
		latest := ""
		if !c.LatestTimestamp.IsZero() {
			latest = chat.FormatTimestamp(c.LatestTimestamp)
		}
		return []string{
			c.ID.String(), c.Name, c.Owner,
			strings.Join(c.Participants, ", "),
			strconv.Itoa(len(c.Messages)), latest,
		}
	})
}

func StatusRows(stats observability.MonitoringStats) [][]string {
	return [][]string{
		{"uptime", stats.Uptime.Truncate(time.Second).String()},
		{"live sessions opened", strconv.FormatUint(stats.SessionsOpened, 10)},
		{"messages sent", strconv.FormatUint(stats.MessagesSent, 10)},
		{"polls", strconv.FormatUint(stats.Polls, 10)},
		{"renders", strconv.FormatUint(stats.Renders, 10)},
		{"store errors", strconv.FormatUint(stats.StoreErrors, 10)},
		{"worker restarts", strconv.FormatUint(stats.WorkerRestarts, 10)},
		{"rss", fmt.Sprintf("%.1f MB", stats.RSSMb)},
		{"cpu", fmt.Sprintf("%.1f %%", stats.CPUPercent)},
		{"memory", fmt.Sprintf("%.1f %%", stats.MemoryPercent)},
		{"threads", strconv.Itoa(int(stats.Threads))},
		{"heap alloc", fmt.Sprintf("%d MB", stats.AllocMemMb)},
		{"gc cycles", strconv.FormatUint(uint64(stats.NumGC), 10)},
	}
}
