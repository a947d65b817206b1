package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/samber/lo"
)

// Prompter is the part of the console the interactive flows use.
type Prompter interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
	Printf(format string, args ...any)
	Println(args ...any)
	Header(title string)
	Rule()
	Success(msg string)
	Error(msg string)
	Notice(msg string)
}

type ChatLister interface {
	ListChats(ctx context.Context, username string) ([]chat.Summary, error)
}

// ChatAction runs a flow on a chat picked in the browser.
type ChatAction func(ctx context.Context, selected chat.Summary) error

// Page returns the chats shown on page pageIndex and the number of pages.
// An out of range index yields no chat.
func Page(chats []chat.Summary, pageIndex, pageSize int) ([]chat.Summary, int) {
	if pageSize <= 0 || len(chats) == 0 {
		return nil, 0
	}
	pages := lo.Chunk(chats, pageSize)
	if pageIndex < 0 || pageIndex >= len(pages) {
		return nil, len(pages)
	}
	return pages[pageIndex], len(pages)
}

// Browser lists the chats of a user and dispatches a selection to either the
// live view or, for owners, the management flow.
type Browser struct {
	console  Prompter
	chats    ChatLister
	pageSize int
	enter    ChatAction
	manage   ChatAction
}

func NewBrowser(console Prompter, chats ChatLister, pageSize int, enter, manage ChatAction) *Browser {
	return &Browser{console: console, chats: chats, pageSize: pageSize, enter: enter, manage: manage}
}

// Run returns nil when the user quits; only input failures are returned.
func (b *Browser) Run(ctx context.Context, username string) error {
	chats, ok := b.load(ctx, username)
	if !ok {
		return nil
	}

	page := 0
	for {
		visible, total := Page(chats, page, b.pageSize)
		b.render(visible, page, total)

		line, err := b.console.ReadLine(ctx, fmt.Sprintf("\nSelect chat (1-%d) or command (P/N/Q): ", len(visible)))
		if err != nil {
			return err
		}
		choice := strings.ToUpper(strings.TrimSpace(line))

		switch choice {
		case "Q":
			return nil
		case "N":
			if page < total-1 {
				page++
			}
			continue
		case "P":
			if page > 0 {
				page--
			}
			continue
		}

		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(visible) {
			b.console.Error("Invalid option.")
			continue
		}
		selected := chats[page*b.pageSize+idx-1]
		if err = b.open(ctx, username, selected); err != nil {
			return err
		}

		if chats, ok = b.load(ctx, username); !ok {
			return nil
		}
		if _, total = Page(chats, page, b.pageSize); page >= total {
			page = total - 1
		}
	}
}

func (b *Browser) open(ctx context.Context, username string, selected chat.Summary) error {
	action := b.enter
	if selected.IsOwner(username) {
		b.console.Printf("\nYou are the owner of '%s'\n", selected.Name)
		b.console.Println("1. Enter chat")
		b.console.Println("2. Manage chat")
		line, err := b.console.ReadLine(ctx, "Choose option: ")
		if err != nil {
			return err
		}
		switch strings.TrimSpace(line) {
		case "1":
		case "2":
			action = b.manage
		default:
			b.console.Error("Invalid option.")
			return nil
		}
	}

	if err := action(ctx, selected); err != nil {
		if ctx.Err() != nil || IsInputClosed(err) {
			return err
		}
		b.console.Error(Describe(err))
	}
	return nil
}

func (b *Browser) load(ctx context.Context, username string) ([]chat.Summary, bool) {
	chats, err := b.chats.ListChats(ctx, username)
	if err != nil {
		b.console.Error("Could not load chats: " + Describe(err))
		return nil, false
	}
	if len(chats) == 0 {
		b.console.Println("\nNo chats available.")
		return nil, false
	}
	return chats, true
}

func (b *Browser) render(visible []chat.Summary, page, total int) {
	b.console.Header("AVAILABLE CHATS")
	for i, c := range visible {
		b.console.Printf("%d. %s (%s)\n", i+1, c.Name, strings.Join(c.Participants, ", "))
	}
	b.console.Println()
	b.console.Rule()
	b.console.Printf("Page %d/%d\n", page+1, total)
	if page > 0 {
		b.console.Println("'P' - Previous Page")
	}
	if page < total-1 {
		b.console.Println("'N' - Next Page")
	}
	b.console.Println("'Q' - Exit to Main Menu")
	b.console.Rule()
}
