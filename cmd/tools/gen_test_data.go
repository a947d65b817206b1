package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/mama165/sdk-go/logs"
)

// Seeds a chats XML file with enough chats to page through the browser.
func main() {
	output := flag.String("out", "./vars/dev/chats.xml", "Chats XML file to create")
	count := flag.Int("chats", 12, "Number of chats to generate")
	owner := flag.String("owner", "alice", "Owner of every generated chat")
	flag.Parse()

	log := logs.GetLoggerFromLevel(slog.LevelInfo)
	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create directory: %v\n", err)
		os.Exit(1)
	}

	repo, err := repositories.NewXMLChatRepository(*output, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open chat store: %v\n", err)
		os.Exit(1)
	}

	members := []string{"bob", "carol", "dave"}
	for i := range *count {
		participant := members[i%len(members)]
		id, err := repo.CreateChat(fmt.Sprintf("Room %02d", i+1), *owner, []string{participant})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot create chat: %v\n", err)
			os.Exit(1)
		}
		if err = repo.AppendMessage(id, *owner, fmt.Sprintf("welcome %s", participant)); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot append message: %v\n", err)
			os.Exit(1)
		}
		if err = repo.AppendMessage(id, participant, "thanks"); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot append message: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("%d chats written to %s\n", *count, *output)
}
