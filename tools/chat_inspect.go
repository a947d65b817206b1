package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/repositories"
	"github.com/AlexandreSaynov/tp1ADC/ui"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
)

// Prints the chats of an XML file (-file) or of a badger store (-db) as a table.
func main() {
	file := flag.String("file", "", "Path to a chats XML file")
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB, used when -file is empty")
	prefix := flag.String("prefix", "chat:", "Prefix to scan in badger")
	flag.Parse()

	var (
		chats []chat.Chat
		err   error
	)
	if *file != "" {
		chats, err = readXML(*file)
	} else {
		chats, err = readBadger(*dbPath, *prefix)
	}
	if err != nil {
		log.Fatal(err)
	}

	ui.RenderTable(os.Stdout, ui.ChatHeader, ui.ChatRows(chats))
}

func readXML(path string) ([]chat.Chat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return repositories.DecodeChats(data)
}

func readBadger(path, prefix string) ([]chat.Chat, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("error while opening Badger: %w", err)
	}
	defer db.Close()

	var chats []chat.Chat
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				c, err := repositories.DecodeChat(v)
				if err != nil {
					// keep going, one broken record should not hide the others
					fmt.Printf("Error decoding key %s: %v\n", string(item.Key()), err)
					return nil
				}
				chats = append(chats, c)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return chats, err
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil && strings.Contains(err.Error(), "Log truncate required") {
		// A store left dirty by a crash has to be opened writable once
		repaired, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil).WithBypassLockGuard(true))
		if err != nil {
			return nil, fmt.Errorf("repair failed: %w", err)
		}
		_ = repaired.Close()
		return badger.Open(opts)
	}
	return db, err
}
