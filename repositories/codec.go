package repositories

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/AlexandreSaynov/tp1ADC/domain/chat"
	"github.com/AlexandreSaynov/tp1ADC/errors"
	"github.com/samber/lo"
)

// xmlChats is the document root of the chat file:
//
//	<chats>
//	  <chat id="chat_001">
//	    <name>Ops</name>
//	    <owner>alice</owner>
//	    <participant>alice</participant>
//	    <message><sender>alice</sender><content>hi</content><timestamp>2024-03-01 10:00:00</timestamp></message>
//	    <latest_timestamp>2024-03-01 10:00:00</latest_timestamp>
//	  </chat>
//	</chats>
type xmlChats struct {
	XMLName xml.Name  `xml:"chats"`
	Chats   []xmlChat `xml:"chat"`
}

type xmlChat struct {
	XMLName         xml.Name     `xml:"chat"`
	ID              string       `xml:"id,attr"`
	Name            string       `xml:"name"`
	Owner           string       `xml:"owner"`
	Participants    []string     `xml:"participant"`
	Messages        []xmlMessage `xml:"message"`
	LatestTimestamp string       `xml:"latest_timestamp,omitempty"`
}

type xmlMessage struct {
	Sender    string `xml:"sender"`
	Content   string `xml:"content"`
	Timestamp string `xml:"timestamp"`
}

// DecodeChats parses a whole chat file. An empty document is an empty collection.
func DecodeChats(data []byte) ([]chat.Chat, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc xmlChats
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrMalformedStore, err)
	}
	chats := make([]chat.Chat, 0, len(doc.Chats))
	for _, x := range doc.Chats {
		c, err := fromXMLChat(x)
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, nil
}

func encodeChats(chats []chat.Chat) ([]byte, error) {
	doc := xmlChats{Chats: lo.Map(chats, func(c chat.Chat, _ int) xmlChat {
		return toXMLChat(c)
	})}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// DecodeChat parses a single <chat> element.
func DecodeChat(data []byte) (chat.Chat, error) {
	var x xmlChat
	if err := xml.Unmarshal(data, &x); err != nil {
		return chat.Chat{}, fmt.Errorf("%w: %w", errors.ErrMalformedStore, err)
	}
	return fromXMLChat(x)
}

func encodeChat(c chat.Chat) ([]byte, error) {
	return xml.Marshal(toXMLChat(c))
}

func toXMLChat(c chat.Chat) xmlChat {
	return xmlChat{
		ID:           string(c.ID),
		Name:         c.Name,
		Owner:        c.Owner,
		Participants: c.Participants,
		Messages: lo.Map(c.Messages, func(m chat.Message, _ int) xmlMessage {
			return xmlMessage{
				Sender:    m.Sender,
				Content:   m.Content,
				Timestamp: chat.FormatTimestamp(m.Timestamp),
			}
		}),
		LatestTimestamp: chat.FormatTimestamp(c.Latest()),
	}
}

func fromXMLChat(x xmlChat) (chat.Chat, error) {
	if x.ID == "" {
		return chat.Chat{}, fmt.Errorf("%w: chat without id", errors.ErrMalformedStore)
	}
	c := chat.Chat{
		ID:           chat.ID(x.ID),
		Name:         x.Name,
		Owner:        x.Owner,
		Participants: x.Participants,
	}
	for _, m := range x.Messages {
		ts, err := chat.ParseTimestamp(m.Timestamp)
		if err != nil {
			return chat.Chat{}, fmt.Errorf("%w: message timestamp in %s: %w", errors.ErrMalformedStore, x.ID, err)
		}
		c.Messages = append(c.Messages, chat.Message{Sender: m.Sender, Content: m.Content, Timestamp: ts})
	}
	if x.LatestTimestamp != "" {
		ts, err := chat.ParseTimestamp(x.LatestTimestamp)
		if err != nil {
			return chat.Chat{}, fmt.Errorf("%w: latest timestamp in %s: %w", errors.ErrMalformedStore, x.ID, err)
		}
		c.LatestTimestamp = ts
	}
	c.LatestTimestamp = c.Latest()
	return c, nil
}

func findChat(chats []chat.Chat, chatID chat.ID) (int, error) {
	_, idx, ok := lo.FindIndexOf(chats, func(c chat.Chat) bool {
		return c.ID == chatID
	})
	if !ok {
		return -1, fmt.Errorf("%w: chat %s", errors.ErrNotFound, chatID)
	}
	return idx, nil
}

func summariesFor(chats []chat.Chat, username string) []chat.Summary {
	return lo.FilterMap(chats, func(c chat.Chat, _ int) (chat.Summary, bool) {
		s := c.Summary()
		return s, s.HasParticipant(username)
	})
}
