package chat

// Command is a permitted mutation of an existing chat.
// Each mutation has its own type; there is no generic field update.
// CreateChatCommand targets no existing chat and is not a Command.
type Command interface {
	ChatID() ID
}

// OwnerCommand is a Command only the chat owner may issue.
type OwnerCommand interface {
	Command
	By() string
}

type CreateChatCommand struct {
	Name         string `validate:"required,max=64"` // max mirrors MaxNameLength
	Owner        string `validate:"required"`
	Participants []string
}

type PostMessageCommand struct {
	Chat    ID
	Sender  string
	Content string
}

func (c PostMessageCommand) ChatID() ID {
	return c.Chat
}

type RenameChatCommand struct {
	Chat  ID
	Actor string
	Name  string
}

func (c RenameChatCommand) ChatID() ID {
	return c.Chat
}

func (c RenameChatCommand) By() string {
	return c.Actor
}

type AddParticipantsCommand struct {
	Chat      ID
	Actor     string
	Usernames []string
}

func (c AddParticipantsCommand) ChatID() ID {
	return c.Chat
}

func (c AddParticipantsCommand) By() string {
	return c.Actor
}

type RemoveParticipantCommand struct {
	Chat     ID
	Actor    string
	Username string
}

func (c RemoveParticipantCommand) ChatID() ID {
	return c.Chat
}

func (c RemoveParticipantCommand) By() string {
	return c.Actor
}

type DeleteChatCommand struct {
	Chat  ID
	Actor string
}

func (c DeleteChatCommand) ChatID() ID {
	return c.Chat
}

func (c DeleteChatCommand) By() string {
	return c.Actor
}
