package telegram

import (
	"fmt"
	"strings"

	"ligmir-backend/services/charsheet"
)

// Interpreter turns inbound updates into commands. It is read-only
// after construction and safe to share across requests.
type Interpreter struct {
	// BotHandle is the bot's mention token, e.g. "@ligmir_bot".
	BotHandle string
	// SkillCommand and CharacterCommand are the recognized command
	// prefixes.
	SkillCommand     string
	CharacterCommand string
	// DefaultSkill is checked when the user names none.
	DefaultSkill string
	Refs         *charsheet.RefPatterns
}

func NewInterpreter(botHandle string, defaultSkill string, refs *charsheet.RefPatterns) *Interpreter {
	return &Interpreter{
		BotHandle:        botHandle,
		SkillCommand:     "/skill",
		CharacterCommand: "/character",
		DefaultSkill:     defaultSkill,
		Refs:             refs,
	}
}

// Interpret normalizes one update into a command.
//
// A message is directed at the bot if its chat is private or its text
// mentions the bot handle. Two surface syntaxes coexist:
//
//	/skill [name] [sheet-url]
//	<name> [sheet-url]          (legacy, no command prefix)
//
// plus `/character <sheet-url>` to store a default sheet. Everything
// else, including non-text updates, yields KindNone.
func (i *Interpreter) Interpret(update *Update) Command {
	msg := update.message()
	if msg == nil || msg.Text == "" {
		return Command{Kind: KindNone}
	}

	source := Source{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
	}
	if msg.From != nil {
		source.UserID = msg.From.ID
	}

	directed := msg.Chat.Type == "private" ||
		strings.Contains(msg.Text, i.BotHandle)
	if !directed {
		return Command{Kind: KindNone}
	}

	var tokens []string
	for _, token := range strings.Fields(msg.Text) {
		if token == i.BotHandle {
			continue
		}
		tokens = append(tokens, token)
	}

	switch {
	case len(tokens) > 0 && tokens[0] == i.CharacterCommand:
		return i.setCharacter(source, tokens[1:])
	case len(tokens) > 0 && tokens[0] == i.SkillCommand:
		return i.skillCheck(source, tokens[1:])
	case len(tokens) > 0 && strings.HasPrefix(tokens[0], "/"):
		// unknown command, ignored downstream
		return Command{Kind: KindNone}
	default:
		// legacy syntax: the whole message is the arguments
		return i.skillCheck(source, tokens)
	}
}

func (i *Interpreter) skillCheck(source Source, args []string) Command {
	if len(args) > 2 {
		args = args[:2]
	}

	cmd := Command{
		Kind:   KindSkillCheck,
		Source: source,
		Skill:  i.DefaultSkill,
	}
	if len(args) > 0 {
		cmd.Skill = args[0]
	}
	if len(args) > 1 {
		// only a token that plausibly denotes a sheet link becomes an
		// explicit reference
		ref, err := i.Refs.Parse(args[1])
		if err == nil {
			cmd.Ref = ref
			cmd.HasRef = true
		}
	}
	return cmd
}

func (i *Interpreter) setCharacter(source Source, args []string) Command {
	if len(args) == 0 {
		return Command{
			Kind:    KindMalformed,
			Source:  source,
			ErrText: "Expected a character sheet URL.",
		}
	}

	ref, err := i.Refs.Parse(args[0])
	if err != nil {
		return Command{
			Kind:   KindMalformed,
			Source: source,
			ErrText: fmt.Sprintf(
				"I can't open %q as a charsheet link. It must start with %q.",
				args[0], charsheet.Host,
			),
		}
	}

	return Command{
		Kind:   KindSetCharacter,
		Source: source,
		Ref:    ref,
		HasRef: true,
	}
}
