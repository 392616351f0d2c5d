package roller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ligmir-backend/lib/dice"
	"ligmir-backend/services/charsheet"
	"ligmir-backend/services/telegram"
)

// User-facing reply strings. Internal error detail is logged, never
// echoed.
const (
	replyDownloadFailed = "Failed to download modifiers."
	replyEmptySkills    = "Internal error: skill list is empty."
	replySaved          = "Default character sheet saved."
	replySaveFailed     = "Failed to save your character sheet."
)

// SkillSource extracts a skill map from a character sheet URL.
type SkillSource interface {
	Extract(ctx context.Context, url string) (charsheet.CharacterSheet, error)
}

// Prefs reads and writes per-user default character references.
type Prefs interface {
	GetDefaultCharacter(ctx context.Context, userID int64) (charsheet.Ref, bool, error)
	SetDefaultCharacter(ctx context.Context, userID int64, ref charsheet.Ref) error
}

// ReplySender delivers a reply to the chat a command came from.
type ReplySender interface {
	SendMessage(ctx context.Context, token string, source telegram.Source, text string) error
}

// Service orchestrates one inbound update at a time: interpret,
// scrape, resolve, roll, reply. Instances hold no per-request state so
// concurrent updates never share anything mutable.
type Service struct {
	source SkillSource
	prefs  Prefs
	sender ReplySender
	interp *telegram.Interpreter
	roller *dice.Roller
	// fallbackRef is used when a request names no sheet and the user
	// stored none.
	fallbackRef charsheet.Ref
}

func NewService(
	source SkillSource,
	prefs Prefs,
	sender ReplySender,
	interp *telegram.Interpreter,
	roller *dice.Roller,
	fallbackRef charsheet.Ref,
) Service {
	return Service{
		source:      source,
		prefs:       prefs,
		sender:      sender,
		interp:      interp,
		roller:      roller,
		fallbackRef: fallbackRef,
	}
}

// HandleUpdate processes one update end to end. Every replying branch
// sends exactly one reply; failures to deliver it are logged only.
func (s Service) HandleUpdate(ctx context.Context, token string, update *telegram.Update) {
	ctx, span := tracer.Start(ctx, "HandleUpdate")
	defer span.End()

	cmd := s.interp.Interpret(update)
	switch cmd.Kind {
	case telegram.KindNone:
		return
	case telegram.KindMalformed:
		s.reply(ctx, token, cmd.Source, cmd.ErrText)
	case telegram.KindSetCharacter:
		s.reply(ctx, token, cmd.Source, s.setCharacter(ctx, cmd))
	case telegram.KindSkillCheck:
		s.reply(ctx, token, cmd.Source, s.skillCheck(ctx, cmd))
	}
}

func (s Service) setCharacter(ctx context.Context, cmd telegram.Command) string {
	err := s.prefs.SetDefaultCharacter(ctx, cmd.Source.UserID, cmd.Ref)
	if err != nil {
		slog.ErrorContext(
			ctx, "failed to store default character",
			"user_id", cmd.Source.UserID,
			"err", err,
		)
		return replySaveFailed
	}
	return replySaved
}

func (s Service) skillCheck(ctx context.Context, cmd telegram.Command) string {
	ref := s.effectiveRef(ctx, cmd)

	sheet, err := s.source.Extract(ctx, ref.URL())
	if err != nil {
		slog.ErrorContext(
			ctx, "failed to download modifiers",
			"character_id", ref.ID,
			"err", err,
		)
		if errors.Is(err, charsheet.ErrEmptySkillList) {
			return replyEmptySkills
		}
		return replyDownloadFailed
	}

	name, modifier, err := charsheet.ResolveSkill(sheet, cmd.Skill)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve skill", "skill", cmd.Skill, "err", err)
		return replyEmptySkills
	}

	die := s.roller.D20()
	return fmt.Sprintf("%s check: 🎲%d + %d = %d", name, die, modifier, die+modifier)
}

// effectiveRef picks the sheet to scrape: explicit argument, stored
// preference, then the configured fallback. Store read errors degrade
// to "no stored preference".
func (s Service) effectiveRef(ctx context.Context, cmd telegram.Command) charsheet.Ref {
	if cmd.HasRef {
		return cmd.Ref
	}
	if cmd.Source.UserID != 0 {
		ref, ok, err := s.prefs.GetDefaultCharacter(ctx, cmd.Source.UserID)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to read stored character, falling back to default",
				"user_id", cmd.Source.UserID,
				"err", err,
			)
		} else if ok {
			return ref
		}
	}
	return s.fallbackRef
}

func (s Service) reply(ctx context.Context, token string, source telegram.Source, text string) {
	err := s.sender.SendMessage(ctx, token, source, text)
	if err != nil {
		// no secondary channel to report a failed reply
		slog.ErrorContext(
			ctx, "failed to send reply",
			"chat_id", source.ChatID,
			"message_id", source.MessageID,
			"err", err,
		)
	}
}
