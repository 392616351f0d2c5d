package roller

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strconv"
	"testing"

	"ligmir-backend/lib/dice"
	"ligmir-backend/lib/telemetry"
	"ligmir-backend/services/charsheet"
	"ligmir-backend/services/telegram"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	sheet   charsheet.CharacterSheet
	err     error
	gotURLs []string
}

func (f *fakeSource) Extract(ctx context.Context, url string) (charsheet.CharacterSheet, error) {
	f.gotURLs = append(f.gotURLs, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.sheet, nil
}

type fakePrefs struct {
	stored map[int64]charsheet.Ref
	getErr error
	setErr error
}

func (f *fakePrefs) GetDefaultCharacter(ctx context.Context, userID int64) (charsheet.Ref, bool, error) {
	if f.getErr != nil {
		return charsheet.Ref{}, false, f.getErr
	}
	ref, ok := f.stored[userID]
	return ref, ok, nil
}

func (f *fakePrefs) SetDefaultCharacter(ctx context.Context, userID int64, ref charsheet.Ref) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.stored == nil {
		f.stored = map[int64]charsheet.Ref{}
	}
	f.stored[userID] = ref
	return nil
}

type fakeSender struct {
	err     error
	replies []string
	sources []telegram.Source
	tokens  []string
}

func (f *fakeSender) SendMessage(ctx context.Context, token string, source telegram.Source, text string) error {
	f.tokens = append(f.tokens, token)
	f.sources = append(f.sources, source)
	f.replies = append(f.replies, text)
	return f.err
}

type harness struct {
	source *fakeSource
	prefs  *fakePrefs
	sender *fakeSender
	svc    Service
}

func setup(t testing.TB, source *fakeSource, prefs *fakePrefs) (*harness, func()) {
	cleanup := telemetry.SetupForTesting(t, "services/roller")

	sender := &fakeSender{}
	svc := NewService(
		source,
		prefs,
		sender,
		telegram.NewInterpreter("@ligmir_bot", "Perception", charsheet.NewRefPatterns()),
		dice.NewRollerWithRng(rand.New(rand.NewSource(1))),
		charsheet.Ref{ID: 27570282},
	)

	return &harness{
		source: source,
		prefs:  prefs,
		sender: sender,
		svc:    svc,
	}, cleanup
}

func skillCheckUpdate(text string) *telegram.Update {
	return &telegram.Update{
		UpdateID: 1,
		Message: &telegram.Message{
			MessageID: 10,
			From:      &telegram.User{ID: 20},
			Chat:      telegram.Chat{ID: 30, Type: "private"},
			Text:      text,
		},
	}
}

var checkReplyRegex = regexp.MustCompile(`^Perception check: 🎲(\d+) \+ 3 = (\d+)$`)

func TestSkillCheckTypoEndToEnd(t *testing.T) {
	h, cleanup := setup(t,
		&fakeSource{sheet: charsheet.CharacterSheet{"Perception": 3}},
		&fakePrefs{},
	)
	defer cleanup()

	h.svc.HandleUpdate(
		context.Background(), "tok",
		skillCheckUpdate("/skill preception https://www.dndbeyond.com/characters/123"),
	)

	require.Len(t, h.sender.replies, 1)
	require.Equal(t, []string{"https://www.dndbeyond.com/characters/123"}, h.source.gotURLs)
	require.Equal(t, telegram.Source{ChatID: 30, MessageID: 10, UserID: 20}, h.sender.sources[0])
	require.Equal(t, "tok", h.sender.tokens[0])

	groups := checkReplyRegex.FindStringSubmatch(h.sender.replies[0])
	require.NotNil(t, groups, "reply: %s", h.sender.replies[0])
	die, err := strconv.Atoi(groups[1])
	if err != nil {
		t.Fatal(err)
	}
	total, err := strconv.Atoi(groups[2])
	if err != nil {
		t.Fatal(err)
	}
	require.GreaterOrEqual(t, die, 1)
	require.LessOrEqual(t, die, 20)
	require.Equal(t, die+3, total)
}

func TestSkillCheckUsesStoredRef(t *testing.T) {
	h, cleanup := setup(t,
		&fakeSource{sheet: charsheet.CharacterSheet{"Perception": 3}},
		&fakePrefs{stored: map[int64]charsheet.Ref{20: {ID: 555}}},
	)
	defer cleanup()

	h.svc.HandleUpdate(context.Background(), "tok", skillCheckUpdate("/skill"))

	require.Equal(t, []string{"https://www.dndbeyond.com/characters/555"}, h.source.gotURLs)
	require.Len(t, h.sender.replies, 1)
}

func TestSkillCheckFallsBackToDefaultRef(t *testing.T) {
	h, cleanup := setup(t,
		&fakeSource{sheet: charsheet.CharacterSheet{"Perception": 3}},
		&fakePrefs{},
	)
	defer cleanup()

	h.svc.HandleUpdate(context.Background(), "tok", skillCheckUpdate("/skill"))

	require.Equal(t, []string{"https://www.dndbeyond.com/characters/27570282"}, h.source.gotURLs)
}

func TestSkillCheckStoreReadErrorFallsBack(t *testing.T) {
	h, cleanup := setup(t,
		&fakeSource{sheet: charsheet.CharacterSheet{"Perception": 3}},
		&fakePrefs{getErr: errors.New("store down")},
	)
	defer cleanup()

	h.svc.HandleUpdate(context.Background(), "tok", skillCheckUpdate("/skill"))

	// a read failure is treated as "no stored preference"
	require.Equal(t, []string{"https://www.dndbeyond.com/characters/27570282"}, h.source.gotURLs)
	require.Len(t, h.sender.replies, 1)
	require.Regexp(t, checkReplyRegex, h.sender.replies[0])
}

func TestSkillCheckDownloadFailure(t *testing.T) {
	for _, cause := range []error{
		charsheet.ErrBrowserConnect,
		charsheet.ErrRenderTimeout,
		charsheet.ErrNoScriptValue,
		charsheet.ErrParse,
	} {
		h, cleanup := setup(t, &fakeSource{err: cause}, &fakePrefs{})

		h.svc.HandleUpdate(context.Background(), "tok", skillCheckUpdate("/skill"))

		require.Equal(t, []string{replyDownloadFailed}, h.sender.replies, "cause: %v", cause)
		cleanup()
	}
}

func TestSkillCheckEmptySheet(t *testing.T) {
	h, cleanup := setup(t, &fakeSource{err: charsheet.ErrEmptySkillList}, &fakePrefs{})
	defer cleanup()

	h.svc.HandleUpdate(context.Background(), "tok", skillCheckUpdate("/skill"))

	require.Equal(t, []string{replyEmptySkills}, h.sender.replies)
}

func TestSetCharacter(t *testing.T) {
	h, cleanup := setup(t, &fakeSource{}, &fakePrefs{})
	defer cleanup()

	h.svc.HandleUpdate(
		context.Background(), "tok",
		skillCheckUpdate("/character https://www.dndbeyond.com/characters/123"),
	)

	require.Equal(t, []string{replySaved}, h.sender.replies)
	require.Equal(t, charsheet.Ref{ID: 123}, h.prefs.stored[20])
	// the scraper is never touched on a store command
	require.Empty(t, h.source.gotURLs)
}

func TestSetCharacterWriteFailure(t *testing.T) {
	h, cleanup := setup(t, &fakeSource{}, &fakePrefs{setErr: errors.New("store down")})
	defer cleanup()

	h.svc.HandleUpdate(
		context.Background(), "tok",
		skillCheckUpdate("/character https://www.dndbeyond.com/characters/123"),
	)

	require.Equal(t, []string{replySaveFailed}, h.sender.replies)
}

func TestMalformedRepliesCarriedText(t *testing.T) {
	h, cleanup := setup(t, &fakeSource{}, &fakePrefs{})
	defer cleanup()

	h.svc.HandleUpdate(context.Background(), "tok", skillCheckUpdate("/character not-a-url"))

	require.Len(t, h.sender.replies, 1)
	require.Contains(t, h.sender.replies[0], "not-a-url")
	require.Contains(t, h.sender.replies[0], charsheet.Host)
}

func TestUnrecognizedProducesNoReply(t *testing.T) {
	h, cleanup := setup(t, &fakeSource{}, &fakePrefs{})
	defer cleanup()

	update := skillCheckUpdate("whatever")
	update.Message.Chat.Type = "group"
	h.svc.HandleUpdate(context.Background(), "tok", update)

	require.Empty(t, h.sender.replies)
	require.Empty(t, h.source.gotURLs)
}

func TestSendFailureIsSwallowed(t *testing.T) {
	h, cleanup := setup(t, &fakeSource{sheet: charsheet.CharacterSheet{"Perception": 3}}, &fakePrefs{})
	defer cleanup()
	h.sender.err = errors.New("telegram down")

	// logged only, HandleUpdate never propagates transport errors
	h.svc.HandleUpdate(context.Background(), "tok", skillCheckUpdate("/skill"))
	require.Len(t, h.sender.replies, 1)
}
