// Package flow implements the three-stage client protocol of the exchange:
// pick an identity, optionally leave a message, then reveal the match. The
// persisted session and stage marker gate which screen is valid, mirroring
// what the web client keeps in browser storage.
package flow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const MaxMessageChars = 1000

var (
	ErrNoSession      = errors.New("no session")
	ErrSessionExists  = errors.New("session already exists")
	ErrInvalidStage   = errors.New("invalid stage for action")
	ErrMessageTooLong = errors.New("message too long")
)

type Flow struct {
	repo Repository
	api  API
}

func New(repo Repository, api API) *Flow {
	return &Flow{repo: repo, api: api}
}

// Resolve is the stage gate: given the screen the client is trying to show,
// it returns the screen that should actually be shown. Without a session
// everything collapses to selection; with one, the persisted stage wins, so
// navigating back to an earlier screen after progressing redirects forward
// again.
func (f *Flow) Resolve(current Stage) (Stage, error) {
	sess, stage, err := f.repo.Load()
	if err != nil {
		return StageSelection, err
	}
	if sess == nil {
		return StageSelection, nil
	}
	if current != stage {
		return stage, nil
	}
	return current, nil
}

// Participants lists the selectable identities, in table order.
func (f *Flow) Participants(ctx context.Context) ([]string, error) {
	return f.api.Participants(ctx)
}

// Select creates the session for the chosen identity and advances the stage
// to message. It is a purely local operation: the name is trusted from the
// list the server returned, and no network call happens here.
func (f *Flow) Select(name string) (*Session, error) {
	sess, _, err := f.repo.Load()
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return nil, ErrSessionExists
	}
	sess = &Session{
		ID:           uuid.NewString(),
		SelectedName: name,
		Timestamp:    time.Now().UTC(),
	}
	if err := f.repo.Save(sess, StageMessage); err != nil {
		return nil, err
	}
	return sess, nil
}

// CurrentMessage fetches whatever message the selected participant already
// stored, so the message screen can prefill it.
func (f *Flow) CurrentMessage(ctx context.Context) (string, error) {
	sess, stage, err := f.repo.Load()
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", ErrNoSession
	}
	if stage != StageMessage {
		return "", ErrInvalidStage
	}
	return f.api.Message(ctx, sess.SelectedName)
}

// Submit sends the message and advances to the reveal stage. Messages over
// the limit are refused before any network call. On a failed call the stage
// stays at message so the submission can be retried.
func (f *Flow) Submit(ctx context.Context, text string) error {
	if len([]rune(text)) > MaxMessageChars {
		return ErrMessageTooLong
	}
	sess, stage, err := f.repo.Load()
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrNoSession
	}
	if stage != StageMessage {
		return ErrInvalidStage
	}
	if err := f.api.SubmitMessage(ctx, sess.SelectedName, text); err != nil {
		return err
	}
	return f.repo.Save(sess, StageReveal)
}

// Skip advances to the reveal stage without touching the store; any message
// previously stored for this participant stays as it was.
func (f *Flow) Skip() error {
	sess, stage, err := f.repo.Load()
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrNoSession
	}
	if stage != StageMessage {
		return ErrInvalidStage
	}
	return f.repo.Save(sess, StageReveal)
}

// Prepare resolves the match and fetches its message, caching the result in
// the session without flipping the revealed flag. The reveal screen uses it
// to have the card ready before the user triggers the reveal. Once the
// cache is warm it never refetches.
func (f *Flow) Prepare(ctx context.Context) (MatchData, error) {
	sess, stage, err := f.repo.Load()
	if err != nil {
		return MatchData{}, err
	}
	if sess == nil {
		return MatchData{}, ErrNoSession
	}
	if stage != StageReveal {
		return MatchData{}, ErrInvalidStage
	}
	if sess.MatchData != nil {
		return *sess.MatchData, nil
	}
	receiver, err := f.api.Match(ctx, sess.SelectedName)
	if err != nil {
		return MatchData{}, err
	}
	message, _, err := f.api.MessageForMatch(ctx, sess.SelectedName)
	if err != nil {
		return MatchData{}, err
	}
	data := MatchData{Match: receiver, Message: message}
	sess.MatchData = &data
	if err := f.repo.Save(sess, StageReveal); err != nil {
		return MatchData{}, err
	}
	return data, nil
}

// Reveal returns the match, flipping the revealed flag on first call. Any
// fetch failure leaves Revealed=false so the reveal can be retried; repeat
// calls serve the cached data without going to the network.
func (f *Flow) Reveal(ctx context.Context) (MatchData, error) {
	sess, _, err := f.repo.Load()
	if err != nil {
		return MatchData{}, err
	}
	if sess != nil && sess.Revealed && sess.MatchData != nil {
		return *sess.MatchData, nil
	}
	data, err := f.Prepare(ctx)
	if err != nil {
		return MatchData{}, err
	}
	sess, _, err = f.repo.Load()
	if err != nil {
		return MatchData{}, err
	}
	sess.Revealed = true
	if err := f.repo.Save(sess, StageReveal); err != nil {
		return MatchData{}, err
	}
	return data, nil
}

// Revealed reports whether the reveal already happened for this session.
func (f *Flow) Revealed() (bool, error) {
	sess, _, err := f.repo.Load()
	if err != nil {
		return false, err
	}
	return sess != nil && sess.Revealed, nil
}

// Session returns the current session, or nil when none exists.
func (f *Flow) Session() (*Session, error) {
	sess, _, err := f.repo.Load()
	return sess, err
}

// Reset clears the stored session, dropping the client back to selection.
func (f *Flow) Reset() error {
	return f.repo.Clear()
}
