package charsheet

import "errors"

var (
	// ErrBrowserConnect means the remote browser endpoint could not be
	// reached.
	ErrBrowserConnect = errors.New("cannot connect to browser")
	// ErrRenderTimeout means the skills panel did not render within the
	// configured wait.
	ErrRenderTimeout = errors.New("timed out waiting for skill list to render")
	// ErrNoScriptValue means the in-page extraction script returned
	// nothing.
	ErrNoScriptValue = errors.New("extraction script did not return a value")
	// ErrParse means a serialized skill row could not be decoded.
	ErrParse = errors.New("cannot parse skill row")
	// ErrEmptySkillList means extraction succeeded but yielded no
	// skills.
	ErrEmptySkillList = errors.New("skill list is empty")
	// ErrInvalidRef means a URL matched no known character sheet
	// pattern.
	ErrInvalidRef = errors.New("not a character sheet url")
)
