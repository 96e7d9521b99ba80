// Package letterboxd drives the Letterboxd list editor with a headless browser.
package letterboxd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/cinelist-cli/cinelist/constant"
	"github.com/cinelist-cli/cinelist/key"
	"github.com/cinelist-cli/cinelist/log"
	"github.com/cinelist-cli/cinelist/remote"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/spf13/viper"
)

const (
	consentTimeout = 10 * time.Second
	savedMessage   = "list was saved"
)

const (
	selUsername     = "#field-username"
	selPassword     = "#field-password"
	selConsent      = ".fc-cta-consent"
	selFileInput    = "input[type='file']"
	selImportButton = ".add-import-films-to-list"
	selReplace      = "label[for='replace-original'] .substitute"
	selReplaceInput = "#replace-original"
	selSubmitMatch  = ".submit-matched-films"
	selSave         = "#list-edit-save"
	selNotification = ".jnotify-message"
)

// Options tunes the browser session.
type Options struct {
	BaseURL     string
	Headless    bool
	StepTimeout time.Duration
}

// OptionsFromConfig reads the letterboxd.* keys.
func OptionsFromConfig() Options {
	return Options{
		BaseURL:     constant.LetterboxdBaseURL,
		Headless:    viper.GetBool(key.LetterboxdHeadless),
		StepTimeout: time.Duration(viper.GetInt(key.LetterboxdStepTimeoutSeconds)) * time.Second,
	}
}

// Opener launches a fresh browser for every session.
type Opener struct {
	opts Options
}

// NewOpener returns an Opener.
func NewOpener(opts Options) *Opener {
	if opts.BaseURL == "" {
		opts.BaseURL = constant.LetterboxdBaseURL
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = time.Minute
	}
	return &Opener{opts: opts}
}

// Open implements remote.Opener.
func (o *Opener) Open(ctx context.Context) (remote.Session, error) {
	l := launcher.New().Context(ctx).Headless(o.opts.Headless)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("open tab: %w", err)
	}

	log.Debugf("browser session started (headless: %t)", o.opts.Headless)
	return &Session{opts: o.opts, launcher: l, browser: browser, page: page}, nil
}

// Session is a remote.Session backed by a Chrome tab.
type Session struct {
	opts     Options
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	username string
}

// step returns the page bound to ctx and limited to d.
func (s *Session) step(ctx context.Context, d time.Duration) (*rod.Page, func()) {
	p := s.page.Context(ctx).Timeout(d)
	return p, func() { p.CancelTimeout() }
}

func (s *Session) Authenticate(ctx context.Context, username, password string) error {
	const step = "sign in"
	p, done := s.step(ctx, s.opts.StepTimeout)
	defer done()

	signIn := s.opts.BaseURL + constant.LetterboxdSignIn
	if err := p.Navigate(signIn); err != nil {
		return remote.Wrap(remote.KindAuth, step, err)
	}

	field, err := p.Element(selUsername)
	if err != nil {
		return remote.Wrap(remote.KindAuth, step, err)
	}
	if err := field.WaitVisible(); err != nil {
		return remote.Wrap(remote.KindAuth, step, err)
	}
	if err := field.Input(username); err != nil {
		return remote.Wrap(remote.KindAuth, step, err)
	}

	field, err = p.Element(selPassword)
	if err != nil {
		return remote.Wrap(remote.KindAuth, step, err)
	}
	if err := field.Input(password); err != nil {
		return remote.Wrap(remote.KindAuth, step, err)
	}
	if _, err := field.Eval(`() => this.form.submit()`); err != nil {
		return remote.Wrap(remote.KindAuth, step, err)
	}

	err = p.Wait(rod.Eval(`(u) => !location.href.replace(/\/$/, "").startsWith(u.replace(/\/$/, ""))`, signIn))
	if err != nil {
		return remote.Errorf(remote.KindAuth, step, "still on the sign-in page, check the credentials (%v)", err)
	}

	s.username = username
	log.Info("signed in to letterboxd")
	return nil
}

// ListURL is the public page of a user's list, with a trailing slash.
func ListURL(base, username, list string) string {
	return fmt.Sprintf("%s/%s/list/%s/", strings.TrimSuffix(base, "/"), url.PathEscape(username), url.PathEscape(list))
}

func (s *Session) OpenList(ctx context.Context, list string) error {
	const step = "open list"
	if s.username == "" {
		return remote.Errorf(remote.KindAuth, step, "not signed in")
	}

	p, done := s.step(ctx, s.opts.StepTimeout)
	defer done()

	if err := p.Navigate(ListURL(s.opts.BaseURL, s.username, list) + "edit/"); err != nil {
		return remote.Wrap(remote.KindUpload, step, err)
	}
	if err := p.WaitLoad(); err != nil {
		return remote.Wrap(remote.KindUpload, step, err)
	}

	s.dismissConsent(ctx)

	if _, err := p.Element(selFileInput); err != nil {
		return remote.Errorf(remote.KindUpload, step, "list %q has no import form: %v", list, err)
	}

	log.Infof("opened list %s", list)
	return nil
}

// dismissConsent clicks the cookie banner away when it shows up.
func (s *Session) dismissConsent(ctx context.Context) {
	p, done := s.step(ctx, consentTimeout)
	defer done()

	el, err := p.Element(selConsent)
	if err != nil {
		log.Debug("no consent banner")
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		log.Debugf("consent banner: %v", err)
	}
}

func (s *Session) UploadPayload(ctx context.Context, path string) error {
	const step = "upload"
	p, done := s.step(ctx, s.opts.StepTimeout)
	defer done()

	abs, err := filepath.Abs(path)
	if err != nil {
		return remote.Wrap(remote.KindUpload, step, err)
	}

	input, err := p.Element(selFileInput)
	if err != nil {
		return remote.Wrap(remote.KindUpload, step, err)
	}
	if err := input.SetFiles([]string{abs}); err != nil {
		return remote.Wrap(remote.KindUpload, step, err)
	}

	log.Infof("uploaded %s", filepath.Base(abs))
	return nil
}

func (s *Session) AwaitMatchResolution(ctx context.Context, timeout time.Duration) (remote.MatchResult, error) {
	const step = "match resolution"
	p, done := s.step(ctx, timeout)
	defer done()

	log.Infof("waiting up to %s for letterboxd to match the films", timeout)
	err := p.Wait(rod.Eval(`(sel) => {
		const b = document.querySelector(sel);
		return !!b && !b.classList.contains("import-button-disabled");
	}`, selImportButton))
	if err != nil {
		return remote.MatchResult{}, remote.Wrap(remote.KindMatchTimeout, step, err)
	}

	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return remote.MatchResult{}, remote.Wrap(remote.KindMatchTimeout, step, err)
	}

	return parseMatch(html)
}

func (s *Session) SetReplaceMode(ctx context.Context, replace bool) error {
	const step = "replace mode"
	p, done := s.step(ctx, s.opts.StepTimeout)
	defer done()

	checked, err := p.Eval(`(sel) => { const i = document.querySelector(sel); return !!i && i.checked; }`, selReplaceInput)
	if err != nil {
		return remote.Wrap(remote.KindUpload, step, err)
	}
	if checked.Value.Bool() == replace {
		return nil
	}

	toggle, err := p.Element(selReplace)
	if err != nil {
		return remote.Wrap(remote.KindUpload, step, err)
	}
	if err := toggle.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return remote.Wrap(remote.KindUpload, step, err)
	}

	log.Infof("replace entire list: %t", replace)
	return nil
}

func (s *Session) ConfirmMatches(ctx context.Context) error {
	const step = "confirm matches"
	p, done := s.step(ctx, s.opts.StepTimeout)
	defer done()

	button, err := p.Element(selSubmitMatch)
	if err != nil {
		return remote.Wrap(remote.KindUpload, step, err)
	}
	if _, err := button.Eval(`() => this.click()`); err != nil {
		return remote.Wrap(remote.KindUpload, step, err)
	}

	return nil
}

func (s *Session) Save(ctx context.Context) error {
	const step = "save"
	p, done := s.step(ctx, s.opts.StepTimeout)
	defer done()

	button, err := p.Element(selSave)
	if err != nil {
		return remote.Wrap(remote.KindSave, step, err)
	}
	if err := button.WaitVisible(); err != nil {
		return remote.Wrap(remote.KindSave, step, err)
	}
	if _, err := button.Eval(`() => this.click()`); err != nil {
		return remote.Wrap(remote.KindSave, step, err)
	}

	return nil
}

func (s *Session) AwaitSaveConfirmation(ctx context.Context, timeout time.Duration) error {
	const step = "save confirmation"
	p, done := s.step(ctx, timeout)
	defer done()

	err := p.Wait(rod.Eval(`(sel, text) =>
		[...document.querySelectorAll(sel)].some(e => e.textContent.includes(text))`,
		selNotification, savedMessage))
	if err != nil {
		return remote.Wrap(remote.KindSave, step, err)
	}

	log.Info("letterboxd confirmed the list was saved")
	return nil
}

func (s *Session) Entries(ctx context.Context) ([]remote.Entry, error) {
	p, done := s.step(ctx, s.opts.StepTimeout)
	defer done()

	html, err := p.HTML()
	if err != nil {
		return nil, err
	}
	return parseEntries(html)
}

func (s *Session) MoveBefore(ctx context.Context, id, target string) error {
	p, done := s.step(ctx, s.opts.StepTimeout)
	defer done()

	moved, err := p.Eval(`(id, target) => {
		const item = document.querySelector('#list-items li.film-list-entry[data-film-id="' + id + '"]');
		const anchor = document.querySelector('#list-items li.film-list-entry[data-film-id="' + target + '"]');
		if (!item || !anchor) return false;
		anchor.parentNode.insertBefore(item, anchor);
		return true;
	}`, id, target)
	if err != nil {
		return err
	}
	if !moved.Value.Bool() {
		return fmt.Errorf("move %s before %s: %w", id, target, errEntryNotFound)
	}
	return nil
}

var errEntryNotFound = errors.New("entry not found in the list editor")

func (s *Session) Close() error {
	var errs []string
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
	if len(errs) > 0 {
		return fmt.Errorf("close browser: %s", strings.Join(errs, "; "))
	}
	return nil
}
