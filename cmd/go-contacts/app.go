package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tartampluch/go-contacts/internal/activity"
	"github.com/tartampluch/go-contacts/internal/book"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contact"
	"github.com/tartampluch/go-contacts/internal/engine"
	"github.com/tartampluch/go-contacts/internal/locale"
	"github.com/tartampluch/go-contacts/internal/storage"
	"github.com/urfave/cli/v2"
)

// session carries the state shared by every command of one invocation.
type session struct {
	settings *config.Settings
	clock    engine.Clock

	out      io.Writer
	errOut   io.Writer
	style    styles
	errStyle styles

	tr *locale.Translator

	// secrets overrides the OS keyring for sealed books.
	secrets storage.SecretSource
}

func newSession(settings *config.Settings, out, errOut io.Writer) *session {
	return &session{
		settings: settings,
		clock:    engine.RealClock{},
		out:      out,
		errOut:   errOut,
		style:    newStyles(out),
		errStyle: newStyles(errOut),
		tr:       locale.New(settings.Lang),
	}
}

// userError is a failure already rendered for the terminal.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

func newApp(s *session) *cli.App {
	return &cli.App{
		Name:                      config.AppCommand,
		Usage:                     config.AppUsage,
		Version:                   config.Version,
		HideVersion:               true,
		Writer:                    s.out,
		ErrWriter:                 s.errOut,
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: config.FlagBook, Value: s.settings.Book, Usage: config.FlagDescBook},
			&cli.StringFlag{Name: config.FlagDir, Value: s.settings.Dir, Usage: config.FlagDescDir},
			&cli.StringFlag{Name: config.FlagLang, Value: s.settings.Lang, Usage: config.FlagDescLang},
			&cli.BoolFlag{Name: config.FlagDebug, Value: s.settings.Debug, Usage: config.FlagDescDebug},
			&cli.BoolFlag{Name: config.FlagSeal, Value: s.settings.Seal, Usage: config.FlagDescSeal},
		},
		Before: s.before,
		// Errors are reported by the caller.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:  config.CmdAdd,
				Usage: config.DescAdd,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: config.FlagName, Usage: config.FlagDescName, Required: true},
					&cli.StringSliceFlag{Name: config.FlagPhone, Usage: config.FlagDescPhone},
					&cli.StringFlag{Name: config.FlagBirthday, Usage: config.FlagDescBirthday},
					&cli.StringFlag{Name: config.FlagEmail, Usage: config.FlagDescEmail},
					&cli.StringFlag{Name: config.FlagStatus, Usage: config.FlagDescStatus},
					&cli.StringFlag{Name: config.FlagNote, Usage: config.FlagDescNote},
				},
				Action: s.withBook(s.add),
			},
			{
				Name:      config.CmdEdit,
				Usage:     config.DescEdit,
				ArgsUsage: config.ArgsEdit,
				Action:    s.withBook(s.edit),
			},
			{
				Name:      config.CmdRemove,
				Usage:     config.DescRemove,
				ArgsUsage: config.ArgsRemove,
				Action:    s.withBook(s.remove),
			},
			{
				Name:      config.CmdSearch,
				Usage:     config.DescSearch,
				ArgsUsage: config.ArgsSearch,
				Action:    s.withBook(s.search),
			},
			{
				Name:   config.CmdList,
				Usage:  config.DescList,
				Action: s.withBook(s.list),
			},
			{
				Name:  config.CmdBirthdays,
				Usage: config.DescBirthdays,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: config.FlagUpcoming, Usage: config.FlagDescUpcoming},
				},
				Action: s.withBook(s.birthdays),
			},
			{
				Name:  config.CmdImportVCF,
				Usage: config.DescImportVCF,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: config.FlagIn, Usage: config.FlagDescIn, Required: true},
				},
				Action: s.withBook(s.importVCF),
			},
			{
				Name:  config.CmdExportVCF,
				Usage: config.DescExportVCF,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: config.FlagOut, Usage: config.FlagDescOut},
				},
				Action: s.withBook(s.exportVCF),
			},
			{
				Name:  config.CmdExportICS,
				Usage: config.DescExportICS,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: config.FlagOut, Usage: config.FlagDescOut},
					&cli.StringFlag{Name: config.FlagReminder, Usage: config.FlagDescReminder},
				},
				Action: s.withBook(s.exportICS),
			},
			{
				Name:  config.CmdVersion,
				Usage: config.DescVersion,
				Action: func(c *cli.Context) error {
					printVersion(c.App.Writer)
					return nil
				},
			},
		},
	}
}

// before applies the global flags.
func (s *session) before(c *cli.Context) error {
	s.settings.Book = c.String(config.FlagBook)
	s.settings.Dir = c.String(config.FlagDir)
	s.settings.Debug = c.Bool(config.FlagDebug)
	s.settings.Seal = c.Bool(config.FlagSeal)

	setupLogging(s.errOut, s.settings.Debug)
	logStartupInfo()

	if lang := c.String(config.FlagLang); lang != s.settings.Lang {
		s.settings.Lang = lang
		s.tr = locale.New(lang)
	}
	return nil
}

// openBook wires the book of the current settings and loads it.
func (s *session) openBook() (*book.Book, error) {
	dir := s.settings.Dir
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return nil, err
	}

	log := activity.NewFileLogger(filepath.Join(dir, s.settings.ActivityLog))
	log.Clock = s.clock

	store := storage.New(dir, log)
	if s.settings.Seal {
		store.Secrets = s.secrets
		if store.Secrets == nil {
			store.Secrets = storage.NewKeyringSecrets()
		}
	}

	digest := &engine.Digest{Clock: s.clock, WeekdayName: s.tr.Weekday}

	b := book.New(log, store, digest)
	b.Clock = s.clock
	if err := b.Load(s.settings.Book); err != nil {
		return nil, err
	}
	return b, nil
}

// withBook loads the book, runs fn and saves the book when fn changed it.
func (s *session) withBook(fn func(*cli.Context, *book.Book) (bool, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		b, err := s.openBook()
		if err != nil {
			return err
		}

		changed, err := fn(c, b)
		if err != nil {
			return err
		}
		if changed {
			return b.Save(s.settings.Book)
		}
		return nil
	}
}

func (s *session) add(c *cli.Context, b *book.Book) (bool, error) {
	ct, err := contact.Parse(contact.Input{
		Name:     c.String(config.FlagName),
		Phones:   c.StringSlice(config.FlagPhone),
		Birthday: c.String(config.FlagBirthday),
		Email:    c.String(config.FlagEmail),
		Status:   c.String(config.FlagStatus),
		Note:     c.String(config.FlagNote),
	}, s.clock.Now())
	if err != nil {
		return false, s.fail(err, nil)
	}

	if err := b.Add(ct); err != nil {
		return false, s.fail(err, nil)
	}
	s.success(config.TKeyContactAdded, map[string]any{"Name": ct.Name})
	return true, nil
}

func (s *session) edit(c *cli.Context, b *book.Book) (bool, error) {
	if c.Args().Len() < 2 {
		return false, fmt.Errorf("%s: %s", config.ErrMissingArgument, config.ArgsEdit)
	}
	name, field, value := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	if err := b.Edit(name, field, value); err != nil {
		return false, s.fail(err, map[string]any{"Name": name, "Field": field})
	}
	s.success(config.TKeyContactEdited, map[string]any{"Name": name})
	return true, nil
}

func (s *session) remove(c *cli.Context, b *book.Book) (bool, error) {
	if c.Args().Len() < 1 {
		return false, fmt.Errorf("%s: %s", config.ErrMissingArgument, config.ArgsRemove)
	}
	name := c.Args().First()

	if !b.Remove(name) {
		s.notice(config.TKeyNoMatch, nil)
		return false, nil
	}
	s.success(config.TKeyContactRemoved, map[string]any{"Name": name})
	return true, nil
}

func (s *session) search(c *cli.Context, b *book.Book) (bool, error) {
	if c.Args().Len() < 2 {
		return false, fmt.Errorf("%s: %s", config.ErrMissingArgument, config.ArgsSearch)
	}
	field, pattern := c.Args().Get(0), strings.Join(c.Args().Slice()[1:], " ")

	found, err := b.Search(pattern, field)
	if err != nil {
		return false, s.fail(err, map[string]any{"Field": field})
	}
	if len(found) == 0 {
		s.notice(config.TKeyNoMatch, nil)
		return false, nil
	}

	blocks := make([]string, len(found))
	for i, ct := range found {
		blocks[i] = ct.Block()
	}
	fmt.Fprintln(s.out, strings.Join(blocks, "\n\n"))
	return false, nil
}

func (s *session) list(_ *cli.Context, b *book.Book) (bool, error) {
	if b.Len() == 0 {
		s.notice(config.TKeyBookEmpty, nil)
		return false, nil
	}
	fmt.Fprintln(s.out, b.String())
	return false, nil
}

func (s *session) birthdays(c *cli.Context, b *book.Book) (bool, error) {
	if c.Bool(config.FlagUpcoming) {
		upcoming := engine.NextBirthdays(s.clock.Now(), b.Contacts())
		if len(upcoming) == 0 {
			s.notice(config.TKeyNoBirthdays, nil)
			return false, nil
		}
		for _, u := range upcoming {
			date := u.NextOccurrence.Format(config.DateFormatBirthday)
			if !u.YearKnown {
				fmt.Fprintf(s.out, config.FormatUpcomingNoAge+"\n", date, u.Name)
				continue
			}
			fmt.Fprintf(s.out, config.FormatUpcoming+"\n", date, u.Name, u.AgeNext)
		}
		return false, nil
	}

	digest := b.CongratulateBirthday()
	if digest == "" {
		s.notice(config.TKeyNoBirthdays, nil)
		return false, nil
	}
	fmt.Fprintln(s.out, s.style.title.Render(s.tr.Msg(config.TKeyDigestTitle, nil)))
	fmt.Fprintln(s.out, digest)
	return false, nil
}

func (s *session) importVCF(c *cli.Context, b *book.Book) (bool, error) {
	f, err := os.Open(c.String(config.FlagIn))
	if err != nil {
		return false, err
	}
	defer f.Close()

	contacts, stats, err := engine.ImportVCard(f, s.clock.Now())
	if err != nil {
		return false, err
	}

	for _, ct := range contacts {
		if err := c.Context.Err(); err != nil {
			return false, err
		}
		if err := b.Add(ct); err != nil {
			return false, s.fail(err, nil)
		}
	}
	s.success(config.TKeyImported, map[string]any{"Count": stats.Imported})
	return stats.Imported > 0, nil
}

func (s *session) exportVCF(c *cli.Context, b *book.Book) (bool, error) {
	path := s.outputPath(c, config.ExtVCF)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return false, err
	}

	contacts := b.Contacts()
	if err := engine.ExportVCard(f, contacts); err != nil {
		_ = f.Close()
		return false, err
	}
	if err := f.Close(); err != nil {
		return false, err
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyFile, path,
		config.LogKeyCount, len(contacts),
	)
	s.success(config.TKeyExported, map[string]any{"Count": len(contacts), "File": path})
	return false, nil
}

func (s *session) exportICS(c *cli.Context, b *book.Book) (bool, error) {
	path := s.outputPath(c, config.ExtICS)

	cal := &engine.Calendar{Clock: s.clock, ReminderTrigger: c.String(config.FlagReminder)}
	data, events, err := cal.Generate(b.Contacts())
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
		return false, err
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyFile, path,
		config.LogKeyEvents, events,
	)
	s.success(config.TKeyExported, map[string]any{"Count": events, "File": path})
	return false, nil
}

// outputPath returns the --out flag or <dir>/<book><ext>.
func (s *session) outputPath(c *cli.Context, ext string) string {
	if out := c.String(config.FlagOut); out != "" {
		return out
	}
	return filepath.Join(s.settings.Dir, s.settings.Book+ext)
}

// fail converts a contact error kind into a localized userError.
// Other errors are returned unchanged.
func (s *session) fail(err error, data map[string]any) error {
	var key string
	switch {
	case errors.Is(err, contact.ErrContactNotFound):
		key = config.TKeyErrNotFound
	case errors.Is(err, contact.ErrUnknownField):
		key = config.TKeyErrUnknownField
	case errors.Is(err, contact.ErrInvalidFormat):
		key = config.TKeyErrInvalidFormat
	case errors.Is(err, contact.ErrInvalidValue):
		key = config.TKeyErrInvalidValue
	default:
		return err
	}
	return &userError{msg: s.tr.Msg(key, data), err: err}
}

// report prints err on the error writer.
func (s *session) report(err error) {
	var ue *userError
	if !errors.As(err, &ue) {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
	} else {
		slog.Debug(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, ue.err,
		)
	}
	fmt.Fprintln(s.errOut, s.errStyle.failure.Render(err.Error()))
}

func (s *session) success(key string, data map[string]any) {
	fmt.Fprintln(s.out, s.style.success.Render(s.tr.Msg(key, data)))
}

func (s *session) notice(key string, data map[string]any) {
	fmt.Fprintln(s.out, s.style.muted.Render(s.tr.Msg(key, data)))
}
