package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"subtitlecat/internal/library"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/services"
)

// dispatch runs one command line and reports whether the session should end.
func (s *Session) dispatch(ctx context.Context, line string, ticker *time.Ticker) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	var err error
	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		s.println(helpText)
	case "dir", "cd":
		err = s.cmdDir(ctx, args)
	case "ls", "list":
		err = s.cmdList(args)
	case "select", "deselect":
		err = s.cmdSelect(cmd == "select", args)
	case "defaults", "lang":
		err = s.cmdDefaults(ctx, args)
	case "target":
		err = s.cmdTarget(args)
	case "keys", "key":
		err = s.cmdKeys(args)
	case "extract":
		_, err = s.manager.StartExtraction(ctx)
	case "translate":
		_, err = s.manager.ToggleTranslation(ctx)
	case "oneclick", "run":
		_, err = s.manager.ToggleOneClick(ctx)
	case "stop":
		if !s.manager.Stop(ctx) {
			s.println("Nothing is running.")
		}
	case "wait":
		s.wait(ctx, ticker)
	case "status":
		s.println(renderStatus(s.manager.Status(), s.opts.Colorize))
	default:
		err = fmt.Errorf("unknown command %q; type `help`", cmd)
	}
	if err != nil {
		s.warn(err)
	}
	s.drain()
	return false
}

func (s *Session) cmdDir(ctx context.Context, args []string) error {
	if len(args) == 0 {
		root := s.manager.Settings().Root()
		if root == "" {
			return errors.New("no directory selected; usage: dir <path>")
		}
		s.println(root)
		return nil
	}
	if !s.manager.Status().Jobs.Idle() {
		return services.Wrap(services.ErrBusy, "session", "dir", "stop the running batch before changing directory", nil)
	}
	inv, err := s.manager.Settings().SetRoot(strings.Join(args, " "))
	if err != nil {
		return err
	}
	s.println(fmt.Sprintf("%s: %d video(s), %d subtitle file(s)", inv.Root, len(inv.Videos), len(inv.Subtitles)))
	s.startWatch(ctx, inv.Root)
	return nil
}

func (s *Session) cmdList(args []string) error {
	catalog := s.manager.Settings().Catalog()
	if catalog.Root() == "" {
		return errors.New("no directory selected; usage: dir <path>")
	}
	kinds := []library.Kind{library.KindVideo, library.KindSubtitle}
	if len(args) > 0 {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []library.Kind{kind}
	}
	for _, kind := range kinds {
		s.println(renderEntries(kind, catalog.Entries(kind)))
	}
	return nil
}

func (s *Session) cmdSelect(selected bool, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: select|deselect videos|subs [n...]")
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	positions, err := parsePositions(args[1:])
	if err != nil {
		return err
	}
	catalog := s.manager.Settings().Catalog()
	if err := catalog.SetSelected(kind, selected, positions...); err != nil {
		return err
	}
	s.println(renderEntries(kind, catalog.Entries(kind)))
	return nil
}

func (s *Session) cmdDefaults(ctx context.Context, args []string) error {
	settings := s.manager.Settings()
	sub := "show"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}
	switch sub {
	case "show":
		if tags := settings.Defaults(); len(tags) > 0 {
			s.println("Default languages: " + strings.Join(tags, ", "))
		} else {
			s.println("No default languages; you will be asked for every video.")
		}
	case "set":
		if len(args) < 2 {
			return errors.New("usage: defaults set <lang...>")
		}
		settings.SetDefaults(args[1:])
		s.println("Default languages: " + strings.Join(settings.Defaults(), ", "))
	case "clear":
		settings.SetDefaults(nil)
		s.println("Default languages cleared.")
	case "setup":
		s.goTask(func() {
			if _, err := s.manager.SetupDefaultLanguages(ctx); err != nil {
				logging.WarnWithContext(s.logger, "default language setup failed", "defaults_setup_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "default languages unchanged"),
					logging.String(logging.FieldErrorHint, "use `defaults set <lang...>` instead"),
				)
			}
		})
	default:
		return fmt.Errorf("unknown defaults command %q", sub)
	}
	return nil
}

func (s *Session) cmdTarget(args []string) error {
	settings := s.manager.Settings()
	if len(args) == 0 || strings.EqualFold(args[0], "list") {
		s.println(renderTargets(settings.Target()))
		return nil
	}
	target, err := settings.SetTarget(strings.Join(args, " "))
	if err != nil {
		return err
	}
	s.println(fmt.Sprintf("Target: %s (%s)", target.Name, target.Code))
	return nil
}

func (s *Session) cmdKeys(args []string) error {
	settings := s.manager.Settings()
	sub := "list"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}
	switch sub {
	case "list":
	case "add":
		if len(args) < 2 {
			return errors.New("usage: keys add <key>")
		}
		if err := settings.AddKey(args[1]); err != nil {
			return err
		}
		s.logger.Info("keys saved", logging.Int("keys", settings.KeyCount()))
	case "remove", "rm":
		if len(args) < 2 {
			return errors.New("usage: keys remove <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%q is not a key number", args[1])
		}
		if _, err := settings.RemoveKey(n); err != nil {
			return err
		}
		s.logger.Info("keys saved", logging.Int("keys", settings.KeyCount()))
	default:
		return fmt.Errorf("unknown keys command %q", sub)
	}
	if keys := settings.Keys(); keys != nil {
		s.println(renderKeys(keys.List()))
	}
	return nil
}

func parseKind(value string) (library.Kind, error) {
	switch strings.ToLower(value) {
	case "videos", "video", "v":
		return library.KindVideo, nil
	case "subs", "sub", "subtitles", "s", "srt":
		return library.KindSubtitle, nil
	}
	return 0, fmt.Errorf("unknown list %q; use videos or subs", value)
}

func parsePositions(args []string) ([]int, error) {
	var out []int
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%q is not a row number", field)
			}
			out = append(out, n)
		}
	}
	return out, nil
}
