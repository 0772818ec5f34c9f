package gonja

// Names of the syntax extensions installed by default, matching the fixed set
// a j2-style renderer enables unconditionally.
const (
	ExtI18N         = "i18n"
	ExtDo           = "do"
	ExtLoopControls = "loopcontrols"
)

// DefaultExtensions returns a fresh copy of the default extension set.
func DefaultExtensions() []string {
	return []string{ExtI18N, ExtDo, ExtLoopControls}
}

var extensionInstallers = map[string]func(*Engine) error{
	ExtI18N:         installI18N,
	ExtDo:           installDo,
	ExtLoopControls: installLoopControls,
}

// installI18N registers the translation hooks as identity callables. No
// catalog is ever installed, so gettext returns its message unchanged and
// ngettext picks the singular or plural form by count.
func installI18N(e *Engine) error {
	gettext := func(args ...any) any {
		if len(args) == 0 {
			return ""
		}
		return args[0]
	}
	ngettext := func(args ...any) any {
		if len(args) == 0 {
			return ""
		}
		if len(args) >= 3 {
			if n, ok := toInt(args[2]); ok && n != 1 {
				return args[1]
			}
		}
		return args[0]
	}
	e.environment.Context.Set("gettext", gettext)
	e.environment.Context.Set("_", gettext)
	e.environment.Context.Set("ngettext", ngettext)
	return nil
}

// installDo registers the {% do expr %} statement, which evaluates its
// expression for side effects and emits nothing.
func installDo(e *Engine) error {
	return setControlStructure(e.environment.ControlStructures, "do", parseDo)
}

// installLoopControls registers {% break %} and {% continue %}. The stock for
// statement does not understand the loop-control signals, so a signal-aware
// replacement takes its place in the same pass.
func installLoopControls(e *Engine) error {
	set := e.environment.ControlStructures
	if err := setControlStructure(set, "break", parseBreak); err != nil {
		return err
	}
	if err := setControlStructure(set, "continue", parseContinue); err != nil {
		return err
	}
	return setControlStructure(set, "for", parseFor)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
