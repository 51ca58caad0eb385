package rules

import (
	"github.com/phobologic/rustlint/internal/rules/lint"
)

func init() {
	Register(lint.BanModName, lint.NewBanMod)
	Register(lint.MacroFmtName, lint.NewMacroFmt)
	Register(lint.ImportsName, lint.NewImports)
	Register(lint.NestingName, lint.NewNesting)
}
