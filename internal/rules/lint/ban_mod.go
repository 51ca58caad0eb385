// Package lint holds the rules rustlint runs.
package lint

import (
	"fmt"
	"path/filepath"

	"github.com/phobologic/rustlint/internal/diag"
	"github.com/phobologic/rustlint/internal/engine"
	"github.com/phobologic/rustlint/internal/syntax"
)

// BanModName is the config key of BanMod.
const BanModName = "ban_mod"

// BanMod rejects mod.rs module files, whatever their contents.
type BanMod struct {
	ctx *engine.Context
}

// NewBanMod creates the rule for one file.
func NewBanMod(ctx *engine.Context) engine.Rule {
	return &BanMod{ctx: ctx}
}

func (r *BanMod) Name() string           { return BanModName }
func (r *BanMod) Match(syntax.Node) bool { return false }
func (r *BanMod) Accumulate(syntax.Node) {}

// Finalize reports the file when its name is mod.rs, suggesting the
// equivalent dir.rs layout.
func (r *BanMod) Finalize() []diag.Diagnostic {
	path := r.ctx.Path
	if filepath.Base(path) != "mod.rs" {
		return nil
	}
	folder := filepath.Dir(path)
	sugg := fmt.Sprintf("create a `%s.rs` file and `%s` folder and remove `%s`", folder, folder, path)
	if folder == "." {
		// No directory to name the module after.
		sugg = fmt.Sprintf("move `%s` into a file named after its module in the parent directory", path)
	}
	return []diag.Diagnostic{r.ctx.Simple("Module files (mod.rs) are banned.", sugg)}
}
